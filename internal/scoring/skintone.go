package scoring

import "math"

// SkinTonePair compares the target's and the character's skin tone
// buckets. Tone is a coarse bucket index from the engine's palette, not
// a color; only the bucket distance matters.
type SkinTonePair struct {
	Target  int
	Current int
}

// maxTonePenalty caps the skin-tone effect at a 15% reduction. Tone is
// a soft signal: it must nudge the result, never dominate the geometry.
const maxTonePenalty = 0.15

// Factor returns the multiplier in [0.85, 1.0]: no penalty for the same
// bucket, the full penalty at three or more buckets apart, linear in
// between.
func (p SkinTonePair) Factor() float64 {
	d := math.Abs(float64(p.Target - p.Current))
	if d > 3 {
		d = 3
	}
	return 1 - maxTonePenalty*d/3
}
