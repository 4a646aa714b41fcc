// Package morph provides the sculpting parameter model: the fixed-length
// morph vector, per-index legal ranges, the sub-phase morph groups, and
// the lock manager that freezes finished groups.
package morph

import "math"

// Count is the fixed number of sculpting parameters in a morph vector.
const Count = 62

// Overshoot is how far outside its native range a candidate value may
// transiently wander during search. Values are clamped hard before they
// are handed to the renderer.
const Overshoot = 0.5

// Range is one morph index's engine-defined legal bounds. The full
// table is engine-provided deformation metadata, supplied as
// configuration rather than guessed per feature.
type Range struct {
	Min float64
	Max float64
}

// Span returns the width of the range.
func (r Range) Span() float64 { return r.Max - r.Min }

// RangeTable holds the legal range for every morph index.
type RangeTable [Count]Range

// DefaultRanges returns the unit-range table used by the synthetic rig.
// A real engine supplies its own metadata here.
func DefaultRanges() RangeTable {
	var t RangeTable
	for i := range t {
		t[i] = Range{Min: 0, Max: 1}
	}
	return t
}

// NewVector returns a zeroed morph vector of the fixed length.
func NewVector() []float64 {
	return make([]float64, Count)
}

// MidpointVector returns a vector with every morph at the middle of its
// legal range, the usual starting point for a session.
func MidpointVector(ranges RangeTable) []float64 {
	v := NewVector()
	for i := range v {
		v[i] = (ranges[i].Min + ranges[i].Max) / 2
	}
	return v
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// ClampToRanges clamps every value hard into its native range, the form
// required before applying a vector to the renderer.
func ClampToRanges(vec []float64, ranges RangeTable) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		if i >= Count {
			break
		}
		out[i] = Clamp(v, ranges[i].Min, ranges[i].Max)
	}
	return out
}
