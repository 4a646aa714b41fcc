package scoring

import (
	"log/slog"
	"math"

	"github.com/morholt/facelearner/internal/features"
	"github.com/morholt/facelearner/internal/phase"
)

// Score is one iteration's full comparison result. Recomputed every
// iteration, never persisted beyond the current comparison.
type Score struct {
	Total          float64
	MainPhases     [phase.MainPhaseCount]float64
	SubPhases      map[phase.SubPhase]float64
	SkinToneFactor float64
}

// Config holds the scorer's tunables.
type Config struct {
	Calibration Calibration

	// Main phase weights. They sum to 1 so a fully gated perfect match
	// totals exactly 1.
	FoundationWeight float64
	StructureWeight  float64
	MajorWeight      float64
	FineWeight       float64

	// Gate shape: below GateLow a prior phase contributes only the
	// floor; at GateHigh and above the gate is fully open. The floor is
	// deliberately nonzero so gradient-free search still sees improving
	// directions through a closed gate.
	GateLow   float64
	GateHigh  float64
	GateFloor float64
}

// DefaultConfig returns the calibrated scorer configuration.
func DefaultConfig() Config {
	return Config{
		Calibration:      DefaultCalibration(),
		FoundationWeight: 0.35,
		StructureWeight:  0.30,
		MajorWeight:      0.25,
		FineWeight:       0.10,
		GateLow:          0.35,
		GateHigh:         0.65,
		GateFloor:        0.30,
	}
}

// Scorer compares feature sets hierarchically.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer. A zero-value calibration falls back to
// the shipped table.
func NewScorer(cfg Config) *Scorer {
	if cfg.Calibration == nil {
		cfg.Calibration = DefaultCalibration()
	}
	return &Scorer{cfg: cfg}
}

// matchScore converts a normalized diff into a similarity using the
// Tukey biweight curve. Compared to exponential decay it keeps real
// discrimination in the 25–75% error band instead of scoring very
// different values all-alike mediocre.
func matchScore(normalizedDiff float64) float64 {
	if normalizedDiff >= 1 {
		return 0
	}
	d := 1 - normalizedDiff*normalizedDiff
	return d * d
}

// blend aggregates match scores as half average, half worst case. The
// worst single member counts as much as the whole average, so one bad
// feature cannot be averaged away.
func blend(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.5
	}
	sum := 0.0
	worst := math.MaxFloat64
	for _, s := range scores {
		sum += s
		if s < worst {
			worst = s
		}
	}
	return 0.5*(sum/float64(len(scores))) + 0.5*worst
}

// SubPhaseScore compares one sub-phase's features between target and
// current. A sub-phase with nothing comparable scores a neutral 0.5.
func (s *Scorer) SubPhaseScore(sub phase.SubPhase, target, current *features.FeatureSet) float64 {
	var matches []float64
	for _, f := range features.FeaturesOf(sub) {
		tv, ok1 := target.Get(f)
		cv, ok2 := current.Get(f)
		if !ok1 || !ok2 {
			continue
		}
		expected, ok := s.cfg.Calibration[f]
		if !ok || expected <= 0 {
			expected = fallbackRange
		}
		matches = append(matches, matchScore(math.Abs(tv-cv)/expected))
	}
	if len(matches) == 0 {
		slog.Warn("sub-phase has no comparable features", "sub", sub)
		return 0.5
	}
	return blend(matches)
}

// gate maps a prior phase's score to a multiplier in [floor, 1] using a
// smoothstep between the low and high thresholds.
func (s *Scorer) gate(priorScore float64) float64 {
	t := (priorScore - s.cfg.GateLow) / (s.cfg.GateHigh - s.cfg.GateLow)
	t = math.Max(0, math.Min(1, t))
	smooth := t * t * (3 - 2*t)
	return s.cfg.GateFloor + (1-s.cfg.GateFloor)*smooth
}

// Calculate produces the full hierarchical score. tones is optional;
// nil skips the skin-tone multiplier.
func (s *Scorer) Calculate(target, current *features.FeatureSet, tones *SkinTonePair) Score {
	score := Score{
		SubPhases:      make(map[phase.SubPhase]float64, phase.SubPhaseCount),
		SkinToneFactor: 1,
	}

	for m := phase.MainPhase(0); m < phase.MainPhaseCount; m++ {
		var subScores []float64
		for _, sub := range phase.SubPhasesOf(m) {
			v := s.SubPhaseScore(sub, target, current)
			score.SubPhases[sub] = v
			subScores = append(subScores, v)
		}
		score.MainPhases[m] = blend(subScores)
	}

	foundation := score.MainPhases[phase.Foundation]
	structure := score.MainPhases[phase.Structure]
	major := score.MainPhases[phase.MajorFeatures]
	fine := score.MainPhases[phase.FineDetails]

	// Soft gating: Structure is gated by Foundation; the feature phases
	// are gated by both. A lucky nose cannot mask a wrong face shape.
	gateF := s.gate(foundation)
	gateS := s.gate(structure)

	total := s.cfg.FoundationWeight*foundation +
		s.cfg.StructureWeight*structure*gateF +
		s.cfg.MajorWeight*major*gateF*gateS +
		s.cfg.FineWeight*fine*gateF*gateS

	if tones != nil {
		score.SkinToneFactor = tones.Factor()
		total *= score.SkinToneFactor
	}

	score.Total = total
	return score
}
