package scoring

import (
	"math"
	"testing"

	"github.com/morholt/facelearner/internal/features"
	"github.com/morholt/facelearner/internal/phase"
)

// uniformSet builds a feature set with every known feature at the same
// value.
func uniformSet(v float64) *features.FeatureSet {
	values := make(map[features.Feature]float64)
	for _, sub := range phase.AllSubPhases() {
		for _, f := range features.FeaturesOf(sub) {
			values[f] = v
		}
	}
	return &features.FeatureSet{Values: values, Valid: true}
}

func TestMatchScoreCurve(t *testing.T) {
	if got := matchScore(0); got != 1 {
		t.Fatalf("zero diff must score 1, got %.4f", got)
	}
	if got := matchScore(1); got != 0 {
		t.Fatalf("diff at the expected range must score 0, got %.4f", got)
	}
	if got := matchScore(1.5); got != 0 {
		t.Fatalf("diff past the expected range must score 0, got %.4f", got)
	}
	// Tukey biweight at half range: (1 - 0.25)^2.
	if got := matchScore(0.5); math.Abs(got-0.5625) > 1e-12 {
		t.Fatalf("expected 0.5625 at half range, got %.6f", got)
	}
}

func TestBlendWeighsWorstCase(t *testing.T) {
	got := blend([]float64{1.0, 1.0, 0.0})
	want := 0.5*(2.0/3.0) + 0.5*0.0
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %.4f, got %.4f", want, got)
	}
}

func TestPerfectMatchScoresOne(t *testing.T) {
	s := NewScorer(DefaultConfig())
	target := uniformSet(0.5)

	score := s.Calculate(target, target, &SkinTonePair{Target: 2, Current: 2})

	for sub, v := range score.SubPhases {
		if v != 1.0 {
			t.Fatalf("sub-phase %s expected 1.0, got %.4f", sub, v)
		}
	}
	for m, v := range score.MainPhases {
		if v != 1.0 {
			t.Fatalf("main phase %d expected 1.0, got %.4f", m, v)
		}
	}
	if score.SkinToneFactor != 1.0 {
		t.Fatalf("equal tones expected factor 1.0, got %.4f", score.SkinToneFactor)
	}
	if math.Abs(score.Total-1.0) > 1e-9 {
		t.Fatalf("expected total 1.0, got %.6f", score.Total)
	}
}

func TestMaximalMismatchScoresZero(t *testing.T) {
	s := NewScorer(DefaultConfig())

	// Every feature differs by 1.0, far past every expected range.
	score := s.Calculate(uniformSet(0.0), uniformSet(1.0), nil)

	for sub, v := range score.SubPhases {
		if v != 0.0 {
			t.Fatalf("sub-phase %s expected 0.0, got %.4f", sub, v)
		}
	}
	if score.Total != 0.0 {
		t.Fatalf("expected total 0.0, got %.6f", score.Total)
	}
}

func TestEmptySubPhaseIsNeutral(t *testing.T) {
	s := NewScorer(DefaultConfig())
	empty := &features.FeatureSet{}

	if got := s.SubPhaseScore(phase.SubJaw, empty, empty); got != 0.5 {
		t.Fatalf("expected neutral 0.5, got %.4f", got)
	}
}

func TestGateShape(t *testing.T) {
	s := NewScorer(DefaultConfig())

	if got := s.gate(0.0); got != 0.30 {
		t.Fatalf("closed gate must sit at the floor, got %.4f", got)
	}
	if got := s.gate(0.35); got != 0.30 {
		t.Fatalf("gate at the low threshold must sit at the floor, got %.4f", got)
	}
	if got := s.gate(0.65); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("gate at the high threshold must be fully open, got %.4f", got)
	}
	if got := s.gate(1.0); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("open gate must stay at 1.0, got %.4f", got)
	}

	mid := s.gate(0.50)
	if mid <= 0.30 || mid >= 1.0 {
		t.Fatalf("mid gate must be strictly between floor and 1, got %.4f", mid)
	}
}

func TestGateMonotonicity(t *testing.T) {
	s := NewScorer(DefaultConfig())

	prev := -1.0
	for f := 0.0; f <= 1.0; f += 0.01 {
		g := s.gate(f)
		if g < prev {
			t.Fatalf("gate decreased at %.2f: %.6f < %.6f", f, g, prev)
		}
		prev = g
	}
}

func TestFoundationGatesTotal(t *testing.T) {
	s := NewScorer(DefaultConfig())
	cfg := DefaultConfig()

	// Fixed later-phase scores; sweep foundation and verify the total
	// never decreases as foundation improves.
	total := func(foundation float64) float64 {
		gF := s.gate(foundation)
		gS := s.gate(0.9)
		return cfg.FoundationWeight*foundation +
			cfg.StructureWeight*0.9*gF +
			cfg.MajorWeight*0.9*gF*gS +
			cfg.FineWeight*0.9*gF*gS
	}

	prev := -1.0
	for f := 0.0; f <= 1.0; f += 0.01 {
		tot := total(f)
		if tot < prev {
			t.Fatalf("total decreased as foundation rose at %.2f", f)
		}
		prev = tot
	}

	if total(0.70) <= total(0.30) {
		t.Fatal("opening the foundation gate must raise the total")
	}
}

func TestSkinToneFactor(t *testing.T) {
	cases := []struct {
		target, current int
		want            float64
	}{
		{2, 2, 1.0},
		{2, 3, 0.95},
		{2, 4, 0.90},
		{0, 3, 0.85},
		{0, 7, 0.85}, // capped at 3 buckets
	}
	for _, tc := range cases {
		p := SkinTonePair{Target: tc.target, Current: tc.current}
		if got := p.Factor(); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("tones (%d,%d): expected %.2f, got %.4f", tc.target, tc.current, tc.want, got)
		}
	}
}

func TestSkinTonePenaltyAppliesToTotal(t *testing.T) {
	s := NewScorer(DefaultConfig())
	target := uniformSet(0.5)

	plain := s.Calculate(target, target, nil)
	toned := s.Calculate(target, target, &SkinTonePair{Target: 0, Current: 3})

	if math.Abs(toned.Total-plain.Total*0.85) > 1e-9 {
		t.Fatalf("expected 15%% penalty, got %.6f vs %.6f", toned.Total, plain.Total)
	}
}
