package optimizer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/morholt/facelearner/internal/features"
	"github.com/morholt/facelearner/internal/morph"
	"github.com/morholt/facelearner/internal/phase"
	"github.com/morholt/facelearner/internal/synth"
)

// newSession wires an optimizer to the synthetic rig with a reachable
// target and returns both plus the starting vector.
func newSession(t *testing.T, seed int64) (*Optimizer, *synth.Rig, []float64) {
	t.Helper()
	rig := synth.NewRig(seed)
	target := synth.RandomMorphs(rand.New(rand.NewSource(seed + 1)))

	cfg := DefaultConfig(seed)
	o := New(cfg)
	start := morph.MidpointVector(cfg.Ranges)
	o.Initialize(start)
	o.SetTarget(rig.Render(target))
	return o, rig, start
}

// run drives a session for at most maxIters frames, returning the last
// action and every candidate emitted.
func run(o *Optimizer, rig *synth.Rig, start []float64, maxIters int) (phase.Action, [][]float64) {
	ranges := morph.DefaultRanges()
	vec := start
	var candidates [][]float64
	last := phase.ActionContinue

	for i := 0; i < maxIters; i++ {
		res := o.Iterate(rig.Render(morph.ClampToRanges(vec, ranges)))
		last = res.Action
		if res.Next == nil {
			break
		}
		candidates = append(candidates, res.Next)
		vec = res.Next
	}
	return last, candidates
}

func TestDeterminismWithSeed(t *testing.T) {
	o1, rig1, start1 := newSession(t, 99)
	o2, rig2, start2 := newSession(t, 99)

	_, c1 := run(o1, rig1, start1, 300)
	_, c2 := run(o2, rig2, start2, 300)

	if len(c1) != len(c2) {
		t.Fatalf("candidate counts differ: %d vs %d", len(c1), len(c2))
	}
	for i := range c1 {
		for j := range c1[i] {
			if c1[i][j] != c2[i][j] {
				t.Fatalf("candidate %d index %d differs: %.10f vs %.10f",
					i, j, c1[i][j], c2[i][j])
			}
		}
	}
	if o1.BestScore() != o2.BestScore() {
		t.Fatalf("best scores differ: %.10f vs %.10f", o1.BestScore(), o2.BestScore())
	}
}

func TestFirstCandidateScopedToFirstSubPhase(t *testing.T) {
	o, rig, start := newSession(t, 7)

	res := o.Iterate(rig.Render(start))
	if res.Next == nil {
		t.Fatal("expected a candidate")
	}

	group := make(map[int]bool)
	for _, idx := range morph.GroupFor(phase.SubFaceShape) {
		group[idx] = true
	}
	for i := range res.Next {
		if !group[i] && res.Next[i] != start[i] {
			t.Fatalf("index %d outside the active group changed: %.6f -> %.6f",
				i, start[i], res.Next[i])
		}
	}
}

func TestCandidatesRespectRangesAndLocks(t *testing.T) {
	o, rig, start := newSession(t, 21)
	ranges := morph.DefaultRanges()

	vec := start
	for i := 0; i < 2000; i++ {
		res := o.Iterate(rig.Render(morph.ClampToRanges(vec, ranges)))
		if res.Next == nil {
			break
		}
		for idx, v := range res.Next {
			lo := ranges[idx].Min - morph.Overshoot
			hi := ranges[idx].Max + morph.Overshoot
			if v < lo || v > hi {
				t.Fatalf("iter %d: index %d outside tolerant range: %.4f", i, idx, v)
			}
		}
		if violations := o.locks.CheckViolations(res.Next); len(violations) != 0 {
			t.Fatalf("iter %d: candidate violates locks at %v", i, violations)
		}
		vec = res.Next
	}
}

func TestBestScoreMonotonic(t *testing.T) {
	o, rig, start := newSession(t, 5)
	ranges := morph.DefaultRanges()

	vec := start
	prev := math.Inf(-1)
	for i := 0; i < 1500; i++ {
		res := o.Iterate(rig.Render(morph.ClampToRanges(vec, ranges)))
		if o.BestScore() < prev {
			t.Fatalf("iter %d: best score decreased: %.6f -> %.6f", i, prev, o.BestScore())
		}
		prev = o.BestScore()
		if res.Next == nil {
			break
		}
		vec = res.Next
	}
}

func TestSessionRunsToCompletion(t *testing.T) {
	o, rig, start := newSession(t, 11)

	last, candidates := run(o, rig, start, 5000)
	if last != phase.ActionComplete {
		t.Fatalf("expected completion, got %s after %d candidates", last, len(candidates))
	}
	if o.BestScore() <= 0 {
		t.Fatalf("expected a positive best score, got %.4f", o.BestScore())
	}
	if len(o.Locks()) != morph.Count {
		t.Fatalf("every index should be locked at completion, got %d", len(o.Locks()))
	}

	// A finished session improves on the starting face.
	startScore := scoreAgainstTarget(o, rig, start)
	bestScore := scoreAgainstTarget(o, rig, o.BestMorphs())
	if bestScore < startScore {
		t.Fatalf("best (%.4f) should not be worse than start (%.4f)", bestScore, startScore)
	}
}

// scoreAgainstTarget evaluates a vector with the optimizer's own scorer.
func scoreAgainstTarget(o *Optimizer, rig *synth.Rig, vec []float64) float64 {
	lm := rig.Render(morph.ClampToRanges(vec, morph.DefaultRanges()))
	fs := features.Extract(lm)
	res := o.scorer.Calculate(o.target, &fs, nil)
	return res.Total
}

func TestIterateAfterCompleteIsAbort(t *testing.T) {
	o, rig, start := newSession(t, 11)
	last, _ := run(o, rig, start, 5000)
	if last != phase.ActionComplete {
		t.Fatalf("expected completion, got %s", last)
	}

	res := o.Iterate(rig.Render(start))
	if res.Action != phase.ActionAbort {
		t.Fatalf("expected abort after completion, got %s", res.Action)
	}
	if res.Next != nil {
		t.Fatal("aborted iterate must not emit a candidate")
	}
}

func TestIterateWithoutTargetIsNoOp(t *testing.T) {
	cfg := DefaultConfig(3)
	o := New(cfg)
	o.Initialize(morph.MidpointVector(cfg.Ranges))

	res := o.Iterate(make([]float64, 136))
	if res.Action != phase.ActionContinue {
		t.Fatalf("expected continue, got %s", res.Action)
	}
	if res.Next != nil {
		t.Fatal("no candidate without a target")
	}
	if res.SubPhaseScore != 0.5 {
		t.Fatalf("expected neutral score, got %.4f", res.SubPhaseScore)
	}
}

func TestIterateWithBadLandmarksDoesNotPanic(t *testing.T) {
	o, _, _ := newSession(t, 13)

	// Degraded detector output mid-session: scores go neutral, the
	// loop keeps running.
	res := o.Iterate([]float64{1, 2, 3})
	if res.Action != phase.ActionContinue {
		t.Fatalf("expected continue on degraded input, got %s", res.Action)
	}
	if res.Next == nil {
		t.Fatal("expected the search to keep producing candidates")
	}
}

func TestSetTargetResetsBestTracking(t *testing.T) {
	o, rig, start := newSession(t, 17)
	run(o, rig, start, 200)
	if o.BestScore() < 0 {
		t.Fatal("expected best tracking to have data")
	}

	o.SetTarget(rig.Render(synth.RandomMorphs(rand.New(rand.NewSource(400)))))
	if o.BestScore() != -1 {
		t.Fatalf("new target must reset best score, got %.4f", o.BestScore())
	}
	// Phase state is kept for multi-target continuity.
	if o.controller.Done() {
		t.Fatal("setting a target must not finish the session")
	}
}

func TestInitializeClearsLocks(t *testing.T) {
	o, rig, start := newSession(t, 19)
	run(o, rig, start, 1000)
	if len(o.Locks()) == 0 {
		t.Fatal("expected locks mid-session")
	}

	o.Initialize(start)
	if len(o.Locks()) != 0 {
		t.Fatal("initialize must clear all locks")
	}
	main, sub, opt := o.Current()
	if main != phase.Foundation || sub != phase.SubFaceShape || opt != phase.Exploration {
		t.Fatalf("initialize must reset phase state, got %s/%s/%s", main, sub, opt)
	}
}
