package synth

import (
	"math/rand"
	"testing"

	"github.com/morholt/facelearner/internal/morph"
)

func TestRenderShape(t *testing.T) {
	rig := NewRig(1)
	flat := rig.Render(morph.MidpointVector(morph.DefaultRanges()))
	if len(flat) != 136 {
		t.Fatalf("expected 136 floats, got %d", len(flat))
	}
}

func TestRenderDeterministic(t *testing.T) {
	vec := morph.MidpointVector(morph.DefaultRanges())
	a := NewRig(42).Render(vec)
	b := NewRig(42).Render(vec)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("render differs at %d: %.6f vs %.6f", i, a[i], b[i])
		}
	}
}

func TestRenderClampsInput(t *testing.T) {
	rig := NewRig(1)
	hot := make([]float64, morph.Count)
	for i := range hot {
		hot[i] = 5.0 // far outside legal range
	}
	capped := make([]float64, morph.Count)
	for i := range capped {
		capped[i] = 1.0
	}

	a := rig.Render(hot)
	b := rig.Render(capped)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("out-of-range input must clamp to the legal edge, differs at %d", i)
		}
	}
}

func TestEveryMorphMovesTheFace(t *testing.T) {
	rig := NewRig(1)
	base := morph.MidpointVector(morph.DefaultRanges())
	ref := rig.Render(base)

	for idx := 0; idx < morph.Count; idx++ {
		vec := append([]float64(nil), base...)
		vec[idx] = 1.0
		out := rig.Render(vec)

		moved := false
		for i := range out {
			if out[i] != ref[i] {
				moved = true
				break
			}
		}
		if !moved {
			t.Errorf("morph %d has no effect on the rig", idx)
		}
	}
}

func TestRandomMorphsStayInteriorAndSeeded(t *testing.T) {
	a := RandomMorphs(rand.New(rand.NewSource(9)))
	b := RandomMorphs(rand.New(rand.NewSource(9)))

	if len(a) != morph.Count {
		t.Fatalf("expected %d morphs, got %d", morph.Count, len(a))
	}
	for i, v := range a {
		if v < 0.2 || v > 0.8 {
			t.Fatalf("morph %d outside interior band: %.4f", i, v)
		}
		if v != b[i] {
			t.Fatalf("same seed must give the same target, differs at %d", i)
		}
	}
}
