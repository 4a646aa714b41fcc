package morph

import (
	"testing"

	"github.com/morholt/facelearner/internal/phase"
)

func TestLockClampsToBand(t *testing.T) {
	m := NewLockManager()
	m.Lock(5, 0.60, 0.10)

	if got := m.ClampIfLocked(5, 0.90); got != 0.70 {
		t.Fatalf("expected clamp to 0.70, got %.2f", got)
	}
	if got := m.ClampIfLocked(5, 0.40); got != 0.50 {
		t.Fatalf("expected clamp to 0.50, got %.2f", got)
	}
	if got := m.ClampIfLocked(5, 0.65); got != 0.65 {
		t.Fatalf("in-band value must pass through, got %.2f", got)
	}
	// Unlocked index passes through untouched.
	if got := m.ClampIfLocked(6, 0.99); got != 0.99 {
		t.Fatalf("unlocked index must pass through, got %.2f", got)
	}
}

func TestLockBandClampedToUnit(t *testing.T) {
	m := NewLockManager()
	m.Lock(0, 0.95, 0.12)

	min, max := m.AllowedRange(0)
	if min != 0.83 {
		t.Fatalf("expected min 0.83, got %.2f", min)
	}
	if max != 1.0 {
		t.Fatalf("band must not exceed 1.0, got %.2f", max)
	}
}

func TestRelockOverwrites(t *testing.T) {
	m := NewLockManager()
	m.Lock(3, 0.20, 0.05)
	m.Lock(3, 0.80, 0.10)

	min, max := m.AllowedRange(3)
	if min != 0.70 || max != 0.90 {
		t.Fatalf("expected overwritten band [0.70, 0.90], got [%.2f, %.2f]", min, max)
	}
}

func TestLockPhase(t *testing.T) {
	m := NewLockManager()
	vec := NewVector()
	for i := range vec {
		vec[i] = 0.5
	}

	m.LockPhase(phase.SubJaw, vec, 0.08)

	for _, idx := range GroupFor(phase.SubJaw) {
		if !m.IsLocked(idx) {
			t.Fatalf("expected index %d locked", idx)
		}
	}
	for _, idx := range GroupFor(phase.SubEyes) {
		if m.IsLocked(idx) {
			t.Fatalf("index %d outside the group must stay free", idx)
		}
	}
}

func TestCheckViolations(t *testing.T) {
	m := NewLockManager()
	m.Lock(10, 0.50, 0.05)
	m.Lock(20, 0.50, 0.05)

	vec := NewVector()
	for i := range vec {
		vec[i] = 0.5
	}
	vec[10] = 0.90 // violates
	vec[20] = 0.52 // in band

	got := m.CheckViolations(vec)
	if len(got) != 1 || got[0] != 10 {
		t.Fatalf("expected violation at index 10 only, got %v", got)
	}
}

func TestClearAll(t *testing.T) {
	m := NewLockManager()
	m.Lock(1, 0.5, 0.1)
	m.Lock(2, 0.5, 0.1)
	m.ClearAll()

	if m.IsLocked(1) || m.IsLocked(2) {
		t.Fatal("expected no locks after ClearAll")
	}
	if len(m.Locks()) != 0 {
		t.Fatal("expected empty snapshot after ClearAll")
	}
}

func TestGroupsPartitionAllIndices(t *testing.T) {
	seen := make(map[int]phase.SubPhase)
	for _, sub := range phase.AllSubPhases() {
		for _, idx := range GroupFor(sub) {
			if prev, dup := seen[idx]; dup {
				t.Fatalf("index %d in both %s and %s", idx, prev, sub)
			}
			seen[idx] = sub
		}
	}
	if len(seen) != Count {
		t.Fatalf("groups cover %d of %d indices", len(seen), Count)
	}
}

func TestMidpointVector(t *testing.T) {
	v := MidpointVector(DefaultRanges())
	if len(v) != Count {
		t.Fatalf("expected %d values, got %d", Count, len(v))
	}
	for i, x := range v {
		if x != 0.5 {
			t.Fatalf("expected 0.5 at %d for unit ranges, got %.2f", i, x)
		}
	}
}

func TestClampToRanges(t *testing.T) {
	ranges := DefaultRanges()
	vec := NewVector()
	vec[0] = -0.3
	vec[1] = 1.4
	vec[2] = 0.7

	out := ClampToRanges(vec, ranges)
	if out[0] != 0 {
		t.Fatalf("expected 0, got %.2f", out[0])
	}
	if out[1] != 1 {
		t.Fatalf("expected 1, got %.2f", out[1])
	}
	if out[2] != 0.7 {
		t.Fatalf("expected 0.7, got %.2f", out[2])
	}
}
