package morph

import "github.com/morholt/facelearner/internal/phase"

// Lock pins one morph index to a narrow band around its locked value.
type Lock struct {
	Index     int
	Value     float64
	Variation float64
	Min       float64
	Max       float64
}

// LockManager holds the active locks for one optimization session. Once
// a sub-phase's parameters are judged good enough its indices are
// locked, so later phases can still search but cannot undo earlier
// progress.
type LockManager struct {
	locks map[int]Lock
}

// NewLockManager creates an empty lock table.
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[int]Lock)}
}

// Lock fixes an index to [value-variation, value+variation], clamped to
// [0, 1]. Re-locking an already-locked index overwrites its band.
func (m *LockManager) Lock(index int, value, variation float64) {
	if index < 0 || index >= Count {
		return
	}
	m.locks[index] = Lock{
		Index:     index,
		Value:     value,
		Variation: variation,
		Min:       Clamp(value-variation, 0, 1),
		Max:       Clamp(value+variation, 0, 1),
	}
}

// LockPhase locks every morph index in a sub-phase's group to a band
// around its current value in the given vector.
func (m *LockManager) LockPhase(sub phase.SubPhase, morphs []float64, variation float64) {
	for _, idx := range GroupFor(sub) {
		if idx < len(morphs) {
			m.Lock(idx, morphs[idx], variation)
		}
	}
}

// IsLocked reports whether an index has an active lock.
func (m *LockManager) IsLocked(index int) bool {
	_, ok := m.locks[index]
	return ok
}

// ClampIfLocked returns value limited to the index's lock band, or the
// value unchanged when the index is free.
func (m *LockManager) ClampIfLocked(index int, value float64) float64 {
	l, ok := m.locks[index]
	if !ok {
		return value
	}
	return Clamp(value, l.Min, l.Max)
}

// AllowedRange returns the band a candidate value for this index must
// stay in. Unlocked indices report the full [0, 1] span.
func (m *LockManager) AllowedRange(index int) (min, max float64) {
	if l, ok := m.locks[index]; ok {
		return l.Min, l.Max
	}
	return 0, 1
}

// CheckViolations returns the indices at which a proposed vector falls
// outside its lock band.
func (m *LockManager) CheckViolations(proposed []float64) []int {
	var out []int
	for i, v := range proposed {
		if l, ok := m.locks[i]; ok && (v < l.Min || v > l.Max) {
			out = append(out, i)
		}
	}
	return out
}

// Locks returns a snapshot of the active locks.
func (m *LockManager) Locks() []Lock {
	out := make([]Lock, 0, len(m.locks))
	for i := 0; i < Count; i++ {
		if l, ok := m.locks[i]; ok {
			out = append(out, l)
		}
	}
	return out
}

// ClearAll removes every lock.
func (m *LockManager) ClearAll() {
	m.locks = make(map[int]Lock)
}
