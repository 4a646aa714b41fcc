// Package optimizer orchestrates a learning session: it feeds rendered
// landmarks through the extractor and scorer, asks the phase controller
// what to do, tracks the best vector seen, and generates the next
// candidate by perturbing only the active sub-phase's morphs.
//
// The search is a randomized local walk, not gradient descent: the
// renderer is a black box and offers no derivatives. One Optimizer
// instance owns one session; all state is private to it and touched
// only from the calling thread.
package optimizer

import (
	"math/rand"

	"github.com/morholt/facelearner/internal/features"
	"github.com/morholt/facelearner/internal/morph"
	"github.com/morholt/facelearner/internal/phase"
	"github.com/morholt/facelearner/internal/scoring"
)

// Config assembles a session's tunables.
type Config struct {
	Seed       int64
	Ranges     morph.RangeTable
	Controller phase.ControllerConfig
	Scorer     scoring.Config
}

// DefaultConfig returns a session configuration with the calibrated
// defaults and the synthetic rig's unit ranges.
func DefaultConfig(seed int64) Config {
	return Config{
		Seed:       seed,
		Ranges:     morph.DefaultRanges(),
		Controller: phase.DefaultControllerConfig(),
		Scorer:     scoring.DefaultConfig(),
	}
}

// Result is what one Iterate call produced.
type Result struct {
	Action phase.Action
	// SubPhaseScore drove the phase controller: local progress on the
	// active sub-phase only.
	SubPhaseScore float64
	// Score is the full hierarchical comparison, used for best-vector
	// tracking. The two are computed independently and need not agree
	// moment to moment.
	Score scoring.Score
	// Next is the candidate vector to apply and re-render, or nil when
	// the session is complete or no target is set.
	Next []float64
}

// Optimizer drives one optimization session.
type Optimizer struct {
	rng        *rand.Rand
	ranges     morph.RangeTable
	scorer     *scoring.Scorer
	controller *phase.Controller
	locks      *morph.LockManager

	current   []float64 // working vector, matches the last emitted candidate
	best      []float64
	bestScore float64

	target *features.FeatureSet
	tones  *scoring.SkinTonePair

	// OnSubPhaseComplete mirrors the controller's completion event for
	// callers that journal transitions. Optional.
	OnSubPhaseComplete func(phase.SubPhaseResult)
}

// New creates an optimizer. Call Initialize and SetTarget before
// iterating.
func New(cfg Config) *Optimizer {
	o := &Optimizer{
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		ranges:     cfg.Ranges,
		scorer:     scoring.NewScorer(cfg.Scorer),
		controller: phase.NewController(cfg.Controller),
		locks:      morph.NewLockManager(),
		bestScore:  -1,
	}
	o.controller.OnSubPhaseComplete = o.subPhaseComplete
	return o
}

// subPhaseComplete freezes the finished group and rewinds the working
// vector to the locked best. Carrying the last-tried vector forward
// would seed the next sub-phase from a possibly worse starting point.
func (o *Optimizer) subPhaseComplete(res phase.SubPhaseResult) {
	if len(res.BestMorphs) > 0 {
		o.locks.LockPhase(res.Sub, res.BestMorphs, res.Variation)
		o.current = append(o.current[:0], res.BestMorphs...)
	}
	if o.OnSubPhaseComplete != nil {
		o.OnSubPhaseComplete(res)
	}
}

// Initialize starts a fresh session from the given morph vector,
// clearing all locks and phase state.
func (o *Optimizer) Initialize(starting []float64) {
	o.current = make([]float64, morph.Count)
	copy(o.current, starting)
	o.best = append([]float64(nil), o.current...)
	o.bestScore = -1
	o.target = nil
	o.locks.ClearAll()
	o.controller.Reset()
}

// Reset clears the target, locks, and phase state while keeping the
// current working vector, ready for a fresh target.
func (o *Optimizer) Reset() {
	o.target = nil
	o.tones = nil
	o.bestScore = -1
	o.best = append(o.best[:0], o.current...)
	o.locks.ClearAll()
	o.controller.Reset()
}

// SetTarget extracts and freezes the target's feature set and resets
// best tracking. Phase state is kept: in learning mode a session may
// move to a new target and keep refining from where it stands.
func (o *Optimizer) SetTarget(landmarks []float64) {
	fs := features.Extract(landmarks)
	o.target = &fs
	o.bestScore = -1
	o.best = append(o.best[:0], o.current...)
}

// SetSkinTones supplies the optional tone buckets compared alongside
// the geometry.
func (o *Optimizer) SetSkinTones(target, current int) {
	o.tones = &scoring.SkinTonePair{Target: target, Current: current}
}

// Target reports whether a target has been set.
func (o *Optimizer) Target() bool { return o.target != nil && o.target.Valid }

// Current returns the active main phase, sub-phase, and strategy.
func (o *Optimizer) Current() (phase.MainPhase, phase.SubPhase, phase.OptPhase) {
	return o.controller.Current()
}

// Locks exposes the session's lock table snapshot.
func (o *Optimizer) Locks() []morph.Lock { return o.locks.Locks() }

// BestMorphs returns a copy of the best vector seen this target.
func (o *Optimizer) BestMorphs() []float64 {
	return append([]float64(nil), o.best...)
}

// BestScore returns the best full hierarchical total seen this target,
// or -1 before the first iteration.
func (o *Optimizer) BestScore() float64 { return o.bestScore }

// Iterate consumes one rendered landmark snapshot and decides the next
// step. Called once per frame the caller can obtain; never blocks,
// never errors — bad input degrades to neutral scores.
func (o *Optimizer) Iterate(renderedLandmarks []float64) Result {
	if o.controller.Done() {
		return Result{Action: phase.ActionAbort}
	}
	if o.target == nil {
		// No target yet: a defined no-op, not a crash in the caller's
		// frame loop.
		return Result{Action: phase.ActionContinue, SubPhaseScore: 0.5}
	}

	cur := features.Extract(renderedLandmarks)

	_, sub, _ := o.controller.Current()
	subScore := o.scorer.SubPhaseScore(sub, o.target, &cur)
	full := o.scorer.Calculate(o.target, &cur, o.tones)

	// Global best tracks the full total, not the sub-phase score: the
	// controller cares about local progress, best tracking about
	// overall quality.
	if full.Total > o.bestScore {
		o.bestScore = full.Total
		o.best = append(o.best[:0], o.current...)
	}

	action := o.controller.ReportScore(subScore, o.current)

	res := Result{Action: action, SubPhaseScore: subScore, Score: full}
	if action == phase.ActionContinue || action == phase.ActionSubPhaseComplete {
		res.Next = o.nextCandidate()
	}
	return res
}

// nextCandidate perturbs only the active sub-phase's morph group,
// leaving every other index untouched: each sub-phase is a small
// focused search of 2–8 parameters, not all 62 at once.
func (o *Optimizer) nextCandidate() []float64 {
	_, sub, _ := o.controller.Current()
	sigma := o.controller.Sigma()

	next := append([]float64(nil), o.current...)
	for _, idx := range morph.GroupFor(sub) {
		r := o.ranges[idx]
		delta := (o.rng.Float64()*2 - 1) * sigma * r.Span()
		v := next[idx] + delta
		v = o.locks.ClampIfLocked(idx, v)
		// Allow a brief excursion past the native range; apply-time
		// clamping makes the final value legal.
		v = morph.Clamp(v, r.Min-morph.Overshoot, r.Max+morph.Overshoot)
		next[idx] = v
	}

	o.current = next
	return append([]float64(nil), next...)
}
