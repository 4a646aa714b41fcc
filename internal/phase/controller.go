package phase

import (
	"log/slog"
)

// Action tells the caller what to do after reporting a score.
type Action uint8

const (
	ActionContinue         Action = iota // keep searching the active sub-phase
	ActionSubPhaseComplete               // sub-phase locked, a new one is active
	ActionComplete                       // the last sub-phase finished lock-in
	ActionAbort                          // session already finished; no-op
)

var actionNames = [...]string{
	ActionContinue:         "continue",
	ActionSubPhaseComplete: "sub_phase_complete",
	ActionComplete:         "complete",
	ActionAbort:            "abort",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// SubPhaseResult is handed to the completion callback when a sub-phase
// locks. BestMorphs is the best vector seen during the sub-phase; the
// caller must adopt it as its working vector before generating the next
// sub-phase's candidates.
type SubPhaseResult struct {
	Sub        SubPhase
	Main       MainPhase
	BestScore  float64
	BestMorphs []float64
	Variation  float64 // lock band half-width for the sub-phase's morphs
}

// Controller is the state machine driving a learning session: main
// phases in fixed order, each main phase's sub-phases in order, each
// sub-phase through exploration, refinement, optional plateau escape,
// and lock-in.
type Controller struct {
	cfg ControllerConfig

	order   []SubPhase // all sub-phases in optimization order
	subIdx  int
	opt     OptPhase
	iters   int // iterations spent in the current OptPhase
	stuck   int // iterations since the sub-phase best improved
	escaped bool
	done    bool

	bestScore  float64
	bestMorphs []float64

	// OnSubPhaseComplete fires when a sub-phase locks, before the
	// controller advances. Optional.
	OnSubPhaseComplete func(SubPhaseResult)
}

// NewController creates a controller positioned at the first sub-phase
// of Foundation, in Exploration.
func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{cfg: cfg}
	c.Reset()
	return c
}

// Reset returns the controller to its initial state.
func (c *Controller) Reset() {
	c.order = AllSubPhases()
	c.subIdx = 0
	c.done = false
	c.resetSubPhase()
}

func (c *Controller) resetSubPhase() {
	c.opt = Exploration
	c.iters = 0
	c.stuck = 0
	c.escaped = false
	c.bestScore = -1
	c.bestMorphs = nil
}

// Current returns the active main phase, sub-phase, and search strategy.
func (c *Controller) Current() (MainPhase, SubPhase, OptPhase) {
	sub := c.order[min(c.subIdx, len(c.order)-1)]
	return MainPhaseOf(sub), sub, c.opt
}

// Done reports whether the session has finished every sub-phase.
func (c *Controller) Done() bool { return c.done }

// Sigma returns the active strategy's perturbation width as a fraction
// of each morph's legal range.
func (c *Controller) Sigma() float64 { return SettingsFor(c.opt).Sigma }

// BestScore returns the best score seen in the active sub-phase, or -1
// before the first report.
func (c *Controller) BestScore() float64 { return c.bestScore }

// ReportScore records one iteration's sub-phase score and the morph
// vector that produced it, and decides what happens next.
func (c *Controller) ReportScore(score float64, morphs []float64) Action {
	if c.done {
		return ActionAbort
	}

	c.iters++

	// New sub-phase best resets the stuck counter. Merely beating the
	// previous iteration does not: noisy non-monotonic improvement must
	// not mask stagnation relative to the best.
	if score > c.bestScore {
		c.bestScore = score
		c.bestMorphs = append(c.bestMorphs[:0], morphs...)
		c.stuck = 0
	} else {
		c.stuck++
	}

	// A good-enough result short-circuits straight to lock-in.
	if score >= c.cfg.LockInThreshold && c.opt != LockIn {
		c.enter(LockIn)
		return ActionContinue
	}

	settings := SettingsFor(c.opt)

	if c.opt == LockIn {
		if c.iters >= settings.MaxIterations || score >= settings.TargetScore {
			return c.lockAndAdvance()
		}
		return ActionContinue
	}

	// Plateau handling. Escape is attempted once per sub-phase; a stall
	// during the escape itself accepts whatever best was found.
	stuckLimit := c.cfg.StuckLimitOther
	if c.opt == Exploration {
		stuckLimit = c.cfg.StuckLimitExplore
	}
	if c.stuck >= stuckLimit {
		if c.opt == PlateauEscape {
			return c.lockAndAdvance()
		}
		c.enter(PlateauEscape)
		return ActionContinue
	}

	// Strategy target reached.
	if score >= settings.TargetScore {
		switch c.opt {
		case Exploration, PlateauEscape:
			c.enter(Refinement)
		case Refinement:
			if score >= c.cfg.LockInThreshold {
				c.enter(LockIn)
			} else {
				return c.lockAndAdvance()
			}
		}
		return ActionContinue
	}

	// Iteration budget exhausted.
	if c.iters >= settings.MaxIterations {
		switch c.opt {
		case Exploration:
			c.enter(Refinement)
		case Refinement:
			if c.bestScore >= c.cfg.MinAcceptableScore {
				return c.lockAndAdvance()
			}
			if c.escaped {
				return c.lockAndAdvance()
			}
			c.enter(PlateauEscape)
		case PlateauEscape:
			return c.lockAndAdvance()
		}
		return ActionContinue
	}

	return ActionContinue
}

func (c *Controller) enter(o OptPhase) {
	main, sub, _ := c.Current()
	slog.Debug("strategy transition",
		"main", main, "sub", sub, "from", c.opt, "to", o,
		"best", c.bestScore, "iterations", c.iters)
	if o == PlateauEscape {
		c.escaped = true
	}
	c.opt = o
	c.iters = 0
}

// lockAndAdvance freezes the active sub-phase at its best result and
// moves to the next sub-phase, main phase, or completion.
func (c *Controller) lockAndAdvance() Action {
	main, sub, _ := c.Current()

	variation := c.cfg.LooseLockVariation
	if c.bestScore >= c.cfg.TightLockScore {
		variation = c.cfg.TightLockVariation
	}

	if c.OnSubPhaseComplete != nil {
		c.OnSubPhaseComplete(SubPhaseResult{
			Sub:        sub,
			Main:       main,
			BestScore:  c.bestScore,
			BestMorphs: append([]float64(nil), c.bestMorphs...),
			Variation:  variation,
		})
	}

	slog.Debug("sub-phase locked",
		"main", main, "sub", sub, "best", c.bestScore, "variation", variation)

	c.subIdx++
	if c.subIdx >= len(c.order) {
		c.done = true
		return ActionComplete
	}
	c.resetSubPhase()
	return ActionSubPhaseComplete
}
