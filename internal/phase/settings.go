package phase

// OptSettings are the tunables for one search strategy. Sigma is a
// fraction of each morph's legal range, not an absolute unit, so search
// behavior is consistent regardless of a parameter's native scale.
type OptSettings struct {
	Sigma         float64 // perturbation half-width as a fraction of range
	MaxIterations int     // budget before a forced transition
	TargetScore   float64 // score that ends this strategy early
}

// optSettings maps each OptPhase to its tunables.
var optSettings = [...]OptSettings{
	Exploration:   {Sigma: 0.50, MaxIterations: 15, TargetScore: 0.50},
	Refinement:    {Sigma: 0.20, MaxIterations: 30, TargetScore: 0.75},
	PlateauEscape: {Sigma: 0.80, MaxIterations: 10, TargetScore: 0.60},
	LockIn:        {Sigma: 0.08, MaxIterations: 5, TargetScore: 0.85},
}

// SettingsFor returns the tunables for a search strategy.
func SettingsFor(o OptPhase) OptSettings {
	return optSettings[o]
}

// ControllerConfig holds the thresholds shared by all sub-phases.
type ControllerConfig struct {
	LockInThreshold    float64 // score that short-circuits straight to lock-in
	MinAcceptableScore float64 // floor below which a budget-exhausted refinement escalates
	StuckLimitExplore  int     // iterations without a new best before plateau handling (exploration)
	StuckLimitOther    int     // same, for all other strategies
	TightLockVariation float64 // lock band half-width when the sub-phase scored well
	LooseLockVariation float64 // lock band half-width for a mediocre result
	TightLockScore     float64 // best score needed for the tight band
}

// DefaultControllerConfig returns the calibrated thresholds.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		LockInThreshold:    0.80,
		MinAcceptableScore: 0.50,
		StuckLimitExplore:  8,
		StuckLimitOther:    15,
		TightLockVariation: 0.08,
		LooseLockVariation: 0.12,
		TightLockScore:     0.80,
	}
}
