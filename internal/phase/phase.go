// Package phase defines the optimization phase taxonomy and the state
// machine that drives a learning session through it: four main phases,
// each owning an ordered list of sub-phases, each sub-phase optimized
// through a sequence of search strategies (exploration, refinement,
// plateau escape, lock-in).
package phase

// MainPhase is a level of facial structure. Earlier phases gate later
// ones: a face with the wrong overall shape cannot be rescued by a
// well-matched nose.
type MainPhase uint8

const (
	Foundation    MainPhase = iota // overall face shape and proportions
	Structure                      // jaw, chin, cheeks, forehead
	MajorFeatures                  // eyes, nose, mouth
	FineDetails                    // eyebrows and small refinements
)

// MainPhaseCount is the number of main phases.
const MainPhaseCount = 4

// SubPhase is a small named group of related morphs plus the
// measurements used to judge them.
type SubPhase uint8

const (
	SubFaceShape SubPhase = iota
	SubFaceWidth
	SubFaceLength
	SubJaw
	SubChin
	SubCheeks
	SubForehead
	SubEyes
	SubNose
	SubMouth
	SubEyebrows
	SubFineDetails
)

// SubPhaseCount is the number of sub-phases across all main phases.
const SubPhaseCount = 12

// OptPhase is the search strategy applied to the active sub-phase.
// Transient: reset whenever the active sub-phase changes.
type OptPhase uint8

const (
	Exploration   OptPhase = iota // broad search for direction
	Refinement                    // narrow around the best found
	PlateauEscape                 // large jumps out of a local optimum
	LockIn                        // final polish before freezing
)

// mainPhaseSubs orders each main phase's sub-phases. The order within a
// main phase is the order they are optimized in.
var mainPhaseSubs = [MainPhaseCount][]SubPhase{
	Foundation:    {SubFaceShape, SubFaceWidth, SubFaceLength},
	Structure:     {SubJaw, SubChin, SubCheeks, SubForehead},
	MajorFeatures: {SubEyes, SubNose, SubMouth},
	FineDetails:   {SubEyebrows, SubFineDetails},
}

// SubPhasesOf returns the ordered sub-phases belonging to a main phase.
func SubPhasesOf(m MainPhase) []SubPhase {
	if int(m) >= len(mainPhaseSubs) {
		return nil
	}
	return mainPhaseSubs[m]
}

// MainPhaseOf returns the main phase a sub-phase belongs to. Every
// sub-phase belongs to exactly one main phase.
func MainPhaseOf(s SubPhase) MainPhase {
	switch s {
	case SubFaceShape, SubFaceWidth, SubFaceLength:
		return Foundation
	case SubJaw, SubChin, SubCheeks, SubForehead:
		return Structure
	case SubEyes, SubNose, SubMouth:
		return MajorFeatures
	default:
		return FineDetails
	}
}

// AllSubPhases returns every sub-phase in optimization order.
func AllSubPhases() []SubPhase {
	out := make([]SubPhase, 0, SubPhaseCount)
	for m := MainPhase(0); m < MainPhaseCount; m++ {
		out = append(out, mainPhaseSubs[m]...)
	}
	return out
}

var mainPhaseNames = [MainPhaseCount]string{
	Foundation:    "foundation",
	Structure:     "structure",
	MajorFeatures: "major_features",
	FineDetails:   "fine_details",
}

var subPhaseNames = [SubPhaseCount]string{
	SubFaceShape:   "face_shape",
	SubFaceWidth:   "face_width",
	SubFaceLength:  "face_length",
	SubJaw:         "jaw",
	SubChin:        "chin",
	SubCheeks:      "cheeks",
	SubForehead:    "forehead",
	SubEyes:        "eyes",
	SubNose:        "nose",
	SubMouth:       "mouth",
	SubEyebrows:    "eyebrows",
	SubFineDetails: "fine_details",
}

var optPhaseNames = [...]string{
	Exploration:   "exploration",
	Refinement:    "refinement",
	PlateauEscape: "plateau_escape",
	LockIn:        "lock_in",
}

func (m MainPhase) String() string {
	if int(m) < len(mainPhaseNames) {
		return mainPhaseNames[m]
	}
	return "unknown"
}

func (s SubPhase) String() string {
	if int(s) < len(subPhaseNames) {
		return subPhaseNames[s]
	}
	return "unknown"
}

func (o OptPhase) String() string {
	if int(o) < len(optPhaseNames) {
		return optPhaseNames[o]
	}
	return "unknown"
}
