package morph

import "github.com/morholt/facelearner/internal/phase"

// groups maps each sub-phase to the morph indices that influence it.
// Static configuration: every index appears in exactly one group, and
// the 12 groups cover all 62 indices. Keeping each group to 2–8 indices
// is what makes a sub-phase a small focused search instead of a 62-way
// one.
var groups = map[phase.SubPhase][]int{
	phase.SubFaceShape:   {0, 1, 2, 3, 4, 5},
	phase.SubFaceWidth:   {6, 7, 8, 9},
	phase.SubFaceLength:  {10, 11, 12, 13},
	phase.SubJaw:         {14, 15, 16, 17, 18, 19},
	phase.SubChin:        {20, 21, 22, 23, 24},
	phase.SubCheeks:      {25, 26, 27, 28, 29},
	phase.SubForehead:    {30, 31, 32, 33},
	phase.SubEyes:        {34, 35, 36, 37, 38, 39, 40, 41},
	phase.SubNose:        {42, 43, 44, 45, 46, 47, 48, 49},
	phase.SubMouth:       {50, 51, 52, 53, 54, 55},
	phase.SubEyebrows:    {56, 57, 58, 59},
	phase.SubFineDetails: {60, 61},
}

// GroupFor returns the morph indices belonging to a sub-phase.
func GroupFor(sub phase.SubPhase) []int {
	return groups[sub]
}
