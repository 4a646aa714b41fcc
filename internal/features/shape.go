package features

import "math"

// FaceShape is the heuristic overall face classification. Informational
// only: it is reported alongside the feature set but never scored.
type FaceShape uint8

const (
	ShapeUnknown FaceShape = iota
	ShapeRound
	ShapeOval
	ShapeSquare
	ShapeHeart
	ShapeOblong
	ShapeDiamond
)

var shapeNames = [...]string{
	ShapeUnknown: "unknown",
	ShapeRound:   "round",
	ShapeOval:    "oval",
	ShapeSquare:  "square",
	ShapeHeart:   "heart",
	ShapeOblong:  "oblong",
	ShapeDiamond: "diamond",
}

func (s FaceShape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

// shapeProfile is an ideal combination of the five measurements the
// classifier scores: length ratio, jaw taper, jaw curvature, chin
// pointedness, cheek width.
type shapeProfile struct {
	shape      FaceShape
	length     float64
	jawTaper   float64
	jawCurve   float64
	chinPoint  float64
	cheekWidth float64
}

// shapeProfiles are the named ideals. Values live on the same
// normalized scales the extractor produces.
var shapeProfiles = []shapeProfile{
	{ShapeRound, 0.48, 0.85, 0.75, 0.80, 0.82},
	{ShapeOval, 0.55, 0.70, 0.70, 0.65, 0.76},
	{ShapeSquare, 0.48, 0.92, 0.55, 0.85, 0.82},
	{ShapeHeart, 0.55, 0.55, 0.65, 0.45, 0.78},
	{ShapeOblong, 0.65, 0.80, 0.65, 0.70, 0.72},
	{ShapeDiamond, 0.58, 0.60, 0.60, 0.50, 0.68},
}

// ClassifyShape picks the profile with the smallest distance to the
// measured values.
func ClassifyShape(values map[Feature]float64) FaceShape {
	length, ok1 := values[FeatFaceLength]
	taper, ok2 := values[FeatJawTaper]
	curve, ok3 := values[FeatJawCurveR]
	point, ok4 := values[FeatChinPointedness]
	cheek, ok5 := values[FeatCheekWidth]
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return ShapeUnknown
	}
	if curveL, ok := values[FeatJawCurveL]; ok {
		curve = (curve + curveL) / 2
	}

	best := ShapeUnknown
	bestDist := math.MaxFloat64
	for _, p := range shapeProfiles {
		d := math.Abs(length-p.length) +
			math.Abs(taper-p.jawTaper) +
			math.Abs(curve-p.jawCurve) +
			math.Abs(point-p.chinPoint) +
			math.Abs(cheek-p.cheekWidth)
		if d < bestDist {
			bestDist = d
			best = p.shape
		}
	}
	return best
}
