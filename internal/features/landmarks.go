// Package features derives normalized facial measurements from a
// 68-point landmark snapshot. Every measurement is a ratio or angle
// divided by a face-scale reference, so values are invariant to image
// resolution and camera distance.
package features

import "math"

// The extractor assumes the 68-point annotation scheme used by common
// face-alignment models: jaw contour 0–16 (8 = chin tip), brows 17–26,
// nose bridge 27–30, nostril line 31–35, eyes 36–47, mouth 48–67.
const (
	// LandmarkCount is the expected number of 2D points.
	LandmarkCount = 68
	// FlatLen is the expected flattened input length (x,y pairs).
	FlatLen = LandmarkCount * 2
)

const (
	idxJawRight  = 0
	idxChin      = 8
	idxJawLeft   = 16
	idxBrowROut  = 17
	idxBrowRPeak = 19
	idxBrowRIn   = 21
	idxBrowLIn   = 22
	idxBrowLPeak = 24
	idxBrowLOut  = 26
	idxNasion    = 27
	idxNoseTip   = 30
	idxNostrilR  = 31
	idxNoseBase  = 33
	idxNostrilL  = 35
	idxEyeROut   = 36
	idxEyeRIn    = 39
	idxEyeLIn    = 42
	idxEyeLOut   = 45
	idxMouthR    = 48
	idxLipTop    = 51
	idxMouthL    = 54
	idxLipBottom = 57
	idxLipTopIn  = 62
	idxLipBotIn  = 66
)

// Point is one 2D landmark in image coordinates (y grows downward).
type Point struct {
	X float64
	Y float64
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func mid(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// vertexAngle returns the angle at v subtended by a and b, in radians
// [0, π]. Angles distinguish a round contour from an angular one where
// raw distances cannot: two jaws of equal width can still differ
// sharply in the angle at each contour vertex.
func vertexAngle(v, a, b Point) float64 {
	ax, ay := a.X-v.X, a.Y-v.Y
	bx, by := b.X-v.X, b.Y-v.Y
	la := math.Hypot(ax, ay)
	lb := math.Hypot(bx, by)
	if la == 0 || lb == 0 {
		return 0
	}
	cos := (ax*bx + ay*by) / (la * lb)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}

// toPoints converts a flattened x,y array into points. Returns nil when
// the input is shorter than the 68-point contract.
func toPoints(flat []float64) []Point {
	if len(flat) < FlatLen {
		return nil
	}
	pts := make([]Point, LandmarkCount)
	for i := range pts {
		pts[i] = Point{X: flat[2*i], Y: flat[2*i+1]}
	}
	return pts
}
