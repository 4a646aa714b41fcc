// Package synth is a stand-in for the engine's render+detect round
// trip: it maps a morph vector to a 68-point landmark set with a
// procedural face rig. The real game renderer is an external
// collaborator; synth implements the same contract so sessions can run
// and be tested end to end without the engine.
package synth

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/morholt/facelearner/internal/morph"
)

// Base face geometry, image coordinates with y growing downward.
const (
	faceCX   = 256.0
	faceCY   = 230.0
	faceHalf = 110.0 // jaw half-width at ear level
	faceDrop = 160.0 // ear level to chin
)

type point struct{ x, y float64 }

// baseFace builds the canonical 68-point neutral face: jaw contour
// 0–16, brows 17–26, nose 27–35, eyes 36–47, mouth 48–67.
func baseFace() []point {
	pts := make([]point, 68)

	// Jaw: half ellipse from right ear level through the chin to left.
	for i := 0; i <= 16; i++ {
		t := float64(i) / 16
		phi := math.Pi + math.Pi*t
		pts[i] = point{
			x: faceCX + faceHalf*math.Cos(phi),
			y: faceCY - faceDrop*math.Sin(phi),
		}
	}

	// Brows.
	browY := [5]float64{170, 162, 158, 162, 168}
	for i := 0; i < 5; i++ {
		pts[17+i] = point{x: 166 + 20*float64(i), y: browY[i]}
		pts[22+i] = point{x: 266 + 20*float64(i), y: browY[4-i]}
	}

	// Nose bridge and base line.
	pts[27] = point{x: 256, y: 185}
	pts[28] = point{x: 256, y: 210}
	pts[29] = point{x: 256, y: 235}
	pts[30] = point{x: 256, y: 258}
	for i := 0; i < 5; i++ {
		pts[31+i] = point{x: 236 + 10*float64(i), y: 270}
	}
	pts[33].y = 272

	// Eyes: right eye around x=205, left mirrored.
	right := []point{{181, 190}, {196, 183}, {214, 183}, {229, 190}, {214, 197}, {196, 197}}
	for i, p := range right {
		pts[36+i] = p
	}
	left := []point{{283, 190}, {298, 183}, {316, 183}, {331, 190}, {316, 197}, {298, 197}}
	for i, p := range left {
		pts[42+i] = p
	}

	// Mouth: outer ring then inner ring.
	outer := []point{
		{206, 330}, {222, 322}, {239, 318}, {256, 316}, {273, 318}, {290, 322},
		{306, 330}, {290, 338}, {273, 343}, {256, 345}, {239, 343}, {222, 338},
	}
	for i, p := range outer {
		pts[48+i] = p
	}
	inner := []point{
		{214, 330}, {236, 326}, {256, 325}, {276, 326},
		{298, 330}, {276, 335}, {256, 336}, {236, 335},
	}
	for i, p := range inner {
		pts[60+i] = p
	}

	return pts
}

// Rig renders morph vectors into landmark arrays. The structurally
// meaningful morphs carry hand-built deformations; the remaining detail
// morphs get small seeded simplex-noise displacement fields, so every
// index moves the face somehow and does so identically for a given
// seed.
type Rig struct {
	noise opensimplex.Noise
}

// NewRig creates a rig whose detail displacement fields derive from the
// seed.
func NewRig(seed int64) *Rig {
	return &Rig{noise: opensimplex.NewNormalized(seed)}
}

// Render maps a morph vector to a flattened 68-point landmark array.
// The vector is clamped hard to [0,1] first, the same apply-time
// clamping the engine performs.
func (r *Rig) Render(morphs []float64) []float64 {
	v := make([]float64, morph.Count)
	for i := range v {
		if i < len(morphs) {
			v[i] = math.Max(0, math.Min(1, morphs[i]))
		} else {
			v[i] = 0.5
		}
	}

	pts := baseFace()
	r.deform(pts, v)

	flat := make([]float64, len(pts)*2)
	for i, p := range pts {
		flat[2*i] = p.x
		flat[2*i+1] = p.y
	}
	return flat
}

// RandomMorphs draws a plausible target vector, away from the extremes
// so every generated face stays well-formed.
func RandomMorphs(rng *rand.Rand) []float64 {
	v := morph.NewVector()
	for i := range v {
		v[i] = 0.2 + 0.6*rng.Float64()
	}
	return v
}

// helpers over the point slice

func scaleX(pts []point, idxs []int, about, factor float64) {
	for _, i := range idxs {
		pts[i].x = about + (pts[i].x-about)*factor
	}
}

func shiftY(pts []point, idxs []int, dy float64) {
	for _, i := range idxs {
		pts[i].y += dy
	}
}

func scaleY(pts []point, idxs []int, about, factor float64) {
	for _, i := range idxs {
		pts[i].y = about + (pts[i].y-about)*factor
	}
}

func span(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

// deform applies every morph's displacement. e(v) centers a unit morph
// value: 0.5 is neutral, 0 and 1 the extremes.
func (r *Rig) deform(pts []point, v []float64) {
	e := func(i int) float64 { return v[i] - 0.5 }

	// Face shape 0–5: one contour band each.
	bands := [6][2]int{{1, 15}, {2, 14}, {3, 13}, {4, 12}, {5, 11}, {6, 10}}
	for m := 0; m <= 5; m++ {
		scaleX(pts, bands[m][:], faceCX, 1+0.30*e(m))
	}

	// Face width 6–9.
	scaleX(pts, span(0, 16), faceCX, 1+0.22*e(6))
	scaleX(pts, []int{1, 2, 14, 15}, faceCX, 1+0.18*e(7))
	scaleX(pts, []int{17, 26}, faceCX, 1+0.20*e(8))
	scaleX(pts, span(0, 67), faceCX, 1+0.08*e(9))

	// Face length 10–13: stretch below the brow line.
	browLine := 165.0
	scaleY(pts, span(0, 16), browLine, 1+0.20*e(10))
	shiftY(pts, span(27, 35), 18*e(11))
	shiftY(pts, span(48, 67), 18*e(11))
	shiftY(pts, []int{7, 8, 9}, 24*e(12))
	scaleY(pts, span(0, 67), faceCY, 1+0.06*e(13))

	// Jaw 14–19.
	scaleX(pts, []int{3, 4, 5, 11, 12, 13}, faceCX, 1+0.24*e(14))
	shiftY(pts, []int{3, 4, 5, 11, 12, 13}, 16*e(15))
	shiftY(pts, []int{4, 5, 6}, 14*e(16))
	shiftY(pts, []int{10, 11, 12}, 14*e(17))
	scaleX(pts, []int{5, 6, 10, 11}, faceCX, 1+0.20*e(18))
	scaleX(pts, []int{2, 3, 13, 14}, faceCX, 1+0.16*e(19))

	// Chin 20–24.
	scaleX(pts, []int{6, 7, 9, 10}, faceCX, 1-0.22*e(20))
	scaleX(pts, []int{7, 9}, faceCX, 1+0.20*e(21))
	shiftY(pts, []int{8}, 18*e(22))
	pts[8].x += 10 * e(23)
	shiftY(pts, []int{6, 7, 9, 10}, 10*e(24))

	// Cheeks 25–29.
	scaleX(pts, []int{1, 2, 14, 15}, faceCX, 1+0.20*e(25))
	shiftY(pts, []int{1, 2, 14, 15}, 16*e(26))
	scaleX(pts, []int{2, 3, 13, 14}, faceCX, 1+0.14*e(27))
	shiftY(pts, []int{1, 15}, 10*e(28))
	scaleX(pts, []int{1, 15}, faceCX, 1+0.10*e(29))

	// Forehead 30–33.
	scaleX(pts, []int{17, 18, 25, 26}, faceCX, 1+0.18*e(30))
	shiftY(pts, span(17, 26), 12*e(31))
	scaleX(pts, span(17, 26), faceCX, 1+0.10*e(32))
	shiftY(pts, []int{17, 26}, 8*e(33))

	// Eyes 34–41.
	for _, i := range span(36, 41) {
		pts[i].x -= 14 * e(34)
	}
	for _, i := range span(42, 47) {
		pts[i].x += 14 * e(34)
	}
	scaleX(pts, span(36, 41), 205, 1+0.22*e(35))
	scaleX(pts, span(42, 47), 307, 1+0.22*e(35))
	shiftY(pts, []int{37, 38, 43, 44}, -6*e(36))
	shiftY(pts, []int{40, 41, 46, 47}, 6*e(36))
	pts[36].y -= 7 * e(37)
	pts[45].y -= 7 * e(37)
	shiftY(pts, span(36, 47), 10*e(38))
	scaleY(pts, span(36, 41), 190, 1+0.15*e(39))
	scaleY(pts, span(42, 47), 190, 1+0.15*e(40))
	pts[39].x -= 5 * e(41)
	pts[42].x += 5 * e(41)

	// Nose 42–49.
	scaleX(pts, span(31, 35), faceCX, 1+0.30*e(42))
	scaleY(pts, span(28, 35), pts[27].y, 1+0.20*e(43))
	pts[30].y += 8 * e(44)
	scaleX(pts, []int{32, 34}, faceCX, 1+0.22*e(45))
	shiftY(pts, []int{30, 33}, 8*e(46))
	scaleX(pts, []int{28, 29}, faceCX, 1+0.10*e(47))
	pts[27].y += 6 * e(48)
	shiftY(pts, []int{31, 35}, 5*e(49))

	// Mouth 50–55.
	scaleX(pts, span(48, 67), faceCX, 1+0.24*e(50))
	shiftY(pts, []int{50, 51, 52}, -8*e(51))
	shiftY(pts, []int{57, 58, 56}, 8*e(52))
	scaleY(pts, span(48, 59), 330, 1+0.20*e(53))
	shiftY(pts, []int{48, 54}, -8*e(54))
	shiftY(pts, span(48, 67), 8*e(55))

	// Brows 56–59.
	shiftY(pts, []int{19, 24}, -8*e(56))
	shiftY(pts, []int{17, 26}, -8*e(57))
	shiftY(pts, []int{21, 22}, 8*e(57))
	scaleX(pts, []int{21, 22}, faceCX, 1+0.25*e(58))
	shiftY(pts, span(17, 26), -8*e(59))

	// Fine details 60–61: small smooth displacement fields so even the
	// catch-all morphs move the face deterministically.
	for m := 60; m <= 61; m++ {
		amp := 4 * e(m)
		for i := range pts {
			pts[i].x += amp * (r.noise.Eval2(float64(m)*13.7, float64(i)*0.41) - 0.5)
			pts[i].y += amp * (r.noise.Eval2(float64(m)*29.3, float64(i)*0.41+100) - 0.5)
		}
	}
}
