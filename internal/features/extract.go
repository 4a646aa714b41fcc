package features

import (
	"math"

	"github.com/morholt/facelearner/internal/phase"
)

// Extract derives a FeatureSet from a flattened landmark array. Input
// shorter than the 68-point contract yields a zero-value set with
// Valid=false — a defined degraded output, not an error, because this
// runs inside the caller's frame loop.
func Extract(flat []float64) FeatureSet {
	pts := toPoints(flat)
	if pts == nil {
		return FeatureSet{}
	}

	jawSpan := dist(pts[idxJawRight], pts[idxJawLeft])
	midBrow := mid(pts[idxBrowRPeak], pts[idxBrowLPeak])
	faceHeight := dist(pts[idxChin], midBrow)
	if jawSpan <= 0 || faceHeight <= 0 {
		return FeatureSet{}
	}

	raw := make(map[Feature]float64, 48)

	// Contour profile: widths at six heights along the jaw, normalized
	// by the widest of them so the profile reads as a pure outline.
	widths := [6]float64{
		dist(pts[1], pts[15]),
		dist(pts[2], pts[14]),
		dist(pts[3], pts[13]),
		dist(pts[4], pts[12]),
		dist(pts[5], pts[11]),
		dist(pts[6], pts[10]),
	}
	maxWidth := jawSpan
	for _, w := range widths {
		maxWidth = math.Max(maxWidth, w)
	}
	raw[FeatContourUpper] = widths[0] / maxWidth
	raw[FeatContourUpperMid] = widths[1] / maxWidth
	raw[FeatContourMid] = widths[2] / maxWidth
	raw[FeatContourLowerMid] = widths[3] / maxWidth
	raw[FeatContourLower] = widths[4] / maxWidth
	raw[FeatContourChin] = widths[5] / maxWidth

	// Width group. Face width is expressed against face height so both
	// width and length sub-phases see a scale-free quantity.
	raw[FeatFaceWidth] = jawSpan / faceHeight / 2
	raw[FeatCheekWidth] = widths[0] / jawSpan * 0.8
	raw[FeatTempleWidth] = dist(pts[idxBrowROut], pts[idxBrowLOut]) / jawSpan

	raw[FeatFaceLength] = faceHeight / jawSpan / 2
	raw[FeatMidfaceRatio] = dist(midBrow, pts[idxNoseBase]) / faceHeight
	raw[FeatLowerFaceRatio] = dist(pts[idxNoseBase], pts[idxChin]) / faceHeight

	// Jaw: width plus vertex angles. Angles are normalized by π.
	raw[FeatJawWidth] = widths[3] / jawSpan
	raw[FeatJawTaper] = widths[3] / widths[0]
	raw[FeatJawCurveR] = vertexAngle(pts[4], pts[idxJawRight], pts[idxChin]) / math.Pi
	raw[FeatJawCurveL] = vertexAngle(pts[12], pts[idxJawLeft], pts[idxChin]) / math.Pi

	raw[FeatChinPointedness] = vertexAngle(pts[idxChin], pts[6], pts[10]) / math.Pi
	raw[FeatChinWidth] = dist(pts[7], pts[9]) / jawSpan
	raw[FeatChinDrop] = (pts[idxChin].Y-mid(pts[6], pts[10]).Y)/faceHeight + 0.5

	raw[FeatCheekFullness] = widths[1] / jawSpan * 0.8
	raw[FeatCheekHeight] = dist(mid(pts[1], pts[15]), midBrow) / faceHeight
	raw[FeatCheekTaper] = widths[2] / widths[0]

	raw[FeatForeheadWidth] = dist(pts[idxBrowROut], pts[idxBrowLOut]) / jawSpan
	raw[FeatBrowHeight] = dist(midBrow, pts[idxNasion]) / faceHeight * 4

	// Eyes.
	eyeWidthR := dist(pts[idxEyeROut], pts[idxEyeRIn])
	eyeWidthL := dist(pts[idxEyeLIn], pts[idxEyeLOut])
	raw[FeatEyeSpacing] = dist(pts[idxEyeRIn], pts[idxEyeLIn]) / jawSpan * 2
	raw[FeatEyeWidthR] = eyeWidthR / jawSpan * 4
	raw[FeatEyeWidthL] = eyeWidthL / jawSpan * 4
	if eyeWidthR > 0 {
		raw[FeatEyeOpenR] = (dist(pts[37], pts[41]) + dist(pts[38], pts[40])) / (2 * eyeWidthR)
	}
	if eyeWidthL > 0 {
		raw[FeatEyeOpenL] = (dist(pts[43], pts[47]) + dist(pts[44], pts[46])) / (2 * eyeWidthL)
	}
	// Positive cant = outer corners above inner corners (y grows down).
	cant := (pts[idxEyeRIn].Y - pts[idxEyeROut].Y) + (pts[idxEyeLIn].Y - pts[idxEyeLOut].Y)
	raw[FeatEyeCant] = cant/(2*jawSpan)*4 + 0.5

	// Nose.
	noseWidth := dist(pts[idxNostrilR], pts[idxNostrilL])
	raw[FeatNoseWidth] = noseWidth / jawSpan * 2
	raw[FeatNoseLength] = dist(pts[idxNasion], pts[idxNoseBase]) / faceHeight * 2
	raw[FeatNoseTipAngle] = vertexAngle(pts[idxNoseTip], pts[idxNostrilR], pts[idxNostrilL]) / math.Pi
	if noseWidth > 0 {
		raw[FeatNostrilFlare] = dist(pts[32], pts[34]) / noseWidth
	}
	raw[FeatNoseProjection] = dist(pts[idxNoseTip], pts[idxNoseBase]) / faceHeight * 4

	// Mouth. Lip thicknesses are expressed against mouth width so a
	// wide mouth with thin lips does not read as full.
	mouthWidth := dist(pts[idxMouthR], pts[idxMouthL])
	raw[FeatMouthWidth] = mouthWidth / jawSpan * 2
	if mouthWidth > 0 {
		raw[FeatUpperLip] = dist(pts[idxLipTop], pts[idxLipTopIn]) / mouthWidth * 4
		raw[FeatLowerLip] = dist(pts[idxLipBottom], pts[idxLipBotIn]) / mouthWidth * 4
		raw[FeatMouthFullness] = dist(pts[idxLipTop], pts[idxLipBottom]) / mouthWidth * 2
	}
	cornerLift := mid(pts[idxMouthR], pts[idxMouthL]).Y - pts[idxLipTop].Y
	raw[FeatMouthCorners] = cornerLift/jawSpan*4 + 0.5

	// Brows.
	raw[FeatBrowArchR] = vertexAngle(pts[idxBrowRPeak], pts[idxBrowROut], pts[idxBrowRIn]) / math.Pi
	raw[FeatBrowArchL] = vertexAngle(pts[idxBrowLPeak], pts[idxBrowLOut], pts[idxBrowLIn]) / math.Pi
	slant := (pts[idxBrowROut].Y - pts[idxBrowRIn].Y) + (pts[idxBrowLOut].Y - pts[idxBrowLIn].Y)
	raw[FeatBrowSlant] = slant/(2*jawSpan)*4 + 0.5
	raw[FeatBrowSpacing] = dist(pts[idxBrowRIn], pts[idxBrowLIn]) / jawSpan * 2

	// Fine details.
	raw[FeatJawSymmetry] = 1 - math.Abs(dist(pts[idxChin], pts[idxJawRight])-dist(pts[idxChin], pts[idxJawLeft]))/jawSpan*2
	raw[FeatEyeSymmetry] = 1 - math.Abs(eyeWidthR-eyeWidthL)/jawSpan*4
	raw[FeatPhiltrum] = dist(pts[idxNoseBase], pts[idxLipTop]) / faceHeight * 4

	// Clamp everything into [0,1]: angles and ratios can exceed the
	// expected band on extreme faces. Confidence per sub-phase is the
	// fraction of its measurements that were already in band.
	values := make(map[Feature]float64, len(raw))
	clamped := make(map[Feature]bool, len(raw))
	for f, v := range raw {
		if v < 0 || v > 1 {
			clamped[f] = true
		}
		values[f] = math.Max(0, math.Min(1, v))
	}

	confidence := make(map[phase.SubPhase]float64, phase.SubPhaseCount)
	for _, sub := range phase.AllSubPhases() {
		feats := subPhaseFeatures[sub]
		if len(feats) == 0 {
			continue
		}
		inBand := 0
		for _, f := range feats {
			if _, ok := values[f]; ok && !clamped[f] {
				inBand++
			}
		}
		confidence[sub] = float64(inBand) / float64(len(feats))
	}

	return FeatureSet{
		Values:     values,
		Confidence: confidence,
		Shape:      ClassifyShape(values),
		Valid:      true,
	}
}
