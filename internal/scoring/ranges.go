// Package scoring compares two feature sets sub-phase by sub-phase and
// folds the results into a single gated total, so later phases cannot
// mask failure in earlier ones.
package scoring

import "github.com/morholt/facelearner/internal/features"

// Calibration holds each feature's expected natural variation. The
// per-feature diff is normalized by this before the match curve is
// applied, so a tolerance of 0.15 means "off by 0.15 is a total miss".
// These values are empirically tuned configuration, not fixed law.
type Calibration map[features.Feature]float64

// DefaultCalibration returns the shipped tolerance table.
func DefaultCalibration() Calibration {
	return Calibration{
		features.FeatContourUpper:    0.12,
		features.FeatContourUpperMid: 0.12,
		features.FeatContourMid:      0.12,
		features.FeatContourLowerMid: 0.14,
		features.FeatContourLower:    0.16,
		features.FeatContourChin:     0.18,

		features.FeatFaceWidth:   0.15,
		features.FeatCheekWidth:  0.12,
		features.FeatTempleWidth: 0.15,

		features.FeatFaceLength:     0.15,
		features.FeatMidfaceRatio:   0.12,
		features.FeatLowerFaceRatio: 0.12,

		features.FeatJawWidth:  0.15,
		features.FeatJawTaper:  0.18,
		features.FeatJawCurveR: 0.12,
		features.FeatJawCurveL: 0.12,

		features.FeatChinPointedness: 0.15,
		features.FeatChinWidth:       0.12,
		features.FeatChinDrop:        0.10,

		features.FeatCheekFullness: 0.12,
		features.FeatCheekHeight:   0.12,
		features.FeatCheekTaper:    0.15,

		features.FeatForeheadWidth: 0.15,
		features.FeatBrowHeight:    0.18,

		features.FeatEyeSpacing: 0.15,
		features.FeatEyeWidthR:  0.15,
		features.FeatEyeWidthL:  0.15,
		features.FeatEyeOpenR:   0.20,
		features.FeatEyeOpenL:   0.20,
		features.FeatEyeCant:    0.12,

		features.FeatNoseWidth:      0.15,
		features.FeatNoseLength:     0.15,
		features.FeatNoseTipAngle:   0.15,
		features.FeatNostrilFlare:   0.20,
		features.FeatNoseProjection: 0.18,

		features.FeatMouthWidth:    0.15,
		features.FeatUpperLip:      0.18,
		features.FeatLowerLip:      0.18,
		features.FeatMouthFullness: 0.18,
		features.FeatMouthCorners:  0.12,

		features.FeatBrowArchR:   0.15,
		features.FeatBrowArchL:   0.15,
		features.FeatBrowSlant:   0.12,
		features.FeatBrowSpacing: 0.15,

		features.FeatJawSymmetry: 0.15,
		features.FeatEyeSymmetry: 0.15,
		features.FeatPhiltrum:    0.20,
	}
}

// fallbackRange covers features missing from the calibration table.
const fallbackRange = 0.15
