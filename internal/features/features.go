package features

import "github.com/morholt/facelearner/internal/phase"

// Feature names one normalized scalar measurement.
type Feature string

const (
	// Face contour profile: six widths at six heights along the jaw
	// contour, each normalized by the maximum jaw width. A
	// scale-invariant outline fingerprint.
	FeatContourUpper    Feature = "contour_upper"
	FeatContourUpperMid Feature = "contour_upper_mid"
	FeatContourMid      Feature = "contour_mid"
	FeatContourLowerMid Feature = "contour_lower_mid"
	FeatContourLower    Feature = "contour_lower"
	FeatContourChin     Feature = "contour_chin"

	FeatFaceWidth   Feature = "face_width"
	FeatCheekWidth  Feature = "cheek_width"
	FeatTempleWidth Feature = "temple_width"

	FeatFaceLength     Feature = "face_length"
	FeatMidfaceRatio   Feature = "midface_ratio"
	FeatLowerFaceRatio Feature = "lower_face_ratio"

	FeatJawWidth  Feature = "jaw_width"
	FeatJawTaper  Feature = "jaw_taper"
	FeatJawCurveR Feature = "jaw_curve_right"
	FeatJawCurveL Feature = "jaw_curve_left"

	FeatChinPointedness Feature = "chin_pointedness"
	FeatChinWidth       Feature = "chin_width"
	FeatChinDrop        Feature = "chin_drop"

	FeatCheekFullness Feature = "cheek_fullness"
	FeatCheekHeight   Feature = "cheek_height"
	FeatCheekTaper    Feature = "cheek_taper"

	FeatForeheadWidth Feature = "forehead_width"
	FeatBrowHeight    Feature = "brow_height"

	FeatEyeSpacing Feature = "eye_spacing"
	FeatEyeWidthR  Feature = "eye_width_right"
	FeatEyeWidthL  Feature = "eye_width_left"
	FeatEyeOpenR   Feature = "eye_open_right"
	FeatEyeOpenL   Feature = "eye_open_left"
	FeatEyeCant    Feature = "eye_cant"

	FeatNoseWidth      Feature = "nose_width"
	FeatNoseLength     Feature = "nose_length"
	FeatNoseTipAngle   Feature = "nose_tip_angle"
	FeatNostrilFlare   Feature = "nostril_flare"
	FeatNoseProjection Feature = "nose_projection"

	FeatMouthWidth    Feature = "mouth_width"
	FeatUpperLip      Feature = "upper_lip"
	FeatLowerLip      Feature = "lower_lip"
	FeatMouthFullness Feature = "mouth_fullness"
	FeatMouthCorners  Feature = "mouth_corners"

	FeatBrowArchR   Feature = "brow_arch_right"
	FeatBrowArchL   Feature = "brow_arch_left"
	FeatBrowSlant   Feature = "brow_slant"
	FeatBrowSpacing Feature = "brow_spacing"

	FeatJawSymmetry Feature = "jaw_symmetry"
	FeatEyeSymmetry Feature = "eye_symmetry"
	FeatPhiltrum    Feature = "philtrum"
)

// subPhaseFeatures groups the measurements judged in each sub-phase.
var subPhaseFeatures = map[phase.SubPhase][]Feature{
	phase.SubFaceShape: {
		FeatContourUpper, FeatContourUpperMid, FeatContourMid,
		FeatContourLowerMid, FeatContourLower, FeatContourChin,
	},
	phase.SubFaceWidth:  {FeatFaceWidth, FeatCheekWidth, FeatTempleWidth},
	phase.SubFaceLength: {FeatFaceLength, FeatMidfaceRatio, FeatLowerFaceRatio},
	phase.SubJaw:        {FeatJawWidth, FeatJawTaper, FeatJawCurveR, FeatJawCurveL},
	phase.SubChin:       {FeatChinPointedness, FeatChinWidth, FeatChinDrop},
	phase.SubCheeks:     {FeatCheekFullness, FeatCheekHeight, FeatCheekTaper},
	phase.SubForehead:   {FeatForeheadWidth, FeatBrowHeight},
	phase.SubEyes: {
		FeatEyeSpacing, FeatEyeWidthR, FeatEyeWidthL,
		FeatEyeOpenR, FeatEyeOpenL, FeatEyeCant,
	},
	phase.SubNose: {
		FeatNoseWidth, FeatNoseLength, FeatNoseTipAngle,
		FeatNostrilFlare, FeatNoseProjection,
	},
	phase.SubMouth: {
		FeatMouthWidth, FeatUpperLip, FeatLowerLip,
		FeatMouthFullness, FeatMouthCorners,
	},
	phase.SubEyebrows:    {FeatBrowArchR, FeatBrowArchL, FeatBrowSlant, FeatBrowSpacing},
	phase.SubFineDetails: {FeatJawSymmetry, FeatEyeSymmetry, FeatPhiltrum},
}

// FeaturesOf returns the measurements judged in a sub-phase.
func FeaturesOf(sub phase.SubPhase) []Feature {
	return subPhaseFeatures[sub]
}

// FeatureSet is one landmark snapshot's derived measurements. Immutable
// once extracted; a fresh set is created for every snapshot.
type FeatureSet struct {
	Values     map[Feature]float64
	Confidence map[phase.SubPhase]float64
	Shape      FaceShape
	Valid      bool
}

// Get returns a measurement and whether it was extracted.
func (fs *FeatureSet) Get(f Feature) (float64, bool) {
	if fs == nil || fs.Values == nil {
		return 0, false
	}
	v, ok := fs.Values[f]
	return v, ok
}
