package domain

// Likelihood is the ordinal category set for face emotion likelihoods. Backends report
// their own enums; adapters map them into this set, with LikelihoodUnknown for anything
// they can't place.
type Likelihood string

const (
	LikelihoodUnknown      Likelihood = "UNKNOWN"
	LikelihoodVeryUnlikely Likelihood = "VERY_UNLIKELY"
	LikelihoodUnlikely     Likelihood = "UNLIKELY"
	LikelihoodPossible     Likelihood = "POSSIBLE"
	LikelihoodLikely       Likelihood = "LIKELY"
	LikelihoodVeryLikely   Likelihood = "VERY_LIKELY"
)

// IsValid reports whether the likelihood belongs to the ordinal set.
func (l Likelihood) IsValid() bool {
	switch l {
	case LikelihoodUnknown, LikelihoodVeryUnlikely, LikelihoodUnlikely,
		LikelihoodPossible, LikelihoodLikely, LikelihoodVeryLikely:
		return true
	}
	return false
}

// Emotion names used as FaceAttributes map keys.
const (
	EmotionJoy      = "joy"
	EmotionSorrow   = "sorrow"
	EmotionAnger    = "anger"
	EmotionSurprise = "surprise"
)

// Label is a visual concept recognized in the image, with a confidence in [0, 1].
type Label struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// TextBlock is the single full-text block recognized in the image. Per-word and per-line
// sub-annotations from the backend are discarded.
type TextBlock struct {
	Content string `json:"content"`
}

// FaceAttributes holds per-face emotion likelihoods.
type FaceAttributes struct {
	Emotions map[string]Likelihood `json:"emotions"`
}

// Logo is a brand logo recognized in the image.
type Logo struct {
	Name string `json:"name"`
}

// RGB color with channel values in [0, 255].
type RGB struct {
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
}

// DominantColor is one of the image's dominant colors. Score is in [0, 1];
// PixelFraction is the fraction of image pixels the color occupies.
type DominantColor struct {
	Color         RGB     `json:"color"`
	Score         float64 `json:"score"`
	PixelFraction float64 `json:"pixel_fraction"`
}

// FeatureSet aggregates all detections returned by the feature-detection backend for one
// image. Empty slices mean "nothing of that category was found" on a successful call,
// which is distinct from the whole analysis being absent (see AnalysisBundle).
type FeatureSet struct {
	Labels []Label          `json:"labels"`
	Text   *TextBlock       `json:"text,omitempty"`
	Faces  []FaceAttributes `json:"faces"`
	Logos  []Logo           `json:"logos"`
	Colors []DominantColor  `json:"colors"`
}
