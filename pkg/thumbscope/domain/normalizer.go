package domain

import "sort"

// MaxDominantColors how many dominant colors survive normalization.
const MaxDominantColors = 5

// Normalize merges the two stage-1 outcomes into one AnalysisBundle. Either input may be
// nil, meaning the corresponding analysis is absent; the bundle records that explicitly.
//
// Normalize is pure: it never touches the network, has no side effects, and doesn't
// mutate its inputs, so repeated calls with the same inputs produce the same bundle.
// Normalization rules:
//   - label confidences and color scores/pixel fractions are clamped into [0, 1]
//   - color channels are clamped into [0, 255]
//   - dominant colors are sorted by descending score (stable, so backend order breaks
//     ties) and capped at MaxDominantColors
//   - face emotion likelihoods outside the ordinal set become LikelihoodUnknown
func Normalize(features *FeatureSet, description *string) *AnalysisBundle {
	bundle := &AnalysisBundle{}
	if features != nil {
		bundle.Features = normalizeFeatures(features)
	}
	if description != nil {
		copied := *description
		bundle.Description = &copied
	}
	return bundle
}

func normalizeFeatures(features *FeatureSet) *FeatureSet {
	normalized := &FeatureSet{
		Labels: make([]Label, 0, len(features.Labels)),
		Faces:  make([]FaceAttributes, 0, len(features.Faces)),
		Logos:  make([]Logo, 0, len(features.Logos)),
		Colors: make([]DominantColor, 0, len(features.Colors)),
	}
	for _, label := range features.Labels {
		label.Confidence = clamp01(label.Confidence)
		normalized.Labels = append(normalized.Labels, label)
	}
	if features.Text != nil {
		text := *features.Text
		normalized.Text = &text
	}
	for _, face := range features.Faces {
		emotions := make(map[string]Likelihood, len(face.Emotions))
		for emotion, likelihood := range face.Emotions {
			if !likelihood.IsValid() {
				likelihood = LikelihoodUnknown
			}
			emotions[emotion] = likelihood
		}
		normalized.Faces = append(normalized.Faces, FaceAttributes{Emotions: emotions})
	}
	normalized.Logos = append(normalized.Logos, features.Logos...)
	for _, color := range features.Colors {
		color.Score = clamp01(color.Score)
		color.PixelFraction = clamp01(color.PixelFraction)
		color.Color.Red = clampChannel(color.Color.Red)
		color.Color.Green = clampChannel(color.Color.Green)
		color.Color.Blue = clampChannel(color.Color.Blue)
		normalized.Colors = append(normalized.Colors, color)
	}
	sort.SliceStable(normalized.Colors, func(i, j int) bool {
		return normalized.Colors[i].Score > normalized.Colors[j].Score
	})
	if len(normalized.Colors) > MaxDominantColors {
		normalized.Colors = normalized.Colors[:MaxDominantColors]
	}
	return normalized
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func clampChannel(value int) int {
	if value < 0 {
		return 0
	}
	if value > 255 {
		return 255
	}
	return value
}
