package domain

// AnalysisBundle aggregates everything the stage-1 backends produced for one image.
// A nil field records that the corresponding analysis was attempted and is absent
// (failed or unavailable) -- absence is never silently coerced into an empty success.
type AnalysisBundle struct {
	Features    *FeatureSet `json:"feature_analysis,omitempty"`
	Description *string     `json:"scene_description,omitempty"`
}

// HasFeatures reports whether the feature-detection analysis succeeded.
func (b *AnalysisBundle) HasFeatures() bool {
	return b.Features != nil
}

// HasDescription reports whether the scene-description analysis succeeded.
func (b *AnalysisBundle) HasDescription() bool {
	return b.Description != nil
}

// HasAnyAnalysis reports whether at least one constituent analysis succeeded.
// Synthesis is only attempted when this holds.
func (b *AnalysisBundle) HasAnyAnalysis() bool {
	return b.HasFeatures() || b.HasDescription()
}
