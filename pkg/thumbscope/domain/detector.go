package domain

import "context"

// FeatureDetector is the port to the feature-detection backend. One call covers all
// detection categories (labels, text, faces, logos, dominant colors): either the full
// FeatureSet comes back, or the whole call fails with a *BackendError. An empty category
// on a successful call means "nothing found", not an error.
type FeatureDetector interface {
	Detect(ctx context.Context, image *ImagePayload) (*FeatureSet, error)
}
