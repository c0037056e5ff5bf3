package domain

import "context"

// ImageDescriber is the port to the multimodal description backend: a vision-capable
// language model which returns a free-text description of the image, verbatim.
type ImageDescriber interface {
	Describe(ctx context.Context, image *ImagePayload) (string, error)
}
