package domain

import "fmt"

// supportedMIMEs the raster formats we're willing to send to the backends.
var supportedMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ImagePayload is the raw image handed to the pipeline. It's created once at pipeline
// entry and read-only after that: every adapter sees the same bytes.
type ImagePayload struct {
	content []byte
	mime    string
}

// NewImagePayload copies `content` so that later mutations by the caller can't leak into
// in-flight backend calls. `mime` must be one of the supported raster formats.
func NewImagePayload(content []byte, mime string) (*ImagePayload, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty image content")
	}
	if !supportedMIMEs[mime] {
		return nil, fmt.Errorf("unsupported image format: %q", mime)
	}
	copied := make([]byte, len(content))
	copy(copied, content)
	return &ImagePayload{content: copied, mime: mime}, nil
}

// Content returns the image bytes. The returned slice must not be mutated.
func (p *ImagePayload) Content() []byte {
	return p.content
}

func (p *ImagePayload) MIME() string {
	return p.mime
}
