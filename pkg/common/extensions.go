package common

import (
	"net/http"
	"strings"
)

func IsImageFormat(url string) bool {
	url = strings.ToLower(url)
	return strings.HasSuffix(url, ".jpg") ||
		strings.HasSuffix(url, ".jpeg") ||
		strings.HasSuffix(url, ".png") ||
		strings.HasSuffix(url, ".gif")
}

// DetectImageMIME sniffs the MIME type from the first bytes of the content.
// Returns an empty string if the content is not one of the supported raster formats.
func DetectImageMIME(content []byte) string {
	mime := http.DetectContentType(content)
	switch mime {
	case "image/jpeg", "image/png", "image/gif":
		return mime
	}
	return ""
}
