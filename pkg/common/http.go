package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDownloadSize bounds image downloads so that a misbehaving URL can't exhaust memory.
const maxDownloadSize = 20 * 1024 * 1024

var httpClient = &http.Client{Timeout: time.Minute}

// ReadAllFromURL reads all content from the URL, up to a fixed size limit.
func ReadAllFromURL(ctx context.Context, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	response, err := httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = response.Body.Close()
	}()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load %s: %s", url, response.Status)
	}
	content, err := io.ReadAll(io.LimitReader(response.Body, maxDownloadSize))
	if err != nil {
		return nil, err
	}
	return content, nil
}
