package openai

import (
	"context"
	"errors"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"thumbscope/pkg/common"
	"thumbscope/pkg/thumbscope/domain"
)

const (
	// ConfigKeyAPIKey the OpenAI API key. Falls back to the OPENAI_API_KEY environment variable.
	ConfigKeyAPIKey = "openaiAPIKey"
	// ConfigKeyBaseURL overrides the API endpoint, for OpenAI-compatible gateways.
	ConfigKeyBaseURL = "openaiBaseURL"
)

// newClient fails with BackendError{Unauthorized} when no API key is configured, matching
// the contract that adapter construction itself is fallible.
func newClient(backend string, config *common.Config) (*goopenai.Client, error) {
	apiKey := config.GetStringOrEnv(ConfigKeyAPIKey, "OPENAI_API_KEY")
	if apiKey == "" {
		return nil, domain.NewBackendError(backend, domain.BackendUnauthorized,
			errors.New("no OpenAI API key configured"))
	}
	clientConfig := goopenai.DefaultConfig(apiKey)
	if baseURL := config.GetString(ConfigKeyBaseURL); baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return goopenai.NewClientWithConfig(clientConfig), nil
}

func mapError(backend string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.NewBackendError(backend, domain.BackendUnavailable, err)
	}
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.NewBackendError(backend, domain.BackendUnauthorized, err)
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
			return domain.NewBackendError(backend, domain.BackendInvalidInput, err)
		}
	}
	return domain.NewBackendError(backend, domain.BackendUnavailable, err)
}
