package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"thumbscope/pkg/common"
	"thumbscope/pkg/thumbscope/domain"
)

const describerBackend = "openai-vision"

const (
	// ConfigKeyVisionModel which vision-capable model describes the image
	ConfigKeyVisionModel = "openaiVisionModel"
	// ConfigKeyVisionMaxTokens response length cap for the description
	ConfigKeyVisionMaxTokens = "openaiVisionMaxTokens"
)

const describeInstruction = "Analyze this YouTube thumbnail. Describe what you see in detail."

// Describer implements domain.ImageDescriber with an OpenAI vision chat completion.
// The image travels inline as a base64 data URL.
type Describer struct {
	client    *goopenai.Client
	model     string
	maxTokens int
}

func NewDescriber(config *common.Config) (*Describer, error) {
	client, err := newClient(describerBackend, config)
	if err != nil {
		return nil, err
	}
	return &Describer{
		client:    client,
		model:     config.GetStringOrDefault(ConfigKeyVisionModel, goopenai.GPT4o),
		maxTokens: config.GetIntOrDefault(ConfigKeyVisionMaxTokens, 500),
	}, nil
}

// Describe returns the model's free-text response verbatim: no post-processing and no
// length capping beyond what the backend enforces through max tokens.
func (d *Describer) Describe(ctx context.Context, image *domain.ImagePayload) (string, error) {
	response, err := d.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     d.model,
		MaxTokens: d.maxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role: goopenai.ChatMessageRoleUser,
				MultiContent: []goopenai.ChatMessagePart{
					{
						Type: goopenai.ChatMessagePartTypeText,
						Text: describeInstruction,
					},
					{
						Type:     goopenai.ChatMessagePartTypeImageURL,
						ImageURL: &goopenai.ChatMessageImageURL{URL: buildImageDataURL(image)},
					},
				},
			},
		},
	})
	if err != nil {
		return "", mapError(describerBackend, err)
	}
	if len(response.Choices) == 0 {
		return "", domain.NewBackendError(describerBackend, domain.BackendUnavailable,
			errors.New("response contains no choices"))
	}
	return response.Choices[0].Message.Content, nil
}

func buildImageDataURL(image *domain.ImagePayload) string {
	return fmt.Sprintf("data:%s;base64,%s", image.MIME(), base64.StdEncoding.EncodeToString(image.Content()))
}
