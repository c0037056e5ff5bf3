package openai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"thumbscope/pkg/common"
	"thumbscope/pkg/thumbscope/domain"
)

const synthesizerBackend = "openai-chat"

const (
	// ConfigKeySynthesisModel which model composes the final narrative
	ConfigKeySynthesisModel = "openaiSynthesisModel"
	// ConfigKeySynthesisMaxTokens response length cap for the narrative
	ConfigKeySynthesisMaxTokens = "openaiSynthesisMaxTokens"
)

const synthesisSystemInstruction = "You are a thumbnail analysis expert who can create detailed prompts based on image analysis data."

const synthesisInstruction = `Based on the provided thumbnail analyses, create a detailed description covering:
1. What's happening in the thumbnail
2. Category of video (e.g., gaming, tutorial, vlog)
3. Theme and mood
4. Colors used and their significance
5. Elements and objects present
6. Subject impressions (emotions, expressions)
7. Text present and its purpose

Create this as a structured, detailed prompt that could be used to recreate or understand the thumbnail's purpose.

Analysis data:
`

// Synthesizer implements domain.ReportSynthesizer with an OpenAI chat completion: the
// bundle is serialized to JSON and sent along with a fixed instruction naming the seven
// required report sections.
type Synthesizer struct {
	client    *goopenai.Client
	model     string
	maxTokens int
}

func NewSynthesizer(config *common.Config) (*Synthesizer, error) {
	client, err := newClient(synthesizerBackend, config)
	if err != nil {
		return nil, err
	}
	return &Synthesizer{
		client:    client,
		model:     config.GetStringOrDefault(ConfigKeySynthesisModel, goopenai.GPT4o),
		maxTokens: config.GetIntOrDefault(ConfigKeySynthesisMaxTokens, 800),
	}, nil
}

// Synthesize returns the generated narrative unmodified.
func (s *Synthesizer) Synthesize(ctx context.Context, bundle *domain.AnalysisBundle) (string, error) {
	prompt, err := buildSynthesisPrompt(bundle)
	if err != nil {
		return "", domain.NewBackendError(synthesizerBackend, domain.BackendInvalidInput, err)
	}
	response, err := s.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role:    goopenai.ChatMessageRoleSystem,
				Content: synthesisSystemInstruction,
			},
			{
				Role:    goopenai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", mapError(synthesizerBackend, err)
	}
	if len(response.Choices) == 0 {
		return "", domain.NewBackendError(synthesizerBackend, domain.BackendUnavailable,
			errors.New("response contains no choices"))
	}
	return response.Choices[0].Message.Content, nil
}

// buildSynthesisPrompt serializes the bundle into a backend-agnostic textual
// representation. Absent analyses are named explicitly so that the model doesn't invent
// data for a side which failed.
func buildSynthesisPrompt(bundle *domain.AnalysisBundle) (string, error) {
	serialized, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", err
	}
	var prompt strings.Builder
	prompt.WriteString(synthesisInstruction)
	prompt.Write(serialized)
	if !bundle.HasFeatures() {
		prompt.WriteString("\n\nNote: the feature-detection analysis is unavailable for this image; rely on the scene description only.")
	}
	if !bundle.HasDescription() {
		prompt.WriteString("\n\nNote: the scene description is unavailable for this image; rely on the feature-detection analysis only.")
	}
	return prompt.String(), nil
}
