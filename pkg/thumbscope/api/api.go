package api

import (
	"context"
	"fmt"
	"os"
	"strings"

	"thumbscope/pkg/common"
	"thumbscope/pkg/thumbscope/domain"
	"thumbscope/pkg/thumbscope/infrastructure/googlevision"
	"thumbscope/pkg/thumbscope/infrastructure/logging"
	"thumbscope/pkg/thumbscope/infrastructure/openai"
)

// See domain/config.go
const (
	ConfigKeyLogPath = domain.ConfigKeyLogPath
)

// API is the entrypoint to thumbscope. It shouldn't contain any logic of its own; it
// glues the backend adapters and the pipeline together and provides a public interface
// for domain.AnalysisService. This API can be used in various contexts: a console,
// an IRC chat, an HTTP server etc.
type API interface {
	// AnalyzeImage runs the whole analysis pipeline for one image. On failure the error
	// is *domain.TotalAnalysisFailure or *domain.SynthesisFailure; the latter still
	// carries the partial bundle for display.
	AnalyzeImage(ctx context.Context, content []byte, mime string) (*domain.SynthesisReport, error)
	// SaveReport exports the report as a plain-text artifact and returns the path it was
	// written to. An empty path picks a default name derived from the report ID.
	SaveReport(report *domain.SynthesisReport, path string) (string, error)
}

type api struct {
	analysisService *domain.AnalysisService
}

// NewAPI wires the pipeline together. Construction fails when a backend adapter can't
// be built, typically because its credentials are missing (BackendError{Unauthorized}).
func NewAPI(config *common.Config) (API, error) {
	logger := common.NewFileLogger(config.GetStringOrDefault(ConfigKeyLogPath, "log.txt"))
	detector, err := googlevision.NewDetector(context.Background(), config)
	if err != nil {
		return nil, err
	}
	describer, err := openai.NewDescriber(config)
	if err != nil {
		return nil, err
	}
	synthesizer, err := openai.NewSynthesizer(config)
	if err != nil {
		return nil, err
	}
	analysisService := domain.NewAnalysisService(
		logging.NewFeatureDetectorDecorator(detector, logger),
		logging.NewImageDescriberDecorator(describer, logger),
		logging.NewReportSynthesizerDecorator(synthesizer, logger),
		config,
		logger,
	)
	return &api{analysisService: analysisService}, nil
}

func (a *api) AnalyzeImage(ctx context.Context, content []byte, mime string) (*domain.SynthesisReport, error) {
	image, err := domain.NewImagePayload(content, mime)
	if err != nil {
		return nil, err
	}
	return a.analysisService.Analyze(ctx, image)
}

func (a *api) SaveReport(report *domain.SynthesisReport, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("thumbnail_analysis_%s.txt", report.ID)
	}
	var artifact strings.Builder
	artifact.WriteString(report.Narrative)
	artifact.WriteString("\n\n---\n")
	artifact.WriteString(FormatBundle(report.Bundle))
	if err := os.WriteFile(path, []byte(artifact.String()), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// FormatBundle renders the normalized bundle for humans: raw detections and the scene
// description, with absent analyses called out explicitly.
func FormatBundle(bundle *domain.AnalysisBundle) string {
	var b strings.Builder
	if bundle.HasFeatures() {
		features := bundle.Features
		b.WriteString("Detections:\n")
		for _, label := range features.Labels {
			fmt.Fprintf(&b, "  label: %s (%.2f)\n", label.Name, label.Confidence)
		}
		for _, logo := range features.Logos {
			fmt.Fprintf(&b, "  logo: %s\n", logo.Name)
		}
		for i, face := range features.Faces {
			fmt.Fprintf(&b, "  face %d:", i+1)
			for _, emotion := range []string{domain.EmotionJoy, domain.EmotionSorrow, domain.EmotionAnger, domain.EmotionSurprise} {
				fmt.Fprintf(&b, " %s=%s", emotion, face.Emotions[emotion])
			}
			b.WriteString("\n")
		}
		for _, color := range features.Colors {
			fmt.Fprintf(&b, "  color: rgb(%d, %d, %d) score=%.2f fraction=%.2f\n",
				color.Color.Red, color.Color.Green, color.Color.Blue, color.Score, color.PixelFraction)
		}
		if features.Text != nil {
			fmt.Fprintf(&b, "  text: %s\n", strings.TrimSpace(features.Text.Content))
		}
	} else {
		b.WriteString("Detections: unavailable\n")
	}
	if bundle.HasDescription() {
		fmt.Fprintf(&b, "Scene description:\n%s\n", *bundle.Description)
	} else {
		b.WriteString("Scene description: unavailable\n")
	}
	return b.String()
}
