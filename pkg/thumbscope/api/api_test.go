package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"thumbscope/pkg/thumbscope/domain"
)

func TestFormatBundle_FullBundle(t *testing.T) {
	description := "a person holding a red mug"
	bundle := domain.Normalize(
		&domain.FeatureSet{
			Labels: []domain.Label{{Name: "mug", Confidence: 0.88}},
			Text:   &domain.TextBlock{Content: "MORNING ROUTINE\n"},
			Faces: []domain.FaceAttributes{
				{Emotions: map[string]domain.Likelihood{
					domain.EmotionJoy:      domain.LikelihoodVeryLikely,
					domain.EmotionSorrow:   domain.LikelihoodVeryUnlikely,
					domain.EmotionAnger:    domain.LikelihoodVeryUnlikely,
					domain.EmotionSurprise: domain.LikelihoodUnlikely,
				}},
			},
			Logos:  []domain.Logo{{Name: "ACME"}},
			Colors: []domain.DominantColor{{Color: domain.RGB{Red: 250, Green: 10, Blue: 10}, Score: 0.5, PixelFraction: 0.4}},
		},
		&description,
	)

	rendered := FormatBundle(bundle)
	require.Contains(t, rendered, "label: mug (0.88)")
	require.Contains(t, rendered, "logo: ACME")
	require.Contains(t, rendered, "face 1: joy=VERY_LIKELY")
	require.Contains(t, rendered, "color: rgb(250, 10, 10)")
	require.Contains(t, rendered, "text: MORNING ROUTINE")
	require.Contains(t, rendered, "Scene description:\na person holding a red mug")
	require.NotContains(t, rendered, "unavailable")
}

func TestFormatBundle_AbsentAnalyses(t *testing.T) {
	rendered := FormatBundle(domain.Normalize(&domain.FeatureSet{}, nil))
	require.Contains(t, rendered, "Detections:\n")
	require.Contains(t, rendered, "Scene description: unavailable")

	description := "just a description"
	rendered = FormatBundle(domain.Normalize(nil, &description))
	require.Contains(t, rendered, "Detections: unavailable")
	require.Contains(t, rendered, "just a description")
}

func TestSaveReport(t *testing.T) {
	description := "a cat"
	report := &domain.SynthesisReport{
		ID:        "test-run",
		Narrative: "1. What's happening: a cat sits on a keyboard.",
		Bundle:    domain.Normalize(nil, &description),
		CreatedAt: time.Now(),
	}
	path := filepath.Join(t.TempDir(), "report.txt")

	a := &api{}
	written, err := a.SaveReport(report, path)
	require.NoError(t, err)
	require.Equal(t, path, written)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), report.Narrative)
	require.Contains(t, string(content), "a cat")
	require.Contains(t, string(content), "Detections: unavailable")
}

func TestSaveReport_DefaultPathUsesReportID(t *testing.T) {
	previousDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(previousDir) })

	description := "a dog"
	report := &domain.SynthesisReport{
		ID:        "abc123",
		Narrative: "narrative",
		Bundle:    domain.Normalize(nil, &description),
		CreatedAt: time.Now(),
	}

	a := &api{}
	written, err := a.SaveReport(report, "")
	require.NoError(t, err)
	require.Equal(t, "thumbnail_analysis_abc123.txt", written)
	_, err = os.Stat(written)
	require.NoError(t, err)
}
