package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"thumbscope/pkg/common"
)

type nopLogger struct{}

func (nopLogger) Log(string) {}

type stubDetector struct {
	features *FeatureSet
	err      error
	waitCtx  bool
	calls    int
}

func (s *stubDetector) Detect(ctx context.Context, _ *ImagePayload) (*FeatureSet, error) {
	s.calls++
	if s.waitCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.features, s.err
}

type stubDescriber struct {
	description string
	err         error
	calls       int
}

func (s *stubDescriber) Describe(ctx context.Context, _ *ImagePayload) (string, error) {
	s.calls++
	return s.description, s.err
}

type stubSynthesizer struct {
	narrative string
	err       error
	calls     int
	bundle    *AnalysisBundle
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, bundle *AnalysisBundle) (string, error) {
	s.calls++
	s.bundle = bundle
	return s.narrative, s.err
}

const sevenSectionNarrative = `1. What's happening: a streamer reacts to gameplay.
2. Category of video: gaming.
3. Theme and mood: energetic.
4. Colors used: red and yellow for urgency.
5. Elements and objects: a character, an arrow.
6. Subject impressions: exaggerated surprise.
7. Text present: "INSANE!" to bait clicks.`

func testImage(t *testing.T) *ImagePayload {
	t.Helper()
	image, err := NewImagePayload([]byte("not really a jpeg"), "image/jpeg")
	require.NoError(t, err)
	return image
}

func testConfig(t *testing.T, content string) *common.Config {
	t.Helper()
	if content == "" {
		return common.NewConfig()
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	config, err := common.LoadConfig(path)
	require.NoError(t, err)
	return config
}

func newService(detector FeatureDetector, describer ImageDescriber, synthesizer ReportSynthesizer, config *common.Config) *AnalysisService {
	return NewAnalysisService(detector, describer, synthesizer, config, nopLogger{})
}

func TestAnalyze_BothSucceed(t *testing.T) {
	detector := &stubDetector{features: &FeatureSet{Labels: []Label{{Name: "car", Confidence: 0.9}}}}
	describer := &stubDescriber{description: "a red car on a road"}
	synthesizer := &stubSynthesizer{narrative: sevenSectionNarrative}
	service := newService(detector, describer, synthesizer, testConfig(t, ""))

	report, err := service.Analyze(context.Background(), testImage(t))
	require.NoError(t, err)
	require.NotEmpty(t, report.ID)
	require.False(t, report.CreatedAt.IsZero())
	require.Equal(t, 1, detector.calls)
	require.Equal(t, 1, describer.calls)
	require.Equal(t, 1, synthesizer.calls)
	require.True(t, report.Bundle.HasFeatures())
	require.True(t, report.Bundle.HasDescription())
	for _, marker := range []string{"1.", "2.", "3.", "4.", "5.", "6.", "7."} {
		require.Contains(t, report.Narrative, marker)
	}
}

func TestAnalyze_BothFail_SynthesisNeverInvoked(t *testing.T) {
	detector := &stubDetector{err: NewBackendError("feature-detection", BackendUnavailable, errors.New("down"))}
	describer := &stubDescriber{err: NewBackendError("scene-description", BackendUnavailable, errors.New("down"))}
	synthesizer := &stubSynthesizer{}
	service := newService(detector, describer, synthesizer, testConfig(t, ""))

	report, err := service.Analyze(context.Background(), testImage(t))
	require.Nil(t, report)
	var totalFailure *TotalAnalysisFailure
	require.ErrorAs(t, err, &totalFailure)
	require.Equal(t, BackendUnavailable, totalFailure.DetectionErr.Kind)
	require.Equal(t, BackendUnavailable, totalFailure.DescriptionErr.Kind)
	require.Equal(t, 0, synthesizer.calls)
	require.Equal(t, 1, detector.calls)
	require.Equal(t, 1, describer.calls)
}

func TestAnalyze_UnauthorizedOnBothBackends(t *testing.T) {
	detector := &stubDetector{err: NewBackendError("feature-detection", BackendUnauthorized, errors.New("bad key"))}
	describer := &stubDescriber{err: NewBackendError("scene-description", BackendUnauthorized, errors.New("bad key"))}
	synthesizer := &stubSynthesizer{}
	service := newService(detector, describer, synthesizer, testConfig(t, ""))

	_, err := service.Analyze(context.Background(), testImage(t))
	var totalFailure *TotalAnalysisFailure
	require.ErrorAs(t, err, &totalFailure)
	require.Equal(t, BackendUnauthorized, totalFailure.DetectionErr.Kind)
	require.Equal(t, BackendUnauthorized, totalFailure.DescriptionErr.Kind)
	// No retries: one call each.
	require.Equal(t, 1, detector.calls)
	require.Equal(t, 1, describer.calls)
}

func TestAnalyze_DetectorFails_DegradedBundleReachesSynthesis(t *testing.T) {
	detector := &stubDetector{err: NewBackendError("feature-detection", BackendUnavailable, errors.New("timeout"))}
	describer := &stubDescriber{description: "a castle at dusk"}
	synthesizer := &stubSynthesizer{narrative: "narrative"}
	service := newService(detector, describer, synthesizer, testConfig(t, ""))

	report, err := service.Analyze(context.Background(), testImage(t))
	require.NoError(t, err)
	require.Equal(t, 1, synthesizer.calls)
	require.False(t, synthesizer.bundle.HasFeatures())
	require.True(t, synthesizer.bundle.HasDescription())
	require.Equal(t, "a castle at dusk", *report.Bundle.Description)
}

func TestAnalyze_DescriberFails_FeaturesAloneAreEnough(t *testing.T) {
	detector := &stubDetector{features: &FeatureSet{Logos: []Logo{{Name: "ACME"}}}}
	describer := &stubDescriber{err: NewBackendError("scene-description", BackendInvalidInput, errors.New("rejected"))}
	synthesizer := &stubSynthesizer{narrative: "narrative"}
	service := newService(detector, describer, synthesizer, testConfig(t, ""))

	report, err := service.Analyze(context.Background(), testImage(t))
	require.NoError(t, err)
	require.True(t, report.Bundle.HasFeatures())
	require.False(t, report.Bundle.HasDescription())
}

func TestAnalyze_SynthesisFailureKeepsBundle(t *testing.T) {
	detector := &stubDetector{features: &FeatureSet{Labels: []Label{{Name: "cat", Confidence: 0.8}}}}
	describer := &stubDescriber{description: "a cat"}
	synthesizer := &stubSynthesizer{err: NewBackendError("synthesis", BackendUnavailable, errors.New("down"))}
	service := newService(detector, describer, synthesizer, testConfig(t, ""))

	report, err := service.Analyze(context.Background(), testImage(t))
	require.Nil(t, report)
	var synthesisFailure *SynthesisFailure
	require.ErrorAs(t, err, &synthesisFailure)
	require.NotNil(t, synthesisFailure.Bundle)
	require.True(t, synthesisFailure.Bundle.HasFeatures())
	require.True(t, synthesisFailure.Bundle.HasDescription())
	require.Equal(t, BackendUnavailable, synthesisFailure.Cause.Kind)
}

func TestAnalyze_TimeoutBecomesUnavailable_DoesNotDragDownTheOtherCall(t *testing.T) {
	detector := &stubDetector{waitCtx: true}
	describer := &stubDescriber{description: "still fine"}
	synthesizer := &stubSynthesizer{narrative: "narrative"}
	service := newService(detector, describer, synthesizer, testConfig(t, "analysisTimeout: 20\n"))

	report, err := service.Analyze(context.Background(), testImage(t))
	require.NoError(t, err)
	require.Equal(t, 1, synthesizer.calls)
	require.False(t, report.Bundle.HasFeatures())
	require.True(t, report.Bundle.HasDescription())
}

func TestAnalyze_CoercesForeignErrorsIntoUnavailable(t *testing.T) {
	detector := &stubDetector{err: errors.New("something leaked")}
	describer := &stubDescriber{err: errors.New("also leaked")}
	service := newService(detector, describer, &stubSynthesizer{}, testConfig(t, ""))

	_, err := service.Analyze(context.Background(), testImage(t))
	var totalFailure *TotalAnalysisFailure
	require.ErrorAs(t, err, &totalFailure)
	require.Equal(t, BackendUnavailable, totalFailure.DetectionErr.Kind)
	require.Equal(t, "feature-detection", totalFailure.DetectionErr.Backend)
	require.Equal(t, BackendUnavailable, totalFailure.DescriptionErr.Kind)
}
