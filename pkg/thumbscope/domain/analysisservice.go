package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"thumbscope/pkg/common"
)

// State of one analysis run.
type State string

const (
	StateIdle         State = "idle"
	StateAnalyzing    State = "analyzing"
	StateSynthesizing State = "synthesizing"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

const (
	detectionBackendRole   = "feature-detection"
	descriptionBackendRole = "scene-description"
	synthesisBackendRole   = "synthesis"
)

// AnalysisService is the pipeline orchestrator: it dispatches the image to the two
// stage-1 backends concurrently, waits for both to settle, normalizes whatever came back
// and, if at least one analysis succeeded, asks the synthesis backend for the final
// narrative. All state is scoped to one Analyze call; the service itself can be shared
// between concurrent runs.
type AnalysisService struct {
	detector         FeatureDetector
	describer        ImageDescriber
	synthesizer      ReportSynthesizer
	logger           common.Logger
	analysisTimeout  time.Duration
	synthesisTimeout time.Duration
}

func NewAnalysisService(
	detector FeatureDetector,
	describer ImageDescriber,
	synthesizer ReportSynthesizer,
	config *common.Config,
	logger common.Logger,
) *AnalysisService {
	return &AnalysisService{
		detector:         detector,
		describer:        describer,
		synthesizer:      synthesizer,
		logger:           logger,
		analysisTimeout:  config.GetDurationOrDefault(ConfigKeyAnalysisTimeout, 30*time.Second),
		synthesisTimeout: config.GetDurationOrDefault(ConfigKeySynthesisTimeout, time.Minute),
	}
}

// Analyze runs the whole pipeline for one image.
//
// On success the returned report carries the narrative and the bundle it was derived
// from. On failure the error is either *TotalAnalysisFailure (both stage-1 backends
// failed; synthesis was never attempted) or *SynthesisFailure (synthesis failed; the
// partially built bundle is inside the error so that callers can still display it).
// No retries are performed at any stage.
func (s *AnalysisService) Analyze(ctx context.Context, image *ImagePayload) (*SynthesisReport, error) {
	runID := uuid.NewString()
	state := StateIdle
	advance := func(next State) {
		state = next
		s.logger.Log(fmt.Sprintf("run %s: %s", runID, state))
	}
	advance(StateAnalyzing)

	var (
		features    *FeatureSet
		detectErr   error
		description string
		describeErr error
	)
	// Both stage-1 calls are independent, so a failure of one must not cancel the other:
	// the group functions always return nil and the real outcomes are captured above.
	// The join below waits for both to settle before any transition rule is evaluated.
	var group errgroup.Group
	group.Go(func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
		defer cancel()
		features, detectErr = s.detector.Detect(callCtx, image)
		return nil
	})
	group.Go(func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
		defer cancel()
		description, describeErr = s.describer.Describe(callCtx, image)
		return nil
	})
	_ = group.Wait()

	if detectErr != nil {
		features = nil
		s.logger.Log(fmt.Sprintf("run %s: %s failed: %v", runID, detectionBackendRole, detectErr))
	}
	var descriptionPtr *string
	if describeErr != nil {
		s.logger.Log(fmt.Sprintf("run %s: %s failed: %v", runID, descriptionBackendRole, describeErr))
	} else {
		descriptionPtr = &description
	}

	if detectErr != nil && describeErr != nil {
		advance(StateFailed)
		return nil, &TotalAnalysisFailure{
			DetectionErr:   CoerceBackendError(detectionBackendRole, detectErr),
			DescriptionErr: CoerceBackendError(descriptionBackendRole, describeErr),
		}
	}

	bundle := Normalize(features, descriptionPtr)
	advance(StateSynthesizing)
	callCtx, cancel := context.WithTimeout(ctx, s.synthesisTimeout)
	defer cancel()
	narrative, err := s.synthesizer.Synthesize(callCtx, bundle)
	if err != nil {
		advance(StateFailed)
		return nil, &SynthesisFailure{
			Bundle: bundle,
			Cause:  CoerceBackendError(synthesisBackendRole, err),
		}
	}
	advance(StateDone)
	return &SynthesisReport{
		ID:        runID,
		Narrative: narrative,
		Bundle:    bundle,
		CreatedAt: time.Now(),
	}, nil
}
