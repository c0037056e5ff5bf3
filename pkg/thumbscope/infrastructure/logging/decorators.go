package logging

import (
	"context"
	"fmt"
	"time"

	"thumbscope/pkg/common"
	"thumbscope/pkg/thumbscope/domain"
)

// Decorators which log every backend call with its duration and outcome. They wrap the
// domain ports so that the pipeline itself stays free of logging noise.

type featureDetectorDecorator struct {
	wrapped domain.FeatureDetector
	logger  common.Logger
}

func NewFeatureDetectorDecorator(wrapped domain.FeatureDetector, logger common.Logger) domain.FeatureDetector {
	return &featureDetectorDecorator{wrapped: wrapped, logger: logger}
}

func (d *featureDetectorDecorator) Detect(ctx context.Context, image *domain.ImagePayload) (*domain.FeatureSet, error) {
	started := time.Now()
	features, err := d.wrapped.Detect(ctx, image)
	if err != nil {
		d.logger.Log(fmt.Sprintf("feature detection failed after %d ms: %v", time.Since(started).Milliseconds(), err))
		return nil, err
	}
	d.logger.Log(fmt.Sprintf("feature detection took %d ms: %d labels, %d faces, %d logos, %d colors, text=%v",
		time.Since(started).Milliseconds(), len(features.Labels), len(features.Faces),
		len(features.Logos), len(features.Colors), features.Text != nil))
	return features, nil
}

type imageDescriberDecorator struct {
	wrapped domain.ImageDescriber
	logger  common.Logger
}

func NewImageDescriberDecorator(wrapped domain.ImageDescriber, logger common.Logger) domain.ImageDescriber {
	return &imageDescriberDecorator{wrapped: wrapped, logger: logger}
}

func (d *imageDescriberDecorator) Describe(ctx context.Context, image *domain.ImagePayload) (string, error) {
	started := time.Now()
	description, err := d.wrapped.Describe(ctx, image)
	if err != nil {
		d.logger.Log(fmt.Sprintf("description failed after %d ms: %v", time.Since(started).Milliseconds(), err))
		return "", err
	}
	d.logger.Log(fmt.Sprintf("description took %d ms (%d chars)", time.Since(started).Milliseconds(), len(description)))
	return description, nil
}

type reportSynthesizerDecorator struct {
	wrapped domain.ReportSynthesizer
	logger  common.Logger
}

func NewReportSynthesizerDecorator(wrapped domain.ReportSynthesizer, logger common.Logger) domain.ReportSynthesizer {
	return &reportSynthesizerDecorator{wrapped: wrapped, logger: logger}
}

func (d *reportSynthesizerDecorator) Synthesize(ctx context.Context, bundle *domain.AnalysisBundle) (string, error) {
	started := time.Now()
	narrative, err := d.wrapped.Synthesize(ctx, bundle)
	if err != nil {
		d.logger.Log(fmt.Sprintf("synthesis failed after %d ms: %v", time.Since(started).Milliseconds(), err))
		return "", err
	}
	d.logger.Log(fmt.Sprintf("synthesis took %d ms (%d chars)", time.Since(started).Milliseconds(), len(narrative)))
	return narrative, nil
}
