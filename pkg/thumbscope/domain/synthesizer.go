package domain

import "context"

// ReportSynthesizer is the port to the text-generation backend which composes the
// normalized bundle into the final structured narrative.
type ReportSynthesizer interface {
	Synthesize(ctx context.Context, bundle *AnalysisBundle) (string, error)
}
