package domain

import "time"

// SynthesisReport is the final result of one analysis run: the narrative plus the bundle
// it was derived from, for traceability. Immutable once produced.
type SynthesisReport struct {
	ID        string
	Narrative string
	Bundle    *AnalysisBundle
	CreatedAt time.Time
}
