package domain

// A list of built-in config keys supported by the analysis pipeline's core
// (frontend- and adapter-specific settings are not included).

const (
	// ConfigKeyLogPath file path where to save the logs
	ConfigKeyLogPath = "logPath"
	// ConfigKeyAnalysisTimeout how long a single stage-1 backend call (feature detection or
	// scene description) may take before it's treated as unavailable, in milliseconds
	ConfigKeyAnalysisTimeout = "analysisTimeout"
	// ConfigKeySynthesisTimeout how long the synthesis backend call may take before it's
	// treated as unavailable, in milliseconds
	ConfigKeySynthesisTimeout = "synthesisTimeout"
)
