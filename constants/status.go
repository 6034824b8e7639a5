package constants

// AnalysisStatus is the canonical status stored for rows in analyses.
type AnalysisStatus string

// Stable values (store these exact strings in DB).
const (
	AnalysisStatusOK      AnalysisStatus = "OK"      // text read, metrics and summary derived
	AnalysisStatusPartial AnalysisStatus = "PARTIAL" // succeeded with layer warnings
	AnalysisStatusFailed  AnalysisStatus = "FAILED"  // terminal failure
)

// MetricStatus records how a metric key fared during extraction.
type MetricStatus string

const (
	MetricFound      MetricStatus = "found"       // a match normalized to a value
	MetricUnparsed   MetricStatus = "unparsed"    // matched, but no capture parsed as a number
	MetricNotMatched MetricStatus = "not_matched" // pattern never matched
)
