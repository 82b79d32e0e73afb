// Package types defines every cross‑package data structure used by the codegrab CLI.
package types

const (
	CommandGrab = "grab"
	CommandList = "list"
)

// AdmissionDecision is the terminal outcome recorded for one discovered file.
// Exactly one decision is produced per candidate and decisions are never
// revisited within an invocation.
type AdmissionDecision string

const (
	// DecisionAdmitted marks a file that is included in the rendered output.
	DecisionAdmitted AdmissionDecision = "admitted"
	// DecisionSkippedNoPatternMatch marks a file rejected because no include pattern matched its path.
	DecisionSkippedNoPatternMatch AdmissionDecision = "skipped_no_pattern_match"
	// DecisionSkippedTooLarge marks a file rejected because it exceeds the size threshold.
	DecisionSkippedTooLarge AdmissionDecision = "skipped_too_large"
	// DecisionSkippedUnreadable marks a file the current process cannot open.
	DecisionSkippedUnreadable AdmissionDecision = "skipped_unreadable"
	// DecisionSkippedBinary marks a file classified as non-textual by the content probe.
	DecisionSkippedBinary AdmissionDecision = "skipped_binary"
)

// Candidate is a regular file discovered during traversal, pending an
// admission decision. RelativePath is the slash-separated path from the
// selection root and is the name rendered in output headers.
type Candidate struct {
	AbsolutePath string
	RelativePath string
	SizeBytes    int64
}

// SelectionResult is the complete outcome of one selection pass: the ordered
// admitted paths, the concatenated rendered text, and aggregate estimates.
// Admitted paths appear in discovery order, which the renderer preserves.
type SelectionResult struct {
	Files          []string
	Text           string
	WordCount      int
	TokenCount     int
	TokenModel     string
	TotalSizeBytes int64
}
