// Package selection contains the file selection and traversal engine: directory
// pruning, include-pattern matching, size and content gating, and the
// orchestration that turns a configuration into a rendered selection.
package selection

import (
	"os"

	"github.com/mcochner/codegrab/internal/config"
	"github.com/mcochner/codegrab/internal/glob"
	"github.com/mcochner/codegrab/internal/types"
	"github.com/mcochner/codegrab/internal/utils"
)

// FilterPolicy combines directory exclusions, include patterns, the size
// threshold, and the textual-content probe into one admission decision per
// candidate. The gates apply in a fixed order and each is terminal: a file
// rejected by an earlier gate is never re-evaluated by a later one.
type FilterPolicy struct {
	excludedDirectoryNames map[string]struct{}
	includePatterns        []glob.Pattern
	maxFileSizeBytes       int64
}

// NewFilterPolicy compiles the configuration's patterns into a reusable policy.
func NewFilterPolicy(configuration config.Configuration) *FilterPolicy {
	excludedNames := make(map[string]struct{}, len(configuration.ExcludeDirectoryNames))
	for _, directoryName := range configuration.ExcludeDirectoryNames {
		excludedNames[directoryName] = struct{}{}
	}
	compiledPatterns := make([]glob.Pattern, 0, len(configuration.IncludePatterns))
	for _, patternExpression := range configuration.IncludePatterns {
		compiledPatterns = append(compiledPatterns, glob.Compile(patternExpression))
	}
	return &FilterPolicy{
		excludedDirectoryNames: excludedNames,
		includePatterns:        compiledPatterns,
		maxFileSizeBytes:       configuration.MaxFileSizeBytes,
	}
}

// ShouldPrune reports whether a directory with the provided basename is pruned
// entirely. Exclusion is exact string equality at any depth; the traversal
// root itself is never passed through this check.
func (policy *FilterPolicy) ShouldPrune(directoryBasename string) bool {
	_, excluded := policy.excludedDirectoryNames[directoryBasename]
	return excluded
}

// Decide evaluates the admission gates for a candidate, cheapest first:
// pattern match, size, readability, then the textual-content probe. The
// candidate's SizeBytes field is populated as a side effect of the size gate.
func (policy *FilterPolicy) Decide(candidate *types.Candidate) types.AdmissionDecision {
	if len(policy.includePatterns) > 0 && !policy.matchesAnyPattern(candidate.RelativePath) {
		return types.DecisionSkippedNoPatternMatch
	}

	// A failed stat counts as size zero: the file passes this gate and the
	// readability check below still protects against unreadable files.
	fileInformation, statError := os.Stat(candidate.AbsolutePath)
	if statError == nil {
		candidate.SizeBytes = fileInformation.Size()
	}
	if candidate.SizeBytes > policy.maxFileSizeBytes {
		return types.DecisionSkippedTooLarge
	}

	fileHandle, openError := os.Open(candidate.AbsolutePath)
	if openError != nil {
		return types.DecisionSkippedUnreadable
	}
	_ = fileHandle.Close()

	if !utils.IsFileTextual(candidate.AbsolutePath) {
		return types.DecisionSkippedBinary
	}

	return types.DecisionAdmitted
}

// matchesAnyPattern reports whether any include pattern matches the path.
func (policy *FilterPolicy) matchesAnyPattern(path string) bool {
	for _, compiledPattern := range policy.includePatterns {
		if compiledPattern.Matches(path) {
			return true
		}
	}
	return false
}
