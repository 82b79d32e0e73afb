package selection

import (
	"fmt"

	"github.com/mcochner/codegrab/internal/config"
	"github.com/mcochner/codegrab/internal/render"
	"github.com/mcochner/codegrab/internal/services/stream"
	"github.com/mcochner/codegrab/internal/tokenizer"
	"github.com/mcochner/codegrab/internal/types"
	"github.com/mcochner/codegrab/internal/utils"
)

const (
	skippedBinaryMessageFormat    = "binary content (%s)"
	warningTokenCountFormat       = "failed to count tokens for rendered text: %v"
	errorInvalidConfigurationFormat = "invalid configuration: %w"
)

// Engine wires the tree walker, the filter policy, and the renderer into one
// pure, single-pass pipeline: traversal, decision, render, return. Recoverable
// conditions surface as events and decisions; only a missing or unreadable
// root is fatal.
type Engine struct {
	configuration config.Configuration
	observer      stream.Observer
	tokenCounter  tokenizer.Counter
	tokenModel    string
}

// NewEngine constructs an Engine for the provided configuration. A nil
// observer disables observation.
func NewEngine(configuration config.Configuration, observer stream.Observer) *Engine {
	if observer == nil {
		observer = stream.NoopObserver{}
	}
	return &Engine{configuration: configuration, observer: observer}
}

// WithTokenCounter enables a token estimate over the rendered text.
func (engine *Engine) WithTokenCounter(counter tokenizer.Counter, model string) *Engine {
	engine.tokenCounter = counter
	engine.tokenModel = model
	return engine
}

// Select performs one complete selection pass and returns its result. Running
// Select twice over an unchanged tree yields identical ordered file lists and
// identical rendered text.
func (engine *Engine) Select() (types.SelectionResult, error) {
	if validationError := engine.configuration.Validate(); validationError != nil {
		return types.SelectionResult{}, fmt.Errorf(errorInvalidConfigurationFormat, validationError)
	}
	normalizedRoot, normalizeError := engine.configuration.NormalizeRoot()
	if normalizeError != nil {
		return types.SelectionResult{}, normalizeError
	}

	policy := NewFilterPolicy(engine.configuration)
	walker := NewTreeWalker(policy, engine.observer)

	var admittedCandidates []*types.Candidate
	var totalSizeBytes int64

	walkError := walker.Walk(normalizedRoot, func(candidate *types.Candidate) {
		decision := policy.Decide(candidate)
		if decision != types.DecisionAdmitted {
			engine.observer.Observe(stream.Event{
				Kind:     stream.EventKindSkippedFile,
				Path:     candidate.RelativePath,
				Decision: decision,
				Message:  skippedFileMessage(candidate, decision),
			})
			return
		}
		engine.observer.Observe(stream.Event{
			Kind:     stream.EventKindAdmittedFile,
			Path:     candidate.RelativePath,
			Decision: decision,
		})
		admittedCandidates = append(admittedCandidates, candidate)
		totalSizeBytes += candidate.SizeBytes
	})
	if walkError != nil {
		return types.SelectionResult{}, walkError
	}

	renderer := render.NewRenderer(engine.observer)
	renderedText, wordCount := renderer.Render(admittedCandidates)

	result := types.SelectionResult{
		Files:          make([]string, 0, len(admittedCandidates)),
		Text:           renderedText,
		WordCount:      wordCount,
		TotalSizeBytes: totalSizeBytes,
	}
	for _, candidate := range admittedCandidates {
		result.Files = append(result.Files, candidate.RelativePath)
	}

	if engine.tokenCounter != nil {
		countResult, countError := tokenizer.CountText(engine.tokenCounter, renderedText)
		if countError != nil {
			engine.observer.Observe(stream.Event{
				Kind:    stream.EventKindWarning,
				Message: fmt.Sprintf(warningTokenCountFormat, countError),
			})
		} else if countResult.Counted {
			result.TokenCount = countResult.Tokens
			result.TokenModel = engine.tokenModel
		}
	}

	return result, nil
}

// skippedFileMessage builds the human-readable detail attached to a skip event.
func skippedFileMessage(candidate *types.Candidate, decision types.AdmissionDecision) string {
	switch decision {
	case types.DecisionSkippedTooLarge:
		return utils.FormatFileSize(candidate.SizeBytes)
	case types.DecisionSkippedBinary:
		return fmt.Sprintf(skippedBinaryMessageFormat, utils.DetectMimeType(candidate.AbsolutePath))
	default:
		return ""
	}
}
