// Package render turns an ordered list of admitted files into one delimited
// text block and computes a whitespace-token word count over the result.
package render

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/mcochner/codegrab/internal/services/stream"
	"github.com/mcochner/codegrab/internal/types"
)

const (
	blockSeparatorLine     = "-----------------------------------------"
	startOfFileLabelFormat = "  START OF FILE: %s"
	endOfFileLabelFormat   = "  END OF FILE: %s"

	warningRenderReadFormat = "rendering %s with empty content: %v"

	// defaultReadConcurrency bounds the worker pool used for file reads.
	defaultReadConcurrency = 8
)

// Renderer reads admitted files and produces the concatenated delimited text.
// Reads are spread across a bounded worker pool; results are assembled back
// into traversal order by index before concatenation, so the output is
// byte-identical to a sequential pass.
type Renderer struct {
	observer        stream.Observer
	readConcurrency int
}

// NewRenderer constructs a Renderer reporting recoverable failures to the
// provided observer. A nil observer disables observation.
func NewRenderer(observer stream.Observer) *Renderer {
	if observer == nil {
		observer = stream.NoopObserver{}
	}
	return &Renderer{observer: observer, readConcurrency: defaultReadConcurrency}
}

// Render produces the delimited text for the admitted candidates in their
// given order and returns it with the word count of the whole text. The input
// order is preserved exactly; a path appearing twice renders twice. A file
// that cannot be read renders with empty content and is reported as a
// warning, never aborting the remaining files.
func (renderer *Renderer) Render(admittedCandidates []*types.Candidate) (string, int) {
	fileContents := make([][]byte, len(admittedCandidates))
	readFailures := make([]error, len(admittedCandidates))

	readGroup := new(errgroup.Group)
	readGroup.SetLimit(renderer.readConcurrency)
	for candidateIndex, candidate := range admittedCandidates {
		candidateIndex, candidate := candidateIndex, candidate
		readGroup.Go(func() error {
			contentBytes, readError := os.ReadFile(candidate.AbsolutePath)
			if readError != nil {
				readFailures[candidateIndex] = readError
				return nil
			}
			fileContents[candidateIndex] = contentBytes
			return nil
		})
	}
	// Workers only record into their own index slot, so Wait cannot fail.
	_ = readGroup.Wait()

	var textBuilder strings.Builder
	for candidateIndex, candidate := range admittedCandidates {
		if readFailures[candidateIndex] != nil {
			renderer.observer.Observe(stream.Event{
				Kind:    stream.EventKindWarning,
				Path:    candidate.RelativePath,
				Message: fmt.Sprintf(warningRenderReadFormat, candidate.RelativePath, readFailures[candidateIndex]),
			})
		}
		writeRenderedBlock(&textBuilder, candidate.RelativePath, fileContents[candidateIndex])
	}

	renderedText := textBuilder.String()
	return renderedText, CountWords(renderedText)
}

// writeRenderedBlock appends one file's delimited header, content, and footer.
func writeRenderedBlock(textBuilder *strings.Builder, displayPath string, contentBytes []byte) {
	textBuilder.WriteString(blockSeparatorLine)
	textBuilder.WriteString("\n")
	textBuilder.WriteString(fmt.Sprintf(startOfFileLabelFormat, displayPath))
	textBuilder.WriteString("\n")
	textBuilder.WriteString(blockSeparatorLine)
	textBuilder.WriteString("\n")
	textBuilder.Write(contentBytes)
	if len(contentBytes) > 0 && contentBytes[len(contentBytes)-1] != '\n' {
		textBuilder.WriteString("\n")
	}
	textBuilder.WriteString(blockSeparatorLine)
	textBuilder.WriteString("\n")
	textBuilder.WriteString(fmt.Sprintf(endOfFileLabelFormat, displayPath))
	textBuilder.WriteString("\n")
	textBuilder.WriteString(blockSeparatorLine)
	textBuilder.WriteString("\n")
}

// CountWords returns the number of whitespace-delimited tokens in text.
func CountWords(text string) int {
	wordCount := 0
	insideWord := false
	for _, currentRune := range text {
		if unicode.IsSpace(currentRune) {
			insideWord = false
			continue
		}
		if !insideWord {
			wordCount++
			insideWord = true
		}
	}
	return wordCount
}
