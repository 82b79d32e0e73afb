package render_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcochner/codegrab/internal/render"
	"github.com/mcochner/codegrab/internal/services/stream"
	"github.com/mcochner/codegrab/internal/types"
)

func writeRenderFixture(t *testing.T, directory string, name string, content string) *types.Candidate {
	t.Helper()
	filePath := filepath.Join(directory, name)
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		t.Fatalf("writing fixture %s: %v", name, writeError)
	}
	return &types.Candidate{AbsolutePath: filePath, RelativePath: name}
}

func TestRenderBlockLayout(t *testing.T) {
	temporaryDirectory := t.TempDir()
	candidate := writeRenderFixture(t, temporaryDirectory, "hello.txt", "first line\nsecond line\n")

	renderedText, wordCount := render.NewRenderer(nil).Render([]*types.Candidate{candidate})

	expectedText := strings.Join([]string{
		"-----------------------------------------",
		"  START OF FILE: hello.txt",
		"-----------------------------------------",
		"first line",
		"second line",
		"-----------------------------------------",
		"  END OF FILE: hello.txt",
		"-----------------------------------------",
		"",
	}, "\n")
	if renderedText != expectedText {
		t.Fatalf("unexpected rendered text:\n%q\nexpected:\n%q", renderedText, expectedText)
	}
	if wordCount != render.CountWords(renderedText) {
		t.Fatalf("word count mismatch: %d vs %d", wordCount, render.CountWords(renderedText))
	}
}

func TestRenderPreservesInputOrderAndDuplicates(t *testing.T) {
	temporaryDirectory := t.TempDir()
	firstCandidate := writeRenderFixture(t, temporaryDirectory, "first.txt", "one\n")
	secondCandidate := writeRenderFixture(t, temporaryDirectory, "second.txt", "two\n")

	// A duplicated path renders twice; the renderer never deduplicates.
	renderedText, _ := render.NewRenderer(nil).Render([]*types.Candidate{secondCandidate, firstCandidate, secondCandidate})

	firstOffset := strings.Index(renderedText, "  START OF FILE: second.txt")
	middleOffset := strings.Index(renderedText, "  START OF FILE: first.txt")
	lastOffset := strings.LastIndex(renderedText, "  START OF FILE: second.txt")
	if !(firstOffset >= 0 && middleOffset > firstOffset && lastOffset > middleOffset) {
		t.Fatalf("blocks out of order: %d, %d, %d\n%s", firstOffset, middleOffset, lastOffset, renderedText)
	}
	if strings.Count(renderedText, "  START OF FILE: second.txt") != 2 {
		t.Fatalf("duplicated candidate must render twice")
	}
}

func TestRenderToleratesVanishedFile(t *testing.T) {
	temporaryDirectory := t.TempDir()
	survivingCandidate := writeRenderFixture(t, temporaryDirectory, "alive.txt", "still here\n")
	vanishedCandidate := &types.Candidate{
		AbsolutePath: filepath.Join(temporaryDirectory, "gone.txt"),
		RelativePath: "gone.txt",
	}

	collector := &stream.CollectingObserver{}
	renderedText, _ := render.NewRenderer(collector).Render([]*types.Candidate{vanishedCandidate, survivingCandidate})

	if !strings.Contains(renderedText, "  START OF FILE: gone.txt") {
		t.Fatalf("vanished file must still be framed in the output")
	}
	if !strings.Contains(renderedText, "still here") {
		t.Fatalf("surviving file content missing; one bad file must not abort the render")
	}

	warningSeen := false
	for _, event := range collector.Events {
		if event.Kind == stream.EventKindWarning && event.Path == "gone.txt" {
			warningSeen = true
		}
	}
	if !warningSeen {
		t.Fatalf("expected a warning event for the vanished file")
	}
}

func TestRenderEmptyInput(t *testing.T) {
	renderedText, wordCount := render.NewRenderer(nil).Render(nil)
	if renderedText != "" {
		t.Fatalf("expected empty text, got %q", renderedText)
	}
	if wordCount != 0 {
		t.Fatalf("expected zero words, got %d", wordCount)
	}
}

func TestCountWords(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "empty", text: "", expected: 0},
		{name: "only whitespace", text: " \n\t  ", expected: 0},
		{name: "single word", text: "hello", expected: 1},
		{name: "mixed whitespace runs", text: "one  two\tthree\nfour", expected: 4},
		{name: "leading and trailing space", text: "  padded  ", expected: 1},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := render.CountWords(testCase.text); actual != testCase.expected {
				t.Fatalf("CountWords(%q): expected %d, got %d", testCase.text, testCase.expected, actual)
			}
		})
	}
}
