// Package sink delivers rendered selections to their destinations. Delivery is
// separated from selection: a sink failure never invalidates the computed
// result, and each requested sink is attempted independently.
package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mcochner/codegrab/internal/services/clipboard"
)

const (
	scratchFileNameFormat  = "codegrab-%s.txt"
	scratchTimestampLayout = "20060102-150405"
	scratchFileMode        = 0o600
	scratchDirectoryMode   = 0o755

	clipboardDestination = "system clipboard"
	stdoutDestination    = "standard output"

	errorClipboardFormat        = "copying to clipboard: %w"
	errorScratchDirectoryFormat = "creating scratch directory %s: %w"
	errorScratchWriteFormat     = "writing scratch file %s: %w"
	errorStdoutWriteFormat      = "writing to output stream: %w"
)

// Sink consumes a rendered selection and returns a human-readable description
// of where it was delivered.
type Sink interface {
	Deliver(text string) (string, error)
}

// ClipboardSink delivers text to the system clipboard.
type ClipboardSink struct {
	copier clipboard.Copier
}

// NewClipboardSink constructs a ClipboardSink over the provided copier.
func NewClipboardSink(copier clipboard.Copier) *ClipboardSink {
	return &ClipboardSink{copier: copier}
}

// Deliver copies text to the clipboard. It fails when the host exposes no
// clipboard mechanism.
func (sink *ClipboardSink) Deliver(text string) (string, error) {
	if copyError := sink.copier.Copy(text); copyError != nil {
		return "", fmt.Errorf(errorClipboardFormat, copyError)
	}
	return clipboardDestination, nil
}

// ScratchFileSink writes text to a timestamped file in a scratch directory.
type ScratchFileSink struct {
	directory string
	now       func() time.Time
}

// NewScratchFileSink constructs a ScratchFileSink targeting directory. An
// empty directory falls back to the system temporary directory.
func NewScratchFileSink(directory string) *ScratchFileSink {
	if directory == "" {
		directory = os.TempDir()
	}
	return &ScratchFileSink{directory: directory, now: time.Now}
}

// Deliver writes text to a new timestamped file and returns its path.
func (sink *ScratchFileSink) Deliver(text string) (string, error) {
	if mkdirError := os.MkdirAll(sink.directory, scratchDirectoryMode); mkdirError != nil {
		return "", fmt.Errorf(errorScratchDirectoryFormat, sink.directory, mkdirError)
	}
	scratchFileName := fmt.Sprintf(scratchFileNameFormat, sink.now().Format(scratchTimestampLayout))
	scratchFilePath := filepath.Join(sink.directory, scratchFileName)
	if writeError := os.WriteFile(scratchFilePath, []byte(text), scratchFileMode); writeError != nil {
		return "", fmt.Errorf(errorScratchWriteFormat, scratchFilePath, writeError)
	}
	return scratchFilePath, nil
}

// WriterSink streams text to an io.Writer, typically standard output.
type WriterSink struct {
	writer io.Writer
}

// NewWriterSink constructs a WriterSink around writer.
func NewWriterSink(writer io.Writer) *WriterSink {
	return &WriterSink{writer: writer}
}

// Deliver writes text to the wrapped writer.
func (sink *WriterSink) Deliver(text string) (string, error) {
	if _, writeError := io.WriteString(sink.writer, text); writeError != nil {
		return "", fmt.Errorf(errorStdoutWriteFormat, writeError)
	}
	return stdoutDestination, nil
}

var (
	_ Sink = (*ClipboardSink)(nil)
	_ Sink = (*ScratchFileSink)(nil)
	_ Sink = (*WriterSink)(nil)
)
