// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// SystemCopier implements Copier using github.com/atotto/clipboard.
type SystemCopier struct{}

// NewSystemCopier constructs the platform clipboard implementation.
func NewSystemCopier() *SystemCopier {
	return &SystemCopier{}
}

// Copy writes text to the system clipboard. It fails when no clipboard
// mechanism is available on the host.
func (copier *SystemCopier) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ Copier = (*SystemCopier)(nil)
