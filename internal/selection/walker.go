package selection

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/mcochner/codegrab/internal/services/stream"
	"github.com/mcochner/codegrab/internal/types"
)

const (
	warningUnreadableDirectoryFormat = "skipping unreadable directory %s: %v"
	errorReadRootFormat              = "reading root directory %s: %w"
)

// TreeWalker performs a depth-first pre-order traversal of a directory tree,
// pruning excluded subtrees before they are opened and yielding regular files
// as candidates. Directory entries are visited in lexicographic basename
// order, so discovery order is deterministic across platforms. Symbolic links
// are not followed: a symlink is yielded neither as a file nor as a directory.
type TreeWalker struct {
	policy   *FilterPolicy
	observer stream.Observer
}

// NewTreeWalker constructs a walker around the provided policy and observer.
// A nil observer disables observation.
func NewTreeWalker(policy *FilterPolicy, observer stream.Observer) *TreeWalker {
	if observer == nil {
		observer = stream.NoopObserver{}
	}
	return &TreeWalker{policy: policy, observer: observer}
}

// Walk traverses rootDirectory and invokes visit once per discovered
// candidate, in discovery order. The root is opened unconditionally, even if
// its own basename appears in the exclusion set; a failure to read the root
// is the only fatal condition. Unreadable nested directories are skipped with
// a warning event, equivalent to pruning.
func (walker *TreeWalker) Walk(rootDirectory string, visit func(candidate *types.Candidate)) error {
	return walker.walkDirectory(rootDirectory, "", true, visit)
}

// walkDirectory recurses into directoryPath. relativePrefix is the
// slash-separated path of directoryPath from the root, empty at the root.
func (walker *TreeWalker) walkDirectory(directoryPath string, relativePrefix string, isRoot bool, visit func(candidate *types.Candidate)) error {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		if isRoot {
			return fmt.Errorf(errorReadRootFormat, directoryPath, readError)
		}
		walker.observer.Observe(stream.Event{
			Kind:    stream.EventKindWarning,
			Path:    directoryPath,
			Message: fmt.Sprintf(warningUnreadableDirectoryFormat, directoryPath, readError),
		})
		return nil
	}

	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		entryPath := filepath.Join(directoryPath, entryName)
		entryRelativePath := path.Join(relativePrefix, entryName)

		if directoryEntry.IsDir() {
			if walker.policy.ShouldPrune(entryName) {
				walker.observer.Observe(stream.Event{
					Kind: stream.EventKindPrunedDirectory,
					Path: entryRelativePath,
				})
				continue
			}
			if walkError := walker.walkDirectory(entryPath, entryRelativePath, false, visit); walkError != nil {
				return walkError
			}
			continue
		}

		if !directoryEntry.Type().IsRegular() {
			continue
		}

		visit(&types.Candidate{
			AbsolutePath: entryPath,
			RelativePath: entryRelativePath,
		})
	}

	return nil
}
