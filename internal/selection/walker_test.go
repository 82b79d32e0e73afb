package selection_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mcochner/codegrab/internal/config"
	"github.com/mcochner/codegrab/internal/selection"
	"github.com/mcochner/codegrab/internal/services/stream"
	"github.com/mcochner/codegrab/internal/types"
)

// buildFixtureTree creates the named files (slash-separated relative paths)
// under a fresh temporary root and returns the root.
func buildFixtureTree(t *testing.T, relativePaths []string) string {
	t.Helper()
	rootDirectory := t.TempDir()
	for _, relativePath := range relativePaths {
		fullPath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
		if mkdirError := os.MkdirAll(filepath.Dir(fullPath), 0o755); mkdirError != nil {
			t.Fatalf("creating directories for %s: %v", relativePath, mkdirError)
		}
		if writeError := os.WriteFile(fullPath, []byte("content of "+relativePath+"\n"), 0o644); writeError != nil {
			t.Fatalf("writing %s: %v", relativePath, writeError)
		}
	}
	return rootDirectory
}

// collectRelativePaths walks rootDirectory and returns the discovered
// candidates' relative paths in discovery order.
func collectRelativePaths(t *testing.T, rootDirectory string, configuration config.Configuration, observer stream.Observer) []string {
	t.Helper()
	policy := selection.NewFilterPolicy(configuration)
	walker := selection.NewTreeWalker(policy, observer)
	var discovered []string
	walkError := walker.Walk(rootDirectory, func(candidate *types.Candidate) {
		discovered = append(discovered, candidate.RelativePath)
	})
	if walkError != nil {
		t.Fatalf("Walk error: %v", walkError)
	}
	return discovered
}

func TestWalkPrunesExcludedDirectoriesAtAnyDepth(t *testing.T) {
	rootDirectory := buildFixtureTree(t, []string{
		"a.txt",
		".git/secret",
		"sub/b.md",
		"sub/.git/nested-secret",
		"sub/deep/.idea/workspace.xml",
	})
	configuration := config.Default(rootDirectory)

	collector := &stream.CollectingObserver{}
	discovered := collectRelativePaths(t, rootDirectory, configuration, collector)

	expected := []string{"a.txt", "sub/b.md"}
	if !reflect.DeepEqual(discovered, expected) {
		t.Fatalf("expected %v, got %v", expected, discovered)
	}

	prunedPaths := map[string]bool{}
	for _, event := range collector.Events {
		if event.Kind == stream.EventKindPrunedDirectory {
			prunedPaths[event.Path] = true
		}
	}
	for _, expectedPruned := range []string{".git", "sub/.git", "sub/deep/.idea"} {
		if !prunedPaths[expectedPruned] {
			t.Fatalf("expected pruned-directory event for %s, events: %v", expectedPruned, collector.Events)
		}
	}
}

func TestWalkYieldsLexicographicOrder(t *testing.T) {
	rootDirectory := buildFixtureTree(t, []string{
		"zeta.txt",
		"alpha.txt",
		"mid/inner.txt",
		"mid/another.txt",
		"beta/leaf.txt",
	})
	discovered := collectRelativePaths(t, rootDirectory, config.Default(rootDirectory), nil)

	expected := []string{
		"alpha.txt",
		"beta/leaf.txt",
		"mid/another.txt",
		"mid/inner.txt",
		"zeta.txt",
	}
	if !reflect.DeepEqual(discovered, expected) {
		t.Fatalf("expected pre-order lexicographic discovery %v, got %v", expected, discovered)
	}
}

func TestWalkSkipsSymbolicLinks(t *testing.T) {
	rootDirectory := buildFixtureTree(t, []string{"real.txt", "target/inside.txt"})
	if symlinkError := os.Symlink(filepath.Join(rootDirectory, "real.txt"), filepath.Join(rootDirectory, "link.txt")); symlinkError != nil {
		t.Skipf("symlinks not supported: %v", symlinkError)
	}
	if symlinkError := os.Symlink(filepath.Join(rootDirectory, "target"), filepath.Join(rootDirectory, "linkdir")); symlinkError != nil {
		t.Skipf("symlinks not supported: %v", symlinkError)
	}

	discovered := collectRelativePaths(t, rootDirectory, config.Default(rootDirectory), nil)
	expected := []string{"real.txt", "target/inside.txt"}
	if !reflect.DeepEqual(discovered, expected) {
		t.Fatalf("symlinks must be ignored, expected %v, got %v", expected, discovered)
	}
}

func TestWalkRootBasenameNeverPruned(t *testing.T) {
	parentDirectory := t.TempDir()
	rootDirectory := filepath.Join(parentDirectory, ".git")
	if mkdirError := os.MkdirAll(rootDirectory, 0o755); mkdirError != nil {
		t.Fatalf("creating root: %v", mkdirError)
	}
	if writeError := os.WriteFile(filepath.Join(rootDirectory, "inside.txt"), []byte("x"), 0o644); writeError != nil {
		t.Fatalf("writing file: %v", writeError)
	}

	discovered := collectRelativePaths(t, rootDirectory, config.Default(rootDirectory), nil)
	expected := []string{"inside.txt"}
	if !reflect.DeepEqual(discovered, expected) {
		t.Fatalf("root must be traversed despite its basename, expected %v, got %v", expected, discovered)
	}
}

func TestWalkSkipsUnreadableDirectoryNonFatally(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks are not enforceable when running as root")
	}
	rootDirectory := buildFixtureTree(t, []string{
		"locked/hidden.txt",
		"open/visible.txt",
	})
	lockedDirectory := filepath.Join(rootDirectory, "locked")
	if chmodError := os.Chmod(lockedDirectory, 0o000); chmodError != nil {
		t.Fatalf("chmod: %v", chmodError)
	}
	t.Cleanup(func() { _ = os.Chmod(lockedDirectory, 0o755) })

	collector := &stream.CollectingObserver{}
	discovered := collectRelativePaths(t, rootDirectory, config.Default(rootDirectory), collector)

	expected := []string{"open/visible.txt"}
	if !reflect.DeepEqual(discovered, expected) {
		t.Fatalf("siblings of an unreadable directory must still be processed, expected %v, got %v", expected, discovered)
	}

	warningSeen := false
	for _, event := range collector.Events {
		if event.Kind == stream.EventKindWarning {
			warningSeen = true
		}
	}
	if !warningSeen {
		t.Fatalf("expected a warning event for the unreadable directory")
	}
}

func TestWalkMissingRootIsFatal(t *testing.T) {
	policy := selection.NewFilterPolicy(config.Default("."))
	walker := selection.NewTreeWalker(policy, nil)
	walkError := walker.Walk(filepath.Join(t.TempDir(), "absent"), func(*types.Candidate) {})
	if walkError == nil {
		t.Fatalf("expected error for unreadable root")
	}
}
