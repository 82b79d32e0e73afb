// Package config constructs and validates the immutable selection
// configuration. Values are resolved once per invocation from defaults,
// environment overrides, and command-line flags, then passed into the engine;
// no ambient globals are consulted afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultMaxFileSizeBytes is the admission threshold applied when no override is present.
	DefaultMaxFileSizeBytes int64 = 1_048_576

	// environmentPrefix namespaces every environment variable read by the tool.
	environmentPrefix = "CODEGRAB"
	// excludeDirectoriesEnvironmentKey overrides the excluded directory basenames as a colon-separated list.
	excludeDirectoriesEnvironmentKey = "EXCLUDE_DIRS"
	// maxFileSizeEnvironmentKey overrides the maximum admitted file size in bytes.
	maxFileSizeEnvironmentKey = "MAX_FILE_SIZE"
	// scratchDirectoryEnvironmentKey overrides the directory receiving scratch output files.
	scratchDirectoryEnvironmentKey = "SCRATCH_DIR"

	// excludeListSeparator separates basenames in the exclusion list override.
	excludeListSeparator = ":"

	errorMalformedSizeFormat  = "malformed %s_%s value %q: %w"
	errorRootMissingFormat    = "root directory %s does not exist"
	errorRootStatFormat       = "unable to inspect root directory %s: %w"
	errorRootNotDirectory     = "root path %s is not a directory"
	errorNegativeSizeFormat   = "maximum file size must not be negative, got %d"
	errorEmptyRootMessage     = "root directory must not be empty"
	errorAbsoluteRootFormat   = "resolving absolute path for %s: %w"
	errorScratchStatFormat    = "unable to inspect scratch directory %s: %w"
	errorScratchNotDirFormat  = "scratch path %s is not a directory"
)

// DefaultExcludeDirectoryNames returns the directory basenames pruned when no
// override is supplied.
func DefaultExcludeDirectoryNames() []string {
	return []string{"cmake-build-debug", "cmake-build-release", ".idea", ".git"}
}

// Configuration is the immutable input of one selection run.
//
// ExcludeDirectoryNames are directory basenames pruned entirely during
// traversal; they are compared with exact string equality, never globbed.
// IncludePatterns are glob expressions evaluated against each candidate's
// full path; when the sequence is empty every file not under an excluded
// directory is a candidate. MaxFileSizeBytes is a hard admission gate: files
// strictly larger are skipped.
type Configuration struct {
	RootDirectory         string
	ExcludeDirectoryNames []string
	IncludePatterns       []string
	MaxFileSizeBytes      int64
	ScratchDirectory      string
}

// Default returns a Configuration carrying the documented defaults for the
// provided root directory.
func Default(rootDirectory string) Configuration {
	return Configuration{
		RootDirectory:         rootDirectory,
		ExcludeDirectoryNames: DefaultExcludeDirectoryNames(),
		IncludePatterns:       nil,
		MaxFileSizeBytes:      DefaultMaxFileSizeBytes,
		ScratchDirectory:      os.TempDir(),
	}
}

// EnvironmentOverrides captures the optional environment-provided settings.
// Nil or empty fields leave the corresponding Configuration value untouched.
type EnvironmentOverrides struct {
	ExcludeDirectoryNames []string
	MaxFileSizeBytes      *int64
	ScratchDirectory      string
}

// LoadEnvironmentOverrides reads the recognized CODEGRAB_* environment
// variables. A malformed numeric value is a fatal configuration error.
func LoadEnvironmentOverrides() (EnvironmentOverrides, error) {
	environmentReader := viper.New()
	environmentReader.SetEnvPrefix(environmentPrefix)
	environmentReader.AutomaticEnv()

	var overrides EnvironmentOverrides

	if rawExcludeList := environmentReader.GetString(excludeDirectoriesEnvironmentKey); rawExcludeList != "" {
		overrides.ExcludeDirectoryNames = SplitExcludeList(rawExcludeList)
	}

	if rawMaximumSize := environmentReader.GetString(maxFileSizeEnvironmentKey); rawMaximumSize != "" {
		parsedSize, parseError := strconv.ParseInt(strings.TrimSpace(rawMaximumSize), 10, 64)
		if parseError != nil {
			return EnvironmentOverrides{}, fmt.Errorf(errorMalformedSizeFormat, environmentPrefix, maxFileSizeEnvironmentKey, rawMaximumSize, parseError)
		}
		overrides.MaxFileSizeBytes = &parsedSize
	}

	overrides.ScratchDirectory = environmentReader.GetString(scratchDirectoryEnvironmentKey)

	return overrides, nil
}

// SplitExcludeList parses a colon-separated basename list, dropping empty and
// whitespace-only entries.
func SplitExcludeList(rawList string) []string {
	var names []string
	for _, entry := range strings.Split(rawList, excludeListSeparator) {
		trimmedEntry := strings.TrimSpace(entry)
		if trimmedEntry == "" {
			continue
		}
		names = append(names, trimmedEntry)
	}
	return names
}

// ApplyEnvironment overlays the provided overrides onto the receiver and
// returns the combined configuration.
func (configuration Configuration) ApplyEnvironment(overrides EnvironmentOverrides) Configuration {
	result := configuration
	if len(overrides.ExcludeDirectoryNames) > 0 {
		result.ExcludeDirectoryNames = append([]string{}, overrides.ExcludeDirectoryNames...)
	}
	if overrides.MaxFileSizeBytes != nil {
		result.MaxFileSizeBytes = *overrides.MaxFileSizeBytes
	}
	if overrides.ScratchDirectory != "" {
		result.ScratchDirectory = overrides.ScratchDirectory
	}
	return result
}

// Validate confirms the configuration can start a traversal. Failures here are
// fatal: they abort the invocation before any directory is opened.
func (configuration Configuration) Validate() error {
	if configuration.RootDirectory == "" {
		return fmt.Errorf(errorEmptyRootMessage)
	}
	rootInformation, statError := os.Stat(configuration.RootDirectory)
	if statError != nil {
		if os.IsNotExist(statError) {
			return fmt.Errorf(errorRootMissingFormat, configuration.RootDirectory)
		}
		return fmt.Errorf(errorRootStatFormat, configuration.RootDirectory, statError)
	}
	if !rootInformation.IsDir() {
		return fmt.Errorf(errorRootNotDirectory, configuration.RootDirectory)
	}
	if configuration.MaxFileSizeBytes < 0 {
		return fmt.Errorf(errorNegativeSizeFormat, configuration.MaxFileSizeBytes)
	}
	if configuration.ScratchDirectory != "" {
		scratchInformation, scratchStatError := os.Stat(configuration.ScratchDirectory)
		if scratchStatError != nil {
			if os.IsNotExist(scratchStatError) {
				return nil
			}
			return fmt.Errorf(errorScratchStatFormat, configuration.ScratchDirectory, scratchStatError)
		}
		if !scratchInformation.IsDir() {
			return fmt.Errorf(errorScratchNotDirFormat, configuration.ScratchDirectory)
		}
	}
	return nil
}

// NormalizeRoot resolves the configured root to a cleaned absolute path.
func (configuration Configuration) NormalizeRoot() (string, error) {
	absoluteRoot, absoluteError := filepath.Abs(configuration.RootDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf(errorAbsoluteRootFormat, configuration.RootDirectory, absoluteError)
	}
	return filepath.Clean(absoluteRoot), nil
}
