// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcochner/codegrab/internal/config"
	"github.com/mcochner/codegrab/internal/selection"
	"github.com/mcochner/codegrab/internal/services/clipboard"
	"github.com/mcochner/codegrab/internal/services/stream"
	"github.com/mcochner/codegrab/internal/sink"
	"github.com/mcochner/codegrab/internal/tokenizer"
	"github.com/mcochner/codegrab/internal/types"
	"github.com/mcochner/codegrab/internal/utils"
)

const (
	rootUse              = "codegrab"
	rootShortDescription = "codegrab command line interface"
	rootLongDescription  = `codegrab walks a directory tree, selects the relevant source files, and
renders their contents as one concatenated, delimited block of text.
The result goes to standard output by default; use --copy for the system
clipboard or --save for a timestamped scratch file.`

	grabUse              = "grab [path]"
	grabAlias            = "g"
	grabShortDescription = "render selected files as one text block (" + grabAlias + ")"
	grabLongDescription  = `Select files under the given path (default ".") and render them as a
single delimited text block.
Directories whose basename is in the exclusion set are pruned entirely.
Files are further gated by include patterns, size, readability, and a
textual-content probe, in that order.`
	grabUsageExample = `  # Dump the current project to stdout
  codegrab grab

  # Copy only markdown files to the clipboard
  codegrab grab --copy -i '*.md' .

  # Save to a scratch file, excluding the build tree
  codegrab grab --save -e build -e .git ./service`

	listUse              = "list [path]"
	listAlias            = "ls"
	listShortDescription = "list candidates and their admission decisions (" + listAlias + ")"
	listLongDescription  = `Run the same selection as grab but print one line per candidate with its
admission decision instead of rendering file contents.
With --verbose, pruned directories are listed as well.`
	listUsageExample = `  # Show which files would be included and why others are skipped
  codegrab list .

  # Include pruned directories in the listing
  codegrab list --verbose ./service`

	excludeDirFlagName    = "exclude-dir"
	excludeDirFlagShort   = "e"
	includeFlagName       = "include"
	includeFlagShort      = "i"
	maxSizeFlagName       = "max-size"
	copyFlagName          = "copy"
	saveFlagName          = "save"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	verboseFlagName       = "verbose"
	versionFlagName       = "version"
	versionTemplate       = "codegrab version: %s\n"
	defaultPath           = "."
	defaultTokenizerModel = "gpt-4o"

	excludeDirFlagDescription = "directory basename to prune (replaces the default set)"
	includeFlagDescription    = "glob pattern a file path must match to be admitted"
	maxSizeFlagDescription    = "maximum admitted file size in bytes"
	copyFlagDescription       = "copy the rendered text to the system clipboard"
	saveFlagDescription       = "save the rendered text to a timestamped scratch file"
	tokensFlagDescription     = "include a token estimate for the rendered text"
	modelFlagDescription      = "tokenizer model used for the token estimate"
	verboseFlagDescription    = "log pruned directories and per-file decisions"
	versionFlagDescription    = "display application version"

	summaryLineFormat      = "%d files, %s, %d words\n"
	summaryTokensFormat    = "%d tokens (%s)\n"
	deliveredLineFormat    = "delivered to %s\n"
	deliveryFailedFormat   = "delivery failed: %v\n"
	listDecisionLineFormat = "%-26s %s\n"
	listPrunedLineFormat   = "%-26s %s\n"
	listPrunedLabel        = "pruned_directory"
	listDetailSuffixFormat = " (%s)"

	errorAllDeliveriesFormat = "delivering rendered text: %w"
)

// Execute runs the codegrab application.
func Execute() error {
	rootCommand := createRootCommand()
	rootCommand.SetArgs(normalizeCopyFlagArguments(os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createGrabCommand(),
		createListCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// selectionOptions stores the flag values shared by grab and list.
type selectionOptions struct {
	excludeDirectoryNames []string
	includePatterns       []string
	maxFileSizeBytes      int64
	verbose               bool
}

// addSelectionFlags registers the shared selection flags on the command.
func addSelectionFlags(command *cobra.Command, options *selectionOptions) {
	command.Flags().StringArrayVarP(&options.excludeDirectoryNames, excludeDirFlagName, excludeDirFlagShort, nil, excludeDirFlagDescription)
	command.Flags().StringArrayVarP(&options.includePatterns, includeFlagName, includeFlagShort, nil, includeFlagDescription)
	command.Flags().Int64Var(&options.maxFileSizeBytes, maxSizeFlagName, config.DefaultMaxFileSizeBytes, maxSizeFlagDescription)
	command.Flags().BoolVar(&options.verbose, verboseFlagName, false, verboseFlagDescription)
}

// buildConfiguration resolves defaults, environment overrides, and flags into
// the final selection configuration, in that precedence order.
func buildConfiguration(command *cobra.Command, rootDirectory string, options selectionOptions) (config.Configuration, error) {
	environmentOverrides, environmentError := config.LoadEnvironmentOverrides()
	if environmentError != nil {
		return config.Configuration{}, environmentError
	}
	configuration := config.Default(rootDirectory).ApplyEnvironment(environmentOverrides)
	if command.Flags().Changed(excludeDirFlagName) {
		configuration.ExcludeDirectoryNames = options.excludeDirectoryNames
	}
	if len(options.includePatterns) > 0 {
		configuration.IncludePatterns = options.includePatterns
	}
	if command.Flags().Changed(maxSizeFlagName) {
		configuration.MaxFileSizeBytes = options.maxFileSizeBytes
	}
	return configuration, nil
}

// createGrabCommand returns the grab subcommand.
func createGrabCommand() *cobra.Command {
	var options selectionOptions
	var copyToClipboard bool
	var saveToScratchFile bool
	var tokensEnabled bool
	var tokenizerModel string = defaultTokenizerModel

	grabCommand := &cobra.Command{
		Use:     grabUse,
		Aliases: []string{grabAlias},
		Short:   grabShortDescription,
		Long:    grabLongDescription,
		Example: grabUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootDirectory := defaultPath
			if len(arguments) == 1 {
				rootDirectory = arguments[0]
			}
			configuration, configurationError := buildConfiguration(command, rootDirectory, options)
			if configurationError != nil {
				return configurationError
			}

			observer, observerCleanup, observerError := buildObserver(options.verbose)
			if observerError != nil {
				return observerError
			}
			defer observerCleanup()

			engine := selection.NewEngine(configuration, observer)
			if tokensEnabled {
				tokenCounter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: tokenizerModel})
				if counterError != nil {
					return counterError
				}
				engine = engine.WithTokenCounter(tokenCounter, resolvedModel)
			}

			result, selectionError := engine.Select()
			if selectionError != nil {
				return selectionError
			}

			deliveryError := deliverResult(result, configuration, copyToClipboard, saveToScratchFile)
			printSummary(result)
			if deliveryError != nil {
				return fmt.Errorf(errorAllDeliveriesFormat, deliveryError)
			}
			return nil
		},
	}

	addSelectionFlags(grabCommand, &options)
	registerCopyFlag(grabCommand.Flags(), &copyToClipboard)
	grabCommand.Flags().BoolVar(&saveToScratchFile, saveFlagName, false, saveFlagDescription)
	grabCommand.Flags().BoolVar(&tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	grabCommand.Flags().StringVar(&tokenizerModel, modelFlagName, defaultTokenizerModel, modelFlagDescription)
	return grabCommand
}

// createListCommand returns the list subcommand.
func createListCommand() *cobra.Command {
	var options selectionOptions

	listCommand := &cobra.Command{
		Use:     listUse,
		Aliases: []string{listAlias},
		Short:   listShortDescription,
		Long:    listLongDescription,
		Example: listUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootDirectory := defaultPath
			if len(arguments) == 1 {
				rootDirectory = arguments[0]
			}
			configuration, configurationError := buildConfiguration(command, rootDirectory, options)
			if configurationError != nil {
				return configurationError
			}

			collector := &stream.CollectingObserver{}
			engine := selection.NewEngine(configuration, collector)
			result, selectionError := engine.Select()
			if selectionError != nil {
				return selectionError
			}

			printDecisionListing(command.OutOrStdout(), collector.Events, options.verbose)
			fmt.Fprintf(os.Stderr, summaryLineFormat, len(result.Files), utils.FormatFileSize(result.TotalSizeBytes), result.WordCount)
			return nil
		},
	}

	addSelectionFlags(listCommand, &options)
	return listCommand
}

// buildObserver returns the observer matching the verbosity setting along with
// a cleanup function flushing any buffered log output.
func buildObserver(verbose bool) (stream.Observer, func(), error) {
	if !verbose {
		return stream.NoopObserver{}, func() {}, nil
	}
	loggerInstance, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		return nil, nil, fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	return stream.NewLoggerObserver(loggerInstance), func() { _ = loggerInstance.Sync() }, nil
}

// deliverResult routes the rendered text to the requested sinks. When neither
// clipboard nor scratch file is requested the text goes to standard output.
// Every requested sink is attempted; the first failure is returned after all
// attempts complete.
func deliverResult(result types.SelectionResult, configuration config.Configuration, copyToClipboard bool, saveToScratchFile bool) error {
	var requestedSinks []sink.Sink
	if copyToClipboard {
		requestedSinks = append(requestedSinks, sink.NewClipboardSink(clipboard.NewSystemCopier()))
	}
	if saveToScratchFile {
		requestedSinks = append(requestedSinks, sink.NewScratchFileSink(configuration.ScratchDirectory))
	}
	if len(requestedSinks) == 0 {
		requestedSinks = append(requestedSinks, sink.NewWriterSink(os.Stdout))
	}

	var firstDeliveryError error
	for _, requestedSink := range requestedSinks {
		destination, deliveryError := requestedSink.Deliver(result.Text)
		if deliveryError != nil {
			fmt.Fprintf(os.Stderr, deliveryFailedFormat, deliveryError)
			if firstDeliveryError == nil {
				firstDeliveryError = deliveryError
			}
			continue
		}
		fmt.Fprintf(os.Stderr, deliveredLineFormat, destination)
	}
	return firstDeliveryError
}

// printSummary reports aggregate selection figures on standard error so they
// never mix with rendered text on standard output.
func printSummary(result types.SelectionResult) {
	fmt.Fprintf(os.Stderr, summaryLineFormat, len(result.Files), utils.FormatFileSize(result.TotalSizeBytes), result.WordCount)
	if result.TokenCount > 0 {
		fmt.Fprintf(os.Stderr, summaryTokensFormat, result.TokenCount, result.TokenModel)
	}
}

// printDecisionListing writes one line per observed candidate decision.
func printDecisionListing(outputWriter io.Writer, events []stream.Event, includePruned bool) {
	for _, event := range events {
		switch event.Kind {
		case stream.EventKindAdmittedFile, stream.EventKindSkippedFile:
			detail := ""
			if event.Message != "" {
				detail = fmt.Sprintf(listDetailSuffixFormat, event.Message)
			}
			fmt.Fprintf(outputWriter, listDecisionLineFormat, string(event.Decision), event.Path+detail)
		case stream.EventKindPrunedDirectory:
			if includePruned {
				fmt.Fprintf(outputWriter, listPrunedLineFormat, listPrunedLabel, event.Path)
			}
		}
	}
}
