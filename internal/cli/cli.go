// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/temirov/srcmap/internal/config"
	"github.com/temirov/srcmap/internal/report"
	"github.com/temirov/srcmap/internal/scan"
	"github.com/temirov/srcmap/internal/services/clipboard"
	"github.com/temirov/srcmap/internal/tokenizer"
	"github.com/temirov/srcmap/internal/utils"
)

const (
	rootFlagName        = "root"
	outputFlagName      = "output"
	projectNameFlagName = "project-name"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	clipboardFlagName   = "clipboard"
	configFlagName      = "config"
	versionFlagName     = "version"
	versionTemplate     = "srcmap version: %s\n"

	rootUse              = "srcmap"
	rootShortDescription = "srcmap generates a JSON report of a project's source tree"
	rootLongDescription  = `srcmap scans a project directory and writes a JSON report describing its
structure: a nested tree of files and directories with per-file sizes and
line counts, plus aggregate totals.
Without --root the project root is discovered by searching upward for a
conventional marker (pubspec.yaml, package.json, pyproject.toml, go.mod, .git).`
	rootUsageExample = `  # Scan the enclosing project and write the default report
  srcmap

  # Scan an explicit directory to an explicit location
  srcmap --root ./service --output ./service-map.json

  # Include token counts and copy the report to the clipboard
  srcmap --tokens --model gpt-4o --clipboard`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write a default ` + utils.ConfigFileName + ` configuration file.
Use --global to place it under the user configuration directory instead of
the working directory.`
	initGlobalFlagName    = "global"
	initForceFlagName     = "force"
	initGlobalDescription = "write the global configuration file"
	initForceDescription  = "overwrite an existing configuration file"
	initWrittenFormat     = "Configuration written to %s\n"

	rootFlagDescription        = "project root directory to scan"
	outputFlagDescription      = "report output path"
	projectNameFlagDescription = "project name recorded in the report"
	tokensFlagDescription      = "include token counts"
	modelFlagDescription       = "tokenizer model to use for token counting"
	clipboardFlagDescription   = "copy the rendered report to the clipboard"
	configFlagDescription      = "explicit configuration file path"
	versionFlagDescription     = "display application version"

	defaultTokenizerModelName = "gpt-4o"

	// defaultOutputRelativePath is the report location under the resolved root.
	defaultOutputRelativePath = "assets/data/source-tree.json"

	// workingDirectoryErrorFormat reports failure to determine the working directory.
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorEmptyTreeFormat reports a root that produced no tree at all.
	errorEmptyTreeFormat = "could not build a source tree for '%s'"
	// warningClipboardFormat reports a clipboard copy failure.
	warningClipboardFormat = "Warning: failed to copy report to clipboard: %v\n"
)

// scanOptions stores the effective configuration of a scan invocation.
type scanOptions struct {
	rootPath        string
	outputPath      string
	projectName     string
	tokensEnabled   bool
	tokenModel      string
	copyToClipboard bool
	configFilePath  string
}

// Execute runs the srcmap application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var options scanOptions
	options.tokenModel = defaultTokenizerModelName

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runScan(command, options)
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringVar(&options.rootPath, rootFlagName, utils.EmptyString, rootFlagDescription)
	rootCommand.Flags().StringVar(&options.outputPath, outputFlagName, utils.EmptyString, outputFlagDescription)
	rootCommand.Flags().StringVar(&options.projectName, projectNameFlagName, utils.EmptyString, projectNameFlagDescription)
	rootCommand.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, clipboardFlagName, false, clipboardFlagDescription)
	rootCommand.Flags().StringVar(&options.configFilePath, configFlagName, utils.EmptyString, configFlagDescription)
	rootCommand.AddCommand(createInitCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var useGlobalTarget bool
	var forceOverwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if useGlobalTarget {
				target = config.InitTargetGlobal
			}
			writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  forceOverwrite,
			})
			if initializeError != nil {
				return initializeError
			}
			fmt.Printf(initWrittenFormat, writtenPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&useGlobalTarget, initGlobalFlagName, false, initGlobalDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, initForceFlagName, false, initForceDescription)
	return initCommand
}

// runScan resolves the effective options and executes the scan.
func runScan(command *cobra.Command, options scanOptions) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return configurationError
	}
	resolvedOptions := applyConfiguration(command, options, applicationConfiguration.Scan)

	resolvedRootPath, rootResolutionError := resolveRootPath(resolvedOptions.rootPath, workingDirectory)
	if rootResolutionError != nil {
		return rootResolutionError
	}

	projectName := resolvedOptions.projectName
	if projectName == utils.EmptyString {
		projectName = filepath.Base(resolvedRootPath)
	}

	outputPath := resolvedOptions.outputPath
	if outputPath == utils.EmptyString {
		outputPath = filepath.Join(resolvedRootPath, filepath.FromSlash(defaultOutputRelativePath))
	}

	var tokenCounter tokenizer.Counter
	if resolvedOptions.tokensEnabled {
		createdCounter, _, counterError := tokenizer.NewCounter(tokenizer.Config{Model: resolvedOptions.tokenModel})
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
	}

	treeBuilder := scan.TreeBuilder{TokenCounter: tokenCounter}
	sourceTree, buildError := treeBuilder.BuildTree(resolvedRootPath)
	if buildError != nil {
		return buildError
	}
	if sourceTree == nil {
		return fmt.Errorf(errorEmptyTreeFormat, resolvedRootPath)
	}

	reportEnvelope := report.NewReport(projectName, resolvedRootPath, sourceTree)
	renderedReport, renderError := report.RenderJSON(reportEnvelope)
	if renderError != nil {
		return renderError
	}
	if writeError := report.Write(outputPath, renderedReport); writeError != nil {
		return writeError
	}

	if resolvedOptions.copyToClipboard {
		clipboardService := clipboard.NewService()
		if copyError := clipboardService.Copy(renderedReport); copyError != nil {
			fmt.Fprintf(os.Stderr, warningClipboardFormat, copyError)
		}
	}

	report.WriteSummary(os.Stdout, reportEnvelope, outputPath)
	return nil
}

// applyConfiguration fills options from the configuration file wherever the
// corresponding flag was not explicitly set. A changed flag always wins.
func applyConfiguration(command *cobra.Command, options scanOptions, scanConfiguration config.ScanConfiguration) scanOptions {
	resolved := options
	flags := command.Flags()
	if !flags.Changed(outputFlagName) && scanConfiguration.Output != "" {
		resolved.outputPath = scanConfiguration.Output
	}
	if !flags.Changed(projectNameFlagName) && scanConfiguration.ProjectName != "" {
		resolved.projectName = scanConfiguration.ProjectName
	}
	if !flags.Changed(clipboardFlagName) && scanConfiguration.Clipboard != nil {
		resolved.copyToClipboard = *scanConfiguration.Clipboard
	}
	if !flags.Changed(tokensFlagName) && scanConfiguration.Tokens.Enabled != nil {
		resolved.tokensEnabled = *scanConfiguration.Tokens.Enabled
	}
	if !flags.Changed(modelFlagName) && scanConfiguration.Tokens.Model != "" {
		resolved.tokenModel = scanConfiguration.Tokens.Model
	}
	return resolved
}

// resolveRootPath resolves the scan root: an explicit root is used verbatim
// after absolute resolution, otherwise the project root is discovered by the
// upward marker search starting at the working directory.
func resolveRootPath(explicitRoot string, workingDirectory string) (string, error) {
	if explicitRoot != utils.EmptyString {
		absoluteRootPath, absolutePathError := filepath.Abs(explicitRoot)
		if absolutePathError != nil {
			return utils.EmptyString, fmt.Errorf(errorAbsolutePathFormat, explicitRoot, absolutePathError)
		}
		return absoluteRootPath, nil
	}
	return scan.FindProjectRoot(workingDirectory), nil
}
