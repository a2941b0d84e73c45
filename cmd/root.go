package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ge0mant1s/soacframe-community/config"
	"github.com/ge0mant1s/soacframe-community/coverage"
	"github.com/ge0mant1s/soacframe-community/output"
	"github.com/ge0mant1s/soacframe-community/util"
)

var (
	outputFile   string
	outputFormat string
	metricsFile  string
	forceColor   bool
	disableColor bool
	verbose      bool
	silent       bool
	logJSON      bool
	logFile      string
	envFile      string
	showVersion  bool

	cfg = config.Defaults()
)

// ExitError carries a process exit code out of a command. The report has
// already been printed; Err, when set, is logged before exiting.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

var rootCmd = &cobra.Command{
	Use:   "soacframe [command] [flags]",
	Short: "soacframe audits security-operations-as-code content packs",
	Long: `
soacframe: quality gates for detection content and network exposure.

Key Features:
- ATT&CK coverage of structured (Sigma style) rules against a campaign technique set.
- Library coverage of free-text query rules against a technique mapping table.
- Structural validation of detection rules.
- Technique header checks for query files.
- Exposure triage of a device inventory against a vulnerability catalog.
- Console, JSON, Markdown, CSV and Prometheus textfile output.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		colorize := util.NewColorizer(false).Enabled
		if forceColor {
			colorize = true
		} else if disableColor {
			colorize = false
		}
		util.SetLogOutput(cmd.ErrOrStderr())
		util.SetColorEnabled(colorize)

		switch {
		case verbose:
			util.SetLogLevel(util.LevelDebug)
		case silent:
			util.SetLogLevel(util.LevelError)
		default:
			util.SetLogLevel(util.LevelInfo)
		}
		util.SetStructured(logJSON, logFile)

		if envFile != "" {
			cfg = config.Load(envFile)
		} else {
			cfg = config.Load()
		}
		util.Debug("PersistentPreRunE: configuration %+v", cfg)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			printVersion(cmd)
			return nil
		}
		return cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show tool version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd)
	},
}

func printVersion(cmd *cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "soacframe Version: %s\n", config.Version)
}

// colorEnabled resolves --color and --no-color for report output.
func colorEnabled() bool {
	if forceColor {
		return true
	}
	if disableColor {
		return false
	}
	return util.NewColorizer(false).Enabled
}

// openWriters returns the console writer plus the optional file and metrics
// writers requested on the command line.
func openWriters(cmd *cobra.Command, command string) (output.Multi, error) {
	writers := output.Multi{output.NewCLIWriter(cmd.OutOrStdout(), colorEnabled())}
	if outputFile != "" {
		w, err := output.New(outputFormat, outputFile, output.NewMeta(command, config.Version))
		if err != nil {
			return nil, fmt.Errorf("failed to set up file writer: %w", err)
		}
		writers = append(writers, w)
	}
	if metricsFile != "" {
		writers = append(writers, output.NewMetricsWriter(metricsFile))
	}
	return writers, nil
}

// finish closes the writers and turns a failed outcome into an ExitError.
func finish(writers output.Multi, failed bool) error {
	if err := writers.Close(); err != nil {
		util.Warn("Error writing output: %v", err)
	}
	if failed {
		return &ExitError{Code: coverage.ExitFail}
	}
	return nil
}

func addOutputFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&outputFile, "output", "o", "", "Write the report to the specified file")
	fs.StringVarP(&outputFormat, "format", "f", "json", "File report format: json, md, csv, txt")
	fs.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to the specified file")
}

func addLoggingFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&forceColor, "color", false, "Force colored CLI output")
	fs.BoolVar(&disableColor, "no-color", false, "Disable colored CLI output")
	fs.BoolVar(&disableColor, "mono", false, "Alias for --no-color")
	fs.BoolVar(&silent, "silent", false, "Display results only (suppress progress and info logs)")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug logging")
	fs.BoolVar(&logJSON, "log-json", false, "Emit logs as JSON lines")
	fs.StringVar(&logFile, "log-file", "", "Also append logs to the specified file")
}

// Execute runs the root command and exits with the outcome's status code.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defer util.CloseLog()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return coverage.ExitPass
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			util.Error("%v", exitErr.Err)
		}
		return exitErr.Code
	}
	util.Error("%v", err)
	return coverage.ExitFail
}

func init() {
	addOutputFlags(rootCmd.PersistentFlags())
	addLoggingFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Load settings from the specified .env file (default .env)")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show tool version")

	rootCmd.AddCommand(versionCmd)
}
