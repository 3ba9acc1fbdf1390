package cli

import (
	"bbo2lin/internal/clipboard"
	"bbo2lin/internal/config"
	"bbo2lin/internal/linfile"
	"bbo2lin/internal/state"
	"bbo2lin/internal/utils"
	"bbo2lin/pkg/linconv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// Version information - set via ldflags during build.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// ErrMissingArgument is returned when no URL was given on the command line.
var ErrMissingArgument = errors.New("No URL provided")

// settings are loaded once per run by initializeGlobalState.
var settings = config.DefaultSettings()

// readClipboardURL is replaced in tests.
var readClipboardURL = clipboard.ReadURL

const longHelp = `Convert a Bridge Base hand viewer URL into a .lin file.

The 'lin' query parameter of the URL is decoded and appended to the output
file (hands.lin by default). Output paths without an extension get ".lin".
Appended hands are separated by a single newline.`

const examples = `  bbo2lin "https://www.bridgebase.com/tools/handviewer.html?lin=pn%7C..." output.lin
  bbo2lin --overwrite "https://www.bridgebase.com/tools/handviewer.html?lin=pn%7C..." deals
  bbo2lin --clipboard club-night`

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "bbo2lin <bridge_base_url> [output_file]",
		Short:         "Convert a Bridge Base hand viewer URL into a .lin file",
		Long:          longHelp,
		Example:       examples,
		Version:       Version,
		Args:          cobra.MaximumNArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.SetVerbose(verbose)
			initializeGlobalState(cmd.ErrOrStderr())
		},
		RunE: runConvert,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.Flags().BoolP("overwrite", "w", false, "Replace the output file instead of appending")
	cmd.Flags().Bool("clipboard", false, "Read URL from clipboard (positional argument becomes the output file)")
	cmd.Flags().Bool("no-history", false, "Do not record this conversion in the history database")
	cmd.SetVersionTemplate("bbo2lin v{{.Version}}\n")

	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newPBNCmd())
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	overwrite, _ := cmd.Flags().GetBool("overwrite")
	clipboardFlag, _ := cmd.Flags().GetBool("clipboard")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	var rawURL, output string
	if clipboardFlag {
		if len(args) > 1 {
			return fmt.Errorf("--clipboard accepts only the output file argument")
		}
		u, err := readClipboardURL()
		if err != nil {
			return err
		}
		rawURL = u
		if len(args) == 1 {
			output = args[0]
		}
		fmt.Fprintf(out, "URL from clipboard: %s\n", u)
	} else {
		if len(args) == 0 {
			fmt.Fprint(out, cmd.UsageString())
			fmt.Fprintf(out, "\nError: %v\n", ErrMissingArgument)
			return ErrMissingArgument
		}
		rawURL = args[0]
		if len(args) > 1 {
			output = args[1]
		}
	}

	res, err := linconv.Convert(rawURL, output, writeOptions(overwrite))
	if err != nil {
		utils.Debug("Conversion of %q failed: %v", rawURL, err)
		return err
	}

	report(out, res, overwrite, "hand")
	if settings.General.RecordHistory && !noHistory {
		recordHistory(rawURL, res, overwrite)
	}
	return nil
}

func writeOptions(overwrite bool) *linconv.Options {
	opts := &linconv.Options{Overwrite: overwrite}
	if settings.General.LockWrites {
		opts.LockDir = lockDir()
	}
	return opts
}

func report(out io.Writer, res *linconv.Result, overwrite bool, what string) {
	switch {
	case res.Created:
		fmt.Fprintf(out, "Successfully created %s\n", res.Path)
	case overwrite:
		fmt.Fprintf(out, "Successfully overwrote %s\n", res.Path)
	default:
		fmt.Fprintf(out, "Successfully appended %s to %s\n", what, res.Path)
	}
	fmt.Fprintf(out, "Total file size: %d bytes\n", res.Size)
}

// recordHistory never fails the run; the file is already written.
func recordHistory(source string, res *linconv.Result, overwrite bool) {
	mode := linfile.ModeAppend
	if overwrite {
		mode = linfile.ModeOverwrite
	}
	outputPath := res.Path
	if abs, err := filepath.Abs(outputPath); err == nil {
		outputPath = abs
	}
	err := state.RecordConversion(&state.Conversion{
		SourceURL:    source,
		OutputPath:   outputPath,
		Mode:         mode.String(),
		Created:      res.Created,
		PayloadBytes: int64(len(res.Payload)),
		FileBytes:    res.Size,
	})
	if err != nil {
		utils.Debug("Failed to record conversion: %v", err)
	}
}

// lockDir returns the directory for write locks, or "" when it cannot be created.
func lockDir() string {
	dir := config.GetRuntimeDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		utils.Debug("Write locking disabled, cannot create %s: %v", dir, err)
		return ""
	}
	return dir
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	defer utils.SyncDebug()
	defer state.CloseDB()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, ErrMissingArgument) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// initializeGlobalState prepares directories, DB, settings and logging.
func initializeGlobalState(stderr io.Writer) {
	if err := config.EnsureDirs(); err != nil {
		// Conversions still work without the per-user dirs.
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}

	loaded, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v (using defaults)\n", err)
		loaded = config.DefaultSettings()
	}
	settings = loaded

	state.Configure(filepath.Join(config.GetStateDir(), "history.db"))

	utils.ConfigureDebug(config.GetLogsDir())
	utils.CleanupLogs(settings.General.LogRetentionCount)
	utils.Debug("bbo2lin %s (built %s)", Version, BuildTime)
}
