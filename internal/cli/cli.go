package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	ExitSuccess       = 0
	ExitError         = 1
	ExitOutsideWindow = 3
)

// errOutsideWindow ends a check that the release window denied
var errOutsideWindow = errors.New("outside release window")

var (
	flagConfig       string
	flagStateFile    string
	flagURL          string
	flagRecipient    string
	flagLogLevel     string
	flagLogFile      string
	flagMetricsFile  string
	flagVerbose      bool
	flagDryRun       bool
	flagIgnoreWindow bool
	flagFormat       string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room-watch",
		Short: "Check the housing office listings for new room vacancies",
		Long: `A CLI tool that checks the student housing office listings page for room vacancies.
Tracks availability across runs and sends one email when a vacancy appears after a
period without any. Intended to run from cron or CI during the weekly release window.`,
		RunE:          runCheck,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	pf.StringVar(&flagStateFile, "state-file", "", "State file location (default room_state.txt)")
	pf.StringVar(&flagURL, "url", "", "Listings page URL")
	pf.StringVar(&flagRecipient, "recipient", "", "Alert recipient (default: the mailbox user)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Also write logs to this rotating file")
	pf.StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	addCheckFlags(cmd)

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newCredentialsCmd())

	return cmd
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the alert instead of sending it")
	cmd.Flags().BoolVar(&flagIgnoreWindow, "ignore-window", false, "Run even outside the release window")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a single check (default command)",
		RunE:  runCheck,
	}
	addCheckFlags(cmd)
	return cmd
}

// exitCode maps a command error onto the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errOutsideWindow):
		return ExitOutsideWindow
	default:
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil && !errors.Is(err, errOutsideWindow) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
