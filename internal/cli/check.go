package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// runCheck is the main command logic
func runCheck(cmd *cobra.Command, args []string) error {
	// Validate format
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	a, err := newApp(cmd, time.Now)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.monitor.Run(cmd.Context())
	a.writeMetrics()
	if err != nil {
		return fmt.Errorf("checking vacancies: %w", err)
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if result.Skipped() {
		return errOutsideWindow
	}
	return nil
}
