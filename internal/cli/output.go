package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/room-watch/internal/monitor"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the run result in the specified format
func WriteOutput(w io.Writer, result *monitor.Result, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the result as JSON
func writeJSON(w io.Writer, result *monitor.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs the result as human-readable text
func writeText(w io.Writer, result *monitor.Result, verbose bool) error {
	switch result.Outcome {
	case monitor.OutcomeSkipped:
		fmt.Fprintln(w, "Outside the release window, nothing checked.")
	case monitor.OutcomeFetchFailed:
		fmt.Fprintf(w, "Could not fetch the listings page: %s\n", result.Error)
		fmt.Fprintf(w, "State left at %s.\n", result.Prior)
	case monitor.OutcomeNoRoom:
		fmt.Fprintln(w, "Status: No rooms available yet.")
	case monitor.OutcomeRoomUnchanged:
		fmt.Fprintln(w, "Status: Rooms still listed (already notified).")
	case monitor.OutcomeRoomAppeared:
		fmt.Fprintln(w, "ALERT: Room found! Notification sent.")
	case monitor.OutcomeNotifyFailed:
		fmt.Fprintln(w, "ALERT: Room found, but the notification could not be sent.")
		fmt.Fprintf(w, "  Reason: %s\n", result.Error)
	default:
		fmt.Fprintf(w, "Outcome: %s\n", result.Outcome)
	}

	if result.Details != "" && (result.Outcome == monitor.OutcomeRoomAppeared || result.Outcome == monitor.OutcomeNotifyFailed || verbose) {
		fmt.Fprintln(w, "\nOffers:")
		for _, line := range strings.Split(result.Details, "\n") {
			if line == "" {
				continue
			}
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}

	if verbose {
		fmt.Fprintf(w, "\nRun ID: %s\n", result.RunID)
		fmt.Fprintf(w, "Checked at: %s\n", result.CheckedAt.Format(time.RFC3339))
		if result.Prior != "" || result.Next != "" {
			fmt.Fprintf(w, "State: %s -> %s\n", result.Prior, result.Next)
		}
	}

	return nil
}
