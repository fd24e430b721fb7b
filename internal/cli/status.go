package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/room-watch/internal/storage"
	"github.com/pfrederiksen/room-watch/internal/window"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the persisted state and whether the release window is open",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.State.Path, cfg.State.LockTimeout)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	state, err := store.Read(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading state: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "State file: %s\n", store.Path())
	fmt.Fprintf(w, "State:      %s\n", state)

	if !cfg.Window.Enabled {
		fmt.Fprintln(w, "Window:     disabled (checks always run)")
		return nil
	}

	gate, err := cfg.Gate()
	if err != nil {
		return fmt.Errorf("building window gate: %w", err)
	}
	writeWindow(cmd, gate, time.Now())
	return nil
}

func writeWindow(cmd *cobra.Command, gate *window.Gate, now time.Time) {
	w := cmd.OutOrStdout()
	status := "closed"
	if gate.IsOpen(now) {
		status = "open"
	}
	fmt.Fprintf(w, "Window:     %s (%s, now %s)\n", status, gate.Location(), now.In(gate.Location()).Format("Mon 15:04"))
	for _, span := range gate.Spans() {
		fmt.Fprintf(w, "  %s\n", span)
	}
}
