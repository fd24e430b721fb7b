package monitor

import (
	"time"

	"github.com/pfrederiksen/room-watch/internal/availability"
)

// Outcome classifies how a run ended
type Outcome string

const (
	OutcomeSkipped       Outcome = "skipped"
	OutcomeFetchFailed   Outcome = "fetch_failed"
	OutcomeNoRoom        Outcome = "no_room"
	OutcomeRoomAppeared  Outcome = "room_appeared"
	OutcomeRoomUnchanged Outcome = "room_unchanged"
	OutcomeNotifyFailed  Outcome = "notify_failed"
)

// Result describes one run
type Result struct {
	RunID     string             `json:"run_id"`
	CheckedAt time.Time          `json:"checked_at"`
	Outcome   Outcome            `json:"outcome"`
	Prior     availability.State `json:"prior,omitempty"`
	Observed  availability.State `json:"observed,omitempty"`
	Next      availability.State `json:"next,omitempty"`
	Notified  bool               `json:"notified"`
	Details   string             `json:"details,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// Skipped reports whether the run was denied by the window gate
func (r *Result) Skipped() bool {
	return r.Outcome == OutcomeSkipped
}
