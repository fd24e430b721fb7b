package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/room-watch/internal/availability"
	"github.com/pfrederiksen/room-watch/internal/credentials"
	"github.com/pfrederiksen/room-watch/internal/logger"
	"github.com/pfrederiksen/room-watch/internal/metrics"
	"github.com/pfrederiksen/room-watch/internal/notifier"
)

// Gate decides whether a run may proceed
type Gate interface {
	IsOpen(now time.Time) bool
}

// Fetcher downloads the listings page
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	URL() string
}

// Classifier turns a page into an availability signal
type Classifier interface {
	ClassifyBytes(page []byte) (availability.Signal, error)
}

// Store persists the availability state
type Store interface {
	Read(ctx context.Context) (availability.State, error)
	Write(ctx context.Context, state availability.State) error
	Lock(ctx context.Context) (func() error, error)
}

// Deps are the collaborators of a Monitor. Notifier may be nil when no credentials
// are configured; a vacancy is then logged but not mailed.
type Deps struct {
	Gate       Gate
	Fetcher    Fetcher
	Classifier Classifier
	Store      Store
	Notifier   notifier.Notifier
	Logger     *logger.Logger
	Metrics    *metrics.Recorder
	Now        func() time.Time
}

// Options tune a Monitor
type Options struct {
	Recipient string
	Subject   string
	// IgnoreWindow runs the check even when the gate is closed
	IgnoreWindow bool
	// AdvanceOnNotifyFailure persists room even when the alert could not be sent.
	// By default the state stays no_room so the next run retries the alert.
	AdvanceOnNotifyFailure bool
}

// Monitor orchestrates vacancy checks
type Monitor struct {
	deps Deps
	opts Options
}

// New creates a Monitor
func New(deps Deps, opts Options) *Monitor {
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Monitor{deps: deps, opts: opts}
}

// Run performs one check. The returned error is non-nil only when the state store
// failed; every other failure is reported through Result.
func (m *Monitor) Run(ctx context.Context) (*Result, error) {
	now := m.deps.Now()
	res := &Result{
		RunID:     uuid.NewString(),
		CheckedAt: now.UTC(),
	}
	log := m.deps.Logger.With(logger.Fields{"run_id": res.RunID})

	if !m.opts.IgnoreWindow && !m.deps.Gate.IsOpen(now) {
		res.Outcome = OutcomeSkipped
		log.Info("Outside release window, skipping check", nil)
		m.deps.Metrics.RecordRun(string(res.Outcome), now)
		return res, nil
	}

	unlock, err := m.deps.Store.Lock(ctx)
	if err != nil {
		log.Error("Could not lock state", nil, err)
		return res, fmt.Errorf("locking state: %w", err)
	}
	defer func() {
		if err := unlock(); err != nil {
			log.Warn("Could not release state lock", nil, err)
		}
	}()

	prior, err := m.deps.Store.Read(ctx)
	if err != nil {
		log.Error("Could not read state", nil, err)
		return res, fmt.Errorf("reading state: %w", err)
	}
	res.Prior = prior

	start := time.Now()
	page, err := m.deps.Fetcher.Fetch(ctx)
	m.deps.Metrics.RecordFetch(time.Since(start))
	if err != nil {
		res.Outcome = OutcomeFetchFailed
		res.Error = err.Error()
		log.Warn("Fetching listings failed, state left unchanged", logger.Fields{
			"url":   m.deps.Fetcher.URL(),
			"prior": prior.String(),
		}, err)
		m.deps.Metrics.RecordRun(string(res.Outcome), now)
		return res, nil
	}

	signal, err := m.deps.Classifier.ClassifyBytes(page)
	if err != nil {
		// The classifier already reports no vacancy on any parse failure
		log.Warn("Unexpected page structure, assuming no vacancy", logger.Fields{
			"url":        m.deps.Fetcher.URL(),
			"page_bytes": len(page),
		}, err)
	}
	res.Observed = signal.Observed()
	res.Details = signal.Details

	decision := availability.Decide(prior, signal)
	next := decision.Next

	switch {
	case decision.Notify:
		if err := m.notify(ctx, signal); err != nil {
			res.Outcome = OutcomeNotifyFailed
			res.Error = err.Error()
			if !m.opts.AdvanceOnNotifyFailure {
				next = availability.NoRoom
			}
			log.Error("Vacancy detected but notification failed", logger.Fields{
				"next": next.String(),
			}, err)
		} else {
			res.Outcome = OutcomeRoomAppeared
			res.Notified = true
			log.Info("Vacancy detected, notification sent", logger.Fields{
				"recipient": m.opts.Recipient,
			})
		}
	case next == availability.Room:
		res.Outcome = OutcomeRoomUnchanged
		log.Info("Vacancy still listed, already notified", nil)
	default:
		res.Outcome = OutcomeNoRoom
		log.Info("No rooms available", logger.Fields{"prior": prior.String()})
	}
	res.Next = next

	if err := m.deps.Store.Write(ctx, next); err != nil {
		log.Error("Could not write state", logger.Fields{"state": next.String()}, err)
		return res, fmt.Errorf("writing state: %w", err)
	}

	m.deps.Metrics.SetRoomAvailable(next == availability.Room)
	m.deps.Metrics.RecordRun(string(res.Outcome), now)
	return res, nil
}

func (m *Monitor) notify(ctx context.Context, signal availability.Signal) error {
	if m.deps.Notifier == nil {
		m.deps.Metrics.RecordNotification("skipped")
		return credentials.ErrCredentialsMissing
	}

	msg := notifier.ComposeAlert(m.opts.Recipient, m.opts.Subject, m.deps.Fetcher.URL(), signal.Details)
	if err := m.deps.Notifier.Notify(ctx, msg); err != nil {
		m.deps.Metrics.RecordNotification("failed")
		return err
	}
	m.deps.Metrics.RecordNotification("sent")
	return nil
}
