package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/renameio/v2/maybe"
	"github.com/pfrederiksen/room-watch/internal/availability"
)

const (
	DefaultPath        = "room_state.txt"
	DefaultLockTimeout = 30 * time.Second

	lockRetryDelay = 100 * time.Millisecond
)

// ErrLockTimeout is returned when another run holds the state lock for too long
var ErrLockTimeout = errors.New("timed out waiting for state lock")

// Storage handles persistence of the availability state
type Storage struct {
	path        string
	lockTimeout time.Duration
}

// New creates a new Storage instance for the given state file
func New(path string, lockTimeout time.Duration) (*Storage, error) {
	if path == "" {
		path = DefaultPath
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	// Create parent directory if it doesn't exist
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
	}

	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	return &Storage{
		path:        path,
		lockTimeout: lockTimeout,
	}, nil
}

// Path returns the state file location
func (s *Storage) Path() string {
	return s.path
}

// Read loads the persisted state. A missing file is the first run and yields NoRoom.
func (s *Storage) Read(ctx context.Context) (availability.State, error) {
	if err := ctx.Err(); err != nil {
		return availability.NoRoom, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return availability.NoRoom, nil
		}
		return availability.NoRoom, fmt.Errorf("reading state: %w", err)
	}

	return availability.ParseState(string(data)), nil
}

// Write replaces the persisted state, atomically on platforms with atomic rename
func (s *Storage) Write(ctx context.Context, state availability.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := []byte(state.String() + "\n")
	if err := maybe.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}

	return nil
}

// Lock takes the cross-process state lock, polling until it is free or the lock
// timeout elapses. The returned function releases it.
func (s *Storage) Lock(ctx context.Context) (func() error, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	fl := flock.New(s.path + ".lock")
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, fl.Path())
		}
		return nil, fmt.Errorf("locking state: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, fl.Path())
	}

	return fl.Unlock, nil
}
