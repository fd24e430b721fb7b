// Package cli implements the command-line interface for room-watch.
//
// The cli package provides the Cobra-based CLI: a one-shot check (the default
// command), a scheduled watch mode, a status report and keyring credential
// management. It loads configuration once, builds the scraper, storage, notifier and
// window gate, and hands them to the monitor.
package cli
