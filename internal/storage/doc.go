// Package storage persists the availability state between runs.
//
// The state is a single token in a small text file. Writes go through a temp file and
// rename so readers never observe a partial record, and an advisory lock file
// serializes overlapping runs across their read-modify-write cycle.
package storage
