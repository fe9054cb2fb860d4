// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package progress tracks each registered agent's lifecycle
// (pending -> active -> completed|failed) and exposes the advisory file
// claims used for situational awareness between concurrently running
// agents.
package progress

import (
	"sync"
	"time"

	"coding-pipeline/pkg/types"
)

// State is an agent's lifecycle state within a phase run.
type State string

const (
	StatePending   State = "pending"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// OutputSummary is the extracted shape of an agent's output.
type OutputSummary struct {
	Decisions     []string
	FilesCreated  []string
	FilesModified []string
	KeyFindings   []string
	OutputLength  int
}

// Entry is one agent's tracked progress record.
type Entry struct {
	AgentKey   types.AgentKey
	Phase      types.Phase
	State      State
	StartedAt  time.Time
	FinishedAt time.Time
	DurationMs int64
	Summary    OutputSummary
	Error      string
}

// Store records one entry per registered agent and serializes lifecycle
// transitions so concurrent markActive/markCompleted/markFailed calls from a
// batch never interleave unsafely.
type Store struct {
	mu      sync.Mutex
	entries map[types.AgentKey]*Entry
}

// NewStore creates an empty progress store.
func NewStore() *Store {
	return &Store{entries: make(map[types.AgentKey]*Entry)}
}

// Register adds a pending entry for an agent. Re-registering resets it to
// pending, which the Phase Executor relies on when re-running a phase.
func (s *Store) Register(key types.AgentKey, phase types.Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &Entry{AgentKey: key, Phase: phase, State: StatePending}
}

// MarkActive transitions an agent to active and records its start time.
func (s *Store) MarkActive(key types.AgentKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		e = &Entry{AgentKey: key}
		s.entries[key] = e
	}
	e.State = StateActive
	e.StartedAt = time.Now()
}

// MarkCompleted transitions an agent to completed and records its output
// summary and duration.
func (s *Store) MarkCompleted(key types.AgentKey, summary OutputSummary, durationMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		e = &Entry{AgentKey: key}
		s.entries[key] = e
	}
	e.State = StateCompleted
	e.FinishedAt = time.Now()
	e.DurationMs = durationMs
	e.Summary = summary
}

// MarkFailed transitions an agent to failed and records the error.
func (s *Store) MarkFailed(key types.AgentKey, errMsg string, durationMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		e = &Entry{AgentKey: key}
		s.entries[key] = e
	}
	e.State = StateFailed
	e.FinishedAt = time.Now()
	e.DurationMs = durationMs
	e.Error = errMsg
}

// Snapshot returns a copy of a single agent's entry.
func (s *Store) Snapshot(key types.AgentKey) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// PhaseSnapshot returns every entry registered for a phase.
func (s *Store) PhaseSnapshot(phase types.Phase) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Entry
	for _, e := range s.entries {
		if e.Phase == phase {
			out = append(out, *e)
		}
	}
	return out
}

// ActiveInPhase returns the keys of agents currently active in a phase, used
// to build situational awareness.
func (s *Store) ActiveInPhase(phase types.Phase) []types.AgentKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.AgentKey
	for key, e := range s.entries {
		if e.Phase == phase && e.State == StateActive {
			out = append(out, key)
		}
	}
	return out
}

// CompletedInPhase returns the keys of agents that finished successfully in
// a phase.
func (s *Store) CompletedInPhase(phase types.Phase) []types.AgentKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.AgentKey
	for key, e := range s.entries {
		if e.Phase == phase && e.State == StateCompleted {
			out = append(out, key)
		}
	}
	return out
}
