// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package types

import (
	"container/list"
	"sync"
	"time"
)

// AgentExecutionResult is produced exactly once per agent per attempt.
type AgentExecutionResult struct {
	AgentKey        AgentKey
	Success         bool
	Output          string
	XPEarned        int
	MemoryWrites    []string
	ExecutionTimeMs int64
	Error           string
}

// PhaseExecutionResult is produced exactly once per phase per attempt.
type PhaseExecutionResult struct {
	Phase             Phase
	Success           bool
	AgentResults      []AgentExecutionResult
	TotalXP           int
	CheckpointCreated bool
	ExecutionTimeMs   int64
	ValidationResult  *ValidationResult
}

// ValidationResult is the Sherlock gate's verdict as seen by the Phase
// Executor: enough to decide whether to proceed, retry, or escalate.
type ValidationResult struct {
	Verdict          Verdict
	CanProceed       bool
	Remediations     []string
	Confidence       Confidence
	CaseID           string
	RetryExploreOnly bool // INSUFFICIENT_EVIDENCE: re-gather evidence only, no code changes
}

// Verdict is the Sherlock Gate's forensic verdict on a phase.
type Verdict string

const (
	VerdictInnocent             Verdict = "INNOCENT"
	VerdictGuilty               Verdict = "GUILTY"
	VerdictInsufficientEvidence Verdict = "INSUFFICIENT_EVIDENCE"
)

// Confidence qualifies a verdict.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// PipelineExecutionResult is the top-level aggregate returned by Execute.
type PipelineExecutionResult struct {
	Success         bool
	PhaseResults    []PhaseExecutionResult
	TotalXP         int
	ExecutionTimeMs int64
	CompletedPhases []Phase
	FailedPhase     *Phase
	RollbackApplied bool
	Remediations    []string
}

// Checkpoint is a snapshot of memory state plus completed-agent and XP
// totals taken at a phase boundary.
type Checkpoint struct {
	Phase           Phase
	Timestamp       time.Time
	MemorySnapshot  map[string][]MemoryEntry // domain -> entries at snapshot time
	CompletedAgents map[AgentKey]bool
	TotalXP         int
}

// MemoryEntry is an immutable hand-off record produced by one agent run.
type MemoryEntry struct {
	ID        string
	Content   string // opaque payload, typically a JSON-encoded envelope
	Domain    string
	Tags      []string
	CreatedAt time.Time
}

// HasTag reports whether the entry carries the given tag.
func (e MemoryEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ExecutionState is the Orchestrator's mutable per-run state: it owns the
// bounded result map, the most recent checkpoint per phase, accumulated XP,
// and the current phase index. The result map enforces MaxResults by
// evicting the least-recently-written entry, tracked via an LRU list so
// eviction is O(1).
type ExecutionState struct {
	mu           sync.Mutex
	PipelineID   string
	MaxResults   int
	results      map[AgentKey]AgentExecutionResult
	order        *list.List // front = most recently written, back = oldest
	elems        map[AgentKey]*list.Element
	Checkpoints  map[Phase]Checkpoint
	TotalXP      int
	CurrentPhase int
}

// DefaultMaxExecutionResults caps the per-run execution-result map.
const DefaultMaxExecutionResults = 1000

// NewExecutionState creates a fresh ExecutionState for one pipeline run.
func NewExecutionState(pipelineID string, maxResults int) *ExecutionState {
	if maxResults <= 0 {
		maxResults = DefaultMaxExecutionResults
	}
	return &ExecutionState{
		PipelineID:  pipelineID,
		MaxResults:  maxResults,
		results:     make(map[AgentKey]AgentExecutionResult),
		order:       list.New(),
		elems:       make(map[AgentKey]*list.Element),
		Checkpoints: make(map[Phase]Checkpoint),
	}
}

// SetResult inserts or overwrites an agent's result, trimming the
// least-recently-written entries down to MaxResults. Only the scheduler
// should call this (never from within an agent's own execution path).
func (s *ExecutionState) SetResult(r AgentExecutionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.elems[r.AgentKey]; ok {
		s.order.Remove(elem)
	}
	s.results[r.AgentKey] = r
	s.elems[r.AgentKey] = s.order.PushFront(r.AgentKey)

	for len(s.results) > s.MaxResults {
		oldest := s.order.Back()
		if oldest == nil {
			break
		}
		key := oldest.Value.(AgentKey)
		s.order.Remove(oldest)
		delete(s.elems, key)
		delete(s.results, key)
	}
}

// Result returns the stored result for an agent key, if any.
func (s *ExecutionState) Result(key AgentKey) (AgentExecutionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[key]
	return r, ok
}

// ResultCount returns the number of entries currently held.
func (s *ExecutionState) ResultCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// ResultKeys returns a snapshot of every key currently held, in no
// particular order.
func (s *ExecutionState) ResultKeys() []AgentKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]AgentKey, 0, len(s.results))
	for k := range s.results {
		keys = append(keys, k)
	}
	return keys
}

// RestrictTo evicts every stored result whose key is not in keep. Used by
// checkpoint rollback.
func (s *ExecutionState) RestrictTo(keep map[AgentKey]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.results {
		if !keep[key] {
			if elem, ok := s.elems[key]; ok {
				s.order.Remove(elem)
				delete(s.elems, key)
			}
			delete(s.results, key)
		}
	}
}

// SetCheckpoint records the most recent checkpoint for a phase.
func (s *ExecutionState) SetCheckpoint(cp Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Checkpoints[cp.Phase] = cp
}

// LatestCheckpoint returns the most-recently-created checkpoint across all
// phases, used by rollback.
func (s *ExecutionState) LatestCheckpoint() (Checkpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest Checkpoint
	found := false
	for _, cp := range s.Checkpoints {
		if !found || cp.Timestamp.After(latest.Timestamp) {
			latest = cp
			found = true
		}
	}
	return latest, found
}

// XP returns the accumulated XP total.
func (s *ExecutionState) XP() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.TotalXP
}

// AddXP accumulates XP under the state's lock.
func (s *ExecutionState) AddXP(xp int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalXP += xp
}

// SetXP overwrites the accumulated XP total, used by rollback.
func (s *ExecutionState) SetXP(xp int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalXP = xp
}
