// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coding-pipeline/pkg/types"
)

func TestRegisterStartsPending(t *testing.T) {
	s := NewStore()
	s.Register("task-analyzer", types.PhaseUnderstanding)

	e, ok := s.Snapshot("task-analyzer")
	require.True(t, ok)
	assert.Equal(t, StatePending, e.State)
}

func TestLifecycleTransitionsToCompleted(t *testing.T) {
	s := NewStore()
	s.Register("task-analyzer", types.PhaseUnderstanding)
	s.MarkActive("task-analyzer")

	active, ok := s.Snapshot("task-analyzer")
	require.True(t, ok)
	assert.Equal(t, StateActive, active.State)
	assert.False(t, active.StartedAt.IsZero())

	s.MarkCompleted("task-analyzer", OutputSummary{FilesCreated: []string{"a.ts"}}, 42)
	done, ok := s.Snapshot("task-analyzer")
	require.True(t, ok)
	assert.Equal(t, StateCompleted, done.State)
	assert.Equal(t, int64(42), done.DurationMs)
	assert.Equal(t, []string{"a.ts"}, done.Summary.FilesCreated)
}

func TestLifecycleTransitionsToFailed(t *testing.T) {
	s := NewStore()
	s.Register("task-analyzer", types.PhaseUnderstanding)
	s.MarkActive("task-analyzer")
	s.MarkFailed("task-analyzer", "boom", 7)

	e, ok := s.Snapshot("task-analyzer")
	require.True(t, ok)
	assert.Equal(t, StateFailed, e.State)
	assert.Equal(t, "boom", e.Error)
}

func TestReRegisterResetsToPending(t *testing.T) {
	s := NewStore()
	s.Register("task-analyzer", types.PhaseUnderstanding)
	s.MarkCompleted("task-analyzer", OutputSummary{}, 1)

	s.Register("task-analyzer", types.PhaseUnderstanding)
	e, ok := s.Snapshot("task-analyzer")
	require.True(t, ok)
	assert.Equal(t, StatePending, e.State)
}

func TestActiveAndCompletedInPhaseFiltering(t *testing.T) {
	s := NewStore()
	s.Register("a", types.PhaseUnderstanding)
	s.Register("b", types.PhaseUnderstanding)
	s.Register("c", types.PhaseArchitecture)

	s.MarkActive("a")
	s.MarkCompleted("b", OutputSummary{}, 1)
	s.MarkActive("c")

	active := s.ActiveInPhase(types.PhaseUnderstanding)
	assert.ElementsMatch(t, []types.AgentKey{"a"}, active)

	completed := s.CompletedInPhase(types.PhaseUnderstanding)
	assert.ElementsMatch(t, []types.AgentKey{"b"}, completed)

	assert.ElementsMatch(t, []types.AgentKey{"c"}, s.ActiveInPhase(types.PhaseArchitecture))
}

func TestPhaseSnapshotReturnsAllEntriesForPhase(t *testing.T) {
	s := NewStore()
	s.Register("a", types.PhaseUnderstanding)
	s.Register("b", types.PhaseUnderstanding)
	s.Register("c", types.PhaseArchitecture)

	entries := s.PhaseSnapshot(types.PhaseUnderstanding)
	assert.Len(t, entries, 2)
}

func TestSnapshotUnknownAgentNotFound(t *testing.T) {
	s := NewStore()
	_, ok := s.Snapshot("ghost")
	assert.False(t, ok)
}

func TestConcurrentLifecycleTransitionsDoNotRace(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Register("agent", types.PhaseUnderstanding)
			s.MarkActive("agent")
			s.MarkCompleted("agent", OutputSummary{}, int64(i))
		}(i)
	}
	wg.Wait()

	e, ok := s.Snapshot("agent")
	require.True(t, ok)
	assert.Equal(t, StateCompleted, e.State)
}
