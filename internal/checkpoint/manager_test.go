// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package checkpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coding-pipeline/internal/memory"
	"coding-pipeline/pkg/types"
)

func TestCreateSnapshotsMemoryAndCompletedAgents(t *testing.T) {
	mem := memory.New()
	mem.Store("coding/understanding/task", "pipeline-1", "analysis complete")

	state := types.NewExecutionState("pipeline-1", 0)
	state.SetResult(types.AgentExecutionResult{AgentKey: "task-analyzer", Success: true})
	state.SetResult(types.AgentExecutionResult{AgentKey: "failed-agent", Success: false})
	state.AddXP(40)

	mgr := New(mem, 0)
	cp := mgr.Create(types.PhaseUnderstanding, "pipeline-1", []string{"coding/understanding/task"}, state)

	assert.Equal(t, types.PhaseUnderstanding, cp.Phase)
	assert.True(t, cp.CompletedAgents["task-analyzer"])
	assert.False(t, cp.CompletedAgents["failed-agent"])
	assert.Equal(t, 40, cp.TotalXP)
	assert.Len(t, cp.MemorySnapshot["coding/understanding/task"], 1)

	latest, ok := state.LatestCheckpoint()
	require.True(t, ok)
	assert.Equal(t, cp.Phase, latest.Phase)
}

func TestRollbackToLastRestoresMemoryAndXPAndRestrictsResults(t *testing.T) {
	mem := memory.New()
	mem.Store("coding/understanding/task", "pipeline-1", "v1")

	state := types.NewExecutionState("pipeline-1", 0)
	state.SetResult(types.AgentExecutionResult{AgentKey: "task-analyzer", Success: true})
	state.AddXP(40)

	mgr := New(mem, 0)
	mgr.Create(types.PhaseUnderstanding, "pipeline-1", []string{"coding/understanding/task"}, state)

	// Mutate state after the checkpoint: new write, new agent result, more XP.
	mem.Store("coding/understanding/task", "pipeline-1", "v2")
	state.SetResult(types.AgentExecutionResult{AgentKey: "second-agent", Success: true})
	state.AddXP(10)

	ok := mgr.RollbackToLast(state)
	require.True(t, ok)

	assert.Equal(t, 40, state.TotalXP)
	_, stillThere := state.Result("task-analyzer")
	assert.True(t, stillThere)
	_, secondStillThere := state.Result("second-agent")
	assert.False(t, secondStillThere)

	entries := mem.Enumerate("coding/understanding/task")
	require.Len(t, entries, 1)
	assert.Equal(t, "v1", entries[0].Content)
}

func TestRollbackToLastWithNoCheckpointReturnsFalse(t *testing.T) {
	mem := memory.New()
	state := types.NewExecutionState("pipeline-1", 0)
	mgr := New(mem, 0)

	ok := mgr.RollbackToLast(state)
	assert.False(t, ok)
}

func TestRollbackIsIdempotent(t *testing.T) {
	mem := memory.New()
	mem.Store("coding/understanding/task", "pipeline-1", "v1")
	state := types.NewExecutionState("pipeline-1", 0)
	state.AddXP(5)

	mgr := New(mem, 0)
	mgr.Create(types.PhaseUnderstanding, "pipeline-1", []string{"coding/understanding/task"}, state)

	ok1 := mgr.RollbackToLast(state)
	xpAfterFirst := state.TotalXP
	ok2 := mgr.RollbackToLast(state)

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, xpAfterFirst, state.TotalXP)
}

func TestTrimKeepsOnlyMaxCheckpointsPerPipelineLeavingOthersUntouched(t *testing.T) {
	mem := memory.New()
	state := types.NewExecutionState("pipeline-1", 0)
	mgr := New(mem, 2)

	otherState := types.NewExecutionState("pipeline-2", 0)
	mgr.Create(types.PhaseUnderstanding, "pipeline-2", nil, otherState)

	mgr.Create(types.PhaseUnderstanding, "pipeline-1", nil, state)
	mgr.Create(types.PhaseArchitecture, "pipeline-1", nil, state)
	mgr.Create(types.PhaseImplementation, "pipeline-1", nil, state)

	all := mem.Enumerate("coding/pipeline/checkpoints")

	var mine, others int
	for _, e := range all {
		if e.HasTag("pipeline-1") {
			mine++
		}
		if e.HasTag("pipeline-2") {
			others++
		}
	}
	assert.Equal(t, 2, mine)
	assert.Equal(t, 1, others)
}

func TestNoTrimWhenMaxCheckpointsNonPositive(t *testing.T) {
	mem := memory.New()
	state := types.NewExecutionState("pipeline-1", 0)
	mgr := New(mem, 0)

	for i := 0; i < 5; i++ {
		mgr.Create(types.PhaseUnderstanding, "pipeline-1", nil, state)
	}

	all := mem.Enumerate("coding/pipeline/checkpoints")
	assert.Len(t, all, 5)
}
