// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporalpipeline

import (
	"context"
	"sync"

	"coding-pipeline/internal/checkpoint"
	"coding-pipeline/internal/config"
	"coding-pipeline/internal/phase"
	"coding-pipeline/pkg/types"
)

// Activity names registered against the Temporal worker.
const (
	ExecutePhaseActivityName = "ExecutePhase"
	RollbackActivityName     = "RollbackToLastCheckpoint"
)

// PhaseActivityInput is ExecutePhaseActivity's argument.
type PhaseActivityInput struct {
	PipelineID string
	Phase      types.Phase
	Config     config.PipelineConfig
}

// PhaseActivityResult is ExecutePhaseActivity's return value.
type PhaseActivityResult struct {
	Success bool
	TotalXP int
}

// Activities holds the shared, in-process collaborators every phase
// activity needs. The per-pipeline ExecutionState cannot cross activity
// serialization boundaries, so it lives in this worker-process-local
// registry keyed by pipeline id instead; all activities for one workflow
// run on the same worker process in this deployment.
type Activities struct {
	PhaseExecutor *phase.Executor
	Checkpoint    *checkpoint.Manager

	mu     sync.Mutex
	states map[string]*types.ExecutionState
}

// NewActivities constructs an Activities registered against a worker.
func NewActivities(phaseExecutor *phase.Executor, cp *checkpoint.Manager) *Activities {
	return &Activities{
		PhaseExecutor: phaseExecutor,
		Checkpoint:    cp,
		states:        make(map[string]*types.ExecutionState),
	}
}

func (a *Activities) stateFor(pipelineID string) *types.ExecutionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.states[pipelineID]; ok {
		return s
	}
	s := types.NewExecutionState(pipelineID, types.DefaultMaxExecutionResults)
	a.states[pipelineID] = s
	return s
}

// ExecutePhaseActivity runs one phase through the Phase Executor's full
// retry loop, reusing the same ExecutionState across every phase activity
// for this pipeline id.
func (a *Activities) ExecutePhaseActivity(ctx context.Context, input PhaseActivityInput) (PhaseActivityResult, error) {
	state := a.stateFor(input.PipelineID)
	outcome := a.PhaseExecutor.Run(ctx, input.Phase, input.Config, input.PipelineID, state)
	return PhaseActivityResult{Success: outcome.Result.Success, TotalXP: outcome.Result.TotalXP}, nil
}

// RollbackActivity rolls the pipeline's ExecutionState back to its last
// checkpoint, returning whether a checkpoint existed to roll back to.
func (a *Activities) RollbackActivity(ctx context.Context, pipelineID string) (bool, error) {
	state := a.stateFor(pipelineID)
	return a.Checkpoint.RollbackToLast(state), nil
}
