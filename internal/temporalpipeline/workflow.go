// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package temporalpipeline is the optional durable-execution backend for
// the pipeline: a workflow that drives the same phase sequence as
// Orchestrator.Execute, but one phase per Temporal activity so a crashed
// worker resumes instead of restarting the whole pipeline.
package temporalpipeline

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"coding-pipeline/internal/config"
	"coding-pipeline/pkg/types"
)

// PhaseActivityTimeout bounds a single phase activity when the config does
// not carry its own phase timeout.
const PhaseActivityTimeout = 1 * time.Hour

// PipelineWorkflowInput is the Temporal workflow's input payload.
type PipelineWorkflowInput struct {
	PipelineID string
	Config     config.PipelineConfig
}

// PipelineWorkflowResult mirrors types.PipelineExecutionResult in a
// Temporal-safe (deterministic, serializable) shape.
type PipelineWorkflowResult struct {
	Success         bool
	TotalXP         int
	CompletedPhases []types.Phase
	FailedPhase     *types.Phase
	RollbackApplied bool
}

// phaseActivityOptions configures phase activities as non-retryable: a
// phase run is not safely retryable by Temporal itself, since retry policy
// for a phase is the Sherlock Gate's job, not the workflow's.
func phaseActivityOptions(cfg config.PipelineConfig) workflow.ActivityOptions {
	timeout := cfg.PhaseTimeout()
	if timeout <= 0 {
		timeout = PhaseActivityTimeout
	}
	return workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
}

// PipelineWorkflow runs every configured phase in sequence via
// ExecutePhaseActivity, mirroring Orchestrator.Execute's step 5 loop but
// with each phase durable across worker restarts.
func PipelineWorkflow(ctx workflow.Context, input PipelineWorkflowInput) (PipelineWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("pipeline workflow started", "pipelineId", input.PipelineID)

	ctx = workflow.WithActivityOptions(ctx, phaseActivityOptions(input.Config))

	var completed []types.Phase
	var totalXP int
	var failedPhase *types.Phase
	rollbackApplied := false

	for _, p := range input.Config.Phases() {
		var result PhaseActivityResult
		err := workflow.ExecuteActivity(ctx, ExecutePhaseActivityName, PhaseActivityInput{
			PipelineID: input.PipelineID,
			Phase:      p,
			Config:     input.Config,
		}).Get(ctx, &result)

		if err != nil || !result.Success {
			failed := p
			failedPhase = &failed
			logger.Error("pipeline workflow phase failed", "phase", p, "error", err)

			if input.Config.EnableCheckpoints {
				var rb bool
				if rbErr := workflow.ExecuteActivity(ctx, RollbackActivityName, input.PipelineID).Get(ctx, &rb); rbErr == nil {
					rollbackApplied = rb
				}
			}
			break
		}

		completed = append(completed, p)
		totalXP += result.TotalXP
	}

	return PipelineWorkflowResult{
		Success:         failedPhase == nil,
		TotalXP:         totalXP,
		CompletedPhases: completed,
		FailedPhase:     failedPhase,
		RollbackApplied: rollbackApplied,
	}, nil
}
