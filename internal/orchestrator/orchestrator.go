// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package orchestrator implements the top-level pipeline Execute entry
// point: phase sequencing, rollback, XP accounting and pipeline-level
// learning feedback.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"coding-pipeline/internal/checkpoint"
	"coding-pipeline/internal/config"
	"coding-pipeline/internal/learning"
	"coding-pipeline/internal/memory"
	"coding-pipeline/internal/observability"
	"coding-pipeline/internal/phase"
	"coding-pipeline/pkg/types"
)

// ValidationIssue is one non-fatal warning surfaced by a PipelineValidator.
type ValidationIssue struct {
	AgentKey types.AgentKey
	Message  string
}

// PipelineValidator checks the flattened agent roster before a run starts.
// Issues are warnings only: the orchestrator logs them and proceeds.
type PipelineValidator interface {
	Validate(mappings []types.AgentMapping) []ValidationIssue
}

// Orchestrator runs a full pipeline.
type Orchestrator struct {
	PhaseExecutor *phase.Executor
	Mappings      []types.AgentMapping
	Validator     PipelineValidator
	Memory        *memory.Coordinator
	Checkpoint    *checkpoint.Manager
	Bus           observability.Bus
	Learning      learning.ReasoningBank
}

type pipelineStateEnvelope struct {
	Status       string    `json:"status"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime,omitempty"`
	Phases       []string  `json:"phases"`
	CurrentPhase int       `json:"currentPhase"`
}

// Execute runs the pipeline end to end: phase loop, rollback on failure,
// final aggregation and observability emission.
func (o *Orchestrator) Execute(ctx context.Context, cfg config.PipelineConfig) types.PipelineExecutionResult {
	start := time.Now()
	pipelineID := uuid.NewString()

	if o.Validator != nil {
		for _, issue := range o.Validator.Validate(o.Mappings) {
			slog.Warn("orchestrator: pipeline validation warning", "agent", issue.AgentKey, "message", issue.Message)
		}
	}

	phases := cfg.Phases()
	phaseNames := make([]string, len(phases))
	for i, p := range phases {
		phaseNames[i] = p.String()
	}

	o.emit(ctx, "pipeline_started", observability.StatusRunning, 0, map[string]string{
		"pipelineId":  pipelineID,
		"phases":      fmt.Sprintf("%v", phaseNames),
		"totalAgents": fmt.Sprintf("%d", len(o.Mappings)),
	})

	state := types.NewExecutionState(pipelineID, types.DefaultMaxExecutionResults)
	o.persistState(pipelineID, pipelineStateEnvelope{Status: "running", StartTime: start, Phases: phaseNames, CurrentPhase: 0})

	var phaseResults []types.PhaseExecutionResult
	var completedPhases []types.Phase
	var failedPhase *types.Phase
	rollbackApplied := false
	var remediations []string
	success := true

	for i, p := range phases {
		o.persistState(pipelineID, pipelineStateEnvelope{Status: "running", StartTime: start, Phases: phaseNames, CurrentPhase: i})

		outcome := o.PhaseExecutor.Run(ctx, p, cfg, pipelineID, state)
		phaseResults = append(phaseResults, outcome.Result)

		if outcome.Result.Success {
			completedPhases = append(completedPhases, p)
			continue
		}

		failed := p
		failedPhase = &failed
		remediations = outcome.Remediations
		success = false

		if cfg.EnableCheckpoints && o.Checkpoint != nil {
			rollbackApplied = o.Checkpoint.RollbackToLast(state)
		}
		break
	}

	totalAgents := 0
	successfulAgents := 0
	for _, pr := range phaseResults {
		for _, ar := range pr.AgentResults {
			totalAgents++
			if ar.Success {
				successfulAgents++
			}
		}
	}

	var quality float64
	if totalAgents > 0 {
		quality = float64(successfulAgents) / float64(totalAgents)
	}
	if !success {
		quality = 0
	}

	trajectoryID := fmt.Sprintf("trajectory_pipeline_%s", pipelineID)
	learning.SafeCreateTrajectory(ctx, o.Learning, trajectoryID, "pipeline", nil, map[string]string{"taskType": "pipeline"})
	learning.SafeFeedback(ctx, o.Learning, trajectoryID, quality, learning.FeedbackOptions{})

	finalStatus := "completed"
	if !success {
		finalStatus = "failed"
	}
	o.persistState(pipelineID, pipelineStateEnvelope{
		Status:       finalStatus,
		StartTime:    start,
		EndTime:      time.Now(),
		Phases:       phaseNames,
		CurrentPhase: len(phaseResults) - 1,
	})
	if o.Memory != nil {
		lastDelta := 0
		if len(phaseResults) > 0 {
			lastDelta = phaseResults[len(phaseResults)-1].TotalXP
		}
		o.Memory.StoreXP(pipelineID, lastPhase(phases, failedPhase), state.XP(), lastDelta)
	}

	result := types.PipelineExecutionResult{
		Success:         success,
		PhaseResults:    phaseResults,
		TotalXP:         state.XP(),
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		CompletedPhases: completedPhases,
		FailedPhase:     failedPhase,
		RollbackApplied: rollbackApplied,
		Remediations:    remediations,
	}

	status := observability.StatusSuccess
	if !success {
		status = observability.StatusError
	}
	o.emit(ctx, "pipeline_completed", status, result.ExecutionTimeMs, map[string]string{
		"pipelineId":      pipelineID,
		"totalXP":         fmt.Sprintf("%d", result.TotalXP),
		"completedPhases": fmt.Sprintf("%d", len(completedPhases)),
		"rollbackApplied": fmt.Sprintf("%v", rollbackApplied),
	})

	return result
}

func lastPhase(phases []types.Phase, failedPhase *types.Phase) types.Phase {
	if failedPhase != nil {
		return *failedPhase
	}
	if len(phases) == 0 {
		return types.PhaseUnderstanding
	}
	return phases[len(phases)-1]
}

func (o *Orchestrator) persistState(pipelineID string, env pipelineStateEnvelope) {
	if o.Memory == nil {
		return
	}
	payload, err := json.Marshal(env)
	if err != nil {
		slog.Warn("orchestrator: failed to encode pipeline state", "error", err)
		return
	}
	o.Memory.StorePipelineState(pipelineID, string(payload))
}

func (o *Orchestrator) emit(ctx context.Context, operation string, status observability.Status, durationMs int64, metadata map[string]string) {
	if o.Bus == nil {
		return
	}
	o.Bus.Emit(ctx, observability.Event{
		Component:  "orchestrator",
		Operation:  operation,
		Status:     status,
		DurationMs: durationMs,
		Metadata:   metadata,
	})
}
