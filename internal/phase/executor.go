// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package phase runs one phase of the pipeline end to end: resolving
// execution order, batching, running agents, gating the result through
// Sherlock, and applying the retry policy.
package phase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"coding-pipeline/internal/agentexec"
	"coding-pipeline/internal/checkpoint"
	"coding-pipeline/internal/config"
	"coding-pipeline/internal/memory"
	"coding-pipeline/internal/observability"
	"coding-pipeline/internal/progress"
	"coding-pipeline/internal/resolver"
	"coding-pipeline/internal/sherlock"
	"coding-pipeline/pkg/types"
)

// MaxRetryCount bounds remediation re-runs of a failed phase.
const MaxRetryCount = 3

// AgentSource resolves the static mappings for a phase; the Phase Executor
// is agnostic to whether they came from static config or the dynamic
// catalog loader.
type AgentSource func(phase types.Phase) []types.AgentMapping

// Executor runs a single phase, including its retry loop.
type Executor struct {
	Agents     AgentSource
	AgentExec  *agentexec.Executor
	Progress   *progress.Store
	Checkpoint *checkpoint.Manager
	Gate       *sherlock.Gate
	Quality    *sherlock.LScoreIntegration
	Memory     *memory.Coordinator
	Bus        observability.Bus
}

// Outcome is the result of running a phase through its full retry loop.
type Outcome struct {
	Result       types.PhaseExecutionResult
	RetriesUsed  int
	Escalated    bool
	Remediations []string
}

// Run executes phase end to end, including Sherlock-driven retries, up to
// MaxRetryCount.
func (e *Executor) Run(ctx context.Context, phase types.Phase, cfg config.PipelineConfig, pipelineID string, state *types.ExecutionState) Outcome {
	var remediations []string
	for retryCount := 0; ; retryCount++ {
		result := e.executeOnce(ctx, phase, cfg, pipelineID, state, remediations)
		if e.Quality != nil {
			e.Quality.RecordPhaseResult(result)
		}

		if e.Gate == nil {
			if result.Success {
				e.maybeCheckpoint(phase, cfg, pipelineID, state, &result)
			}
			return Outcome{Result: result, RetriesUsed: retryCount}
		}

		validation := e.Gate.Evaluate(ctx, phase, pipelineID, result, retryCount)
		result.ValidationResult = &validation

		switch {
		case validation.Verdict == types.VerdictInnocent:
			result.Success = true
			e.maybeCheckpoint(phase, cfg, pipelineID, state, &result)
			return Outcome{Result: result, RetriesUsed: retryCount}

		case retryCount >= MaxRetryCount:
			result.Success = false
			return Outcome{Result: result, RetriesUsed: retryCount, Escalated: true, Remediations: validation.Remediations}

		default:
			// GUILTY or INSUFFICIENT_EVIDENCE with retries remaining: loop
			// again, feeding remediations into the next attempt's prompts.
			// INSUFFICIENT_EVIDENCE is a re-collection-only replay; the
			// distinction is carried by RetryExploreOnly for callers that
			// need it, since this executor's agents don't distinguish
			// replay modes.
			remediations = validation.Remediations
			slog.Info("phase: retrying after gate verdict", "phase", phase, "verdict", validation.Verdict, "retry", retryCount+1)
		}
	}
}

// executeOnce resolves, batches and runs the phase's agents once, without
// consulting the gate.
func (e *Executor) executeOnce(ctx context.Context, phase types.Phase, cfg config.PipelineConfig, pipelineID string, state *types.ExecutionState, remediations []string) types.PhaseExecutionResult {
	start := time.Now()
	if t := cfg.PhaseTimeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	e.emit(ctx, "phase_started", observability.StatusRunning, 0, phase)

	agents := e.Agents(phase)
	ordered, err := resolver.ResolveExecutionOrder(agents)
	if err != nil {
		slog.Error("phase: failed to resolve execution order", "phase", phase, "error", err)
		return types.PhaseExecutionResult{Phase: phase, Success: false, ExecutionTimeMs: time.Since(start).Milliseconds()}
	}

	byKey := make(map[types.AgentKey]types.AgentMapping, len(agents))
	for _, m := range agents {
		byKey[m.Key] = m
		if e.Progress != nil {
			e.Progress.Register(m.Key, phase)
		}
	}

	batches := resolver.BatchAgentsForExecution(ordered, byKey, cfg.EnableParallelExecution, cfg.MaxParallelAgents)

	stepIndexOf := make(map[types.AgentKey]int, len(ordered))
	for i, key := range ordered {
		stepIndexOf[key] = i
	}

	var allResults []types.AgentExecutionResult
	var totalXP int
	aborted := false

	for _, batch := range batches {
		results := e.runBatch(ctx, batch, byKey, stepIndexOf, phase, cfg, pipelineID, remediations)
		for _, r := range results {
			allResults = append(allResults, r)
			state.SetResult(r)
			if r.Success {
				totalXP += r.XPEarned
			} else if byKey[r.AgentKey].Critical {
				aborted = true
			}
		}
		if aborted {
			break
		}
	}
	state.AddXP(totalXP)

	result := types.PhaseExecutionResult{
		Phase:           phase,
		Success:         !aborted,
		AgentResults:    allResults,
		TotalXP:         totalXP,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}

	status := observability.StatusSuccess
	if aborted {
		status = observability.StatusError
	}
	e.emit(ctx, "phase_completed", status, result.ExecutionTimeMs, phase)
	if e.Memory != nil {
		e.Memory.Store(memory.PhaseDomain(phase, "result"), pipelineID, fmt.Sprintf("success=%v agents=%d xp=%d", result.Success, len(allResults), totalXP))
	}

	return result
}

func (e *Executor) emit(ctx context.Context, operation string, status observability.Status, durationMs int64, phase types.Phase) {
	if e.Bus == nil {
		return
	}
	e.Bus.Emit(ctx, observability.Event{
		Component:  "phase",
		Operation:  operation,
		Status:     status,
		DurationMs: durationMs,
		Metadata:   map[string]string{"phase": phase.String()},
	})
}

// runBatch executes every agent in a batch concurrently and awaits all of
// them before returning; results are collected in the batch's scheduling
// order regardless of completion order.
func (e *Executor) runBatch(ctx context.Context, batch []types.AgentKey, byKey map[types.AgentKey]types.AgentMapping, stepIndexOf map[types.AgentKey]int, phase types.Phase, cfg config.PipelineConfig, pipelineID string, remediations []string) []types.AgentExecutionResult {
	results := make([]types.AgentExecutionResult, len(batch))
	var wg sync.WaitGroup
	wg.Add(len(batch))

	for i, key := range batch {
		go func(i int, key types.AgentKey) {
			defer wg.Done()
			mapping := byKey[key]
			req := agentexec.Request{
				Mapping:         mapping,
				StepIndex:       stepIndexOf[key],
				PipelineID:      pipelineID,
				TaskType:        phase.String(),
				TaskDescription: taskDescription(cfg, remediations),
				PreviousStep: memory.Step{
					InputDomain: mapping.FirstReadDomain(),
				},
			}
			result, err := e.AgentExec.Run(ctx, req, cfg.AgentTimeout())
			if err != nil {
				slog.Error("phase: agent executor misconfigured", "agent", key, "error", err)
				result = types.AgentExecutionResult{AgentKey: key, Success: false, Error: err.Error()}
			}
			results[i] = result
		}(i, key)
	}

	wg.Wait()
	return results
}

func taskDescription(cfg config.PipelineConfig, remediations []string) string {
	if len(remediations) == 0 {
		return cfg.TaskDescription
	}
	return cfg.TaskDescription + "\n\nRemediations from prior attempt:\n" + strings.Join(remediations, "\n")
}

// maybeCheckpoint snapshots memory and execution state at the end of a
// configured checkpoint phase, once the phase has fully succeeded, so the
// snapshot captures this phase's completions rather than racing mid-phase
// writes.
func (e *Executor) maybeCheckpoint(phase types.Phase, cfg config.PipelineConfig, pipelineID string, state *types.ExecutionState, result *types.PhaseExecutionResult) {
	if !cfg.IsCheckpointPhase(phase) || e.Checkpoint == nil {
		return
	}
	e.Checkpoint.Create(phase, pipelineID, e.checkpointDomains(), state)
	result.CheckpointCreated = true
}

// checkpointDomains returns every populated coding/ domain except the
// checkpoint store itself, so a snapshot captures all prior hand-offs
// without recursively snapshotting checkpoints.
func (e *Executor) checkpointDomains() []string {
	if e.Memory == nil {
		return nil
	}
	var out []string
	for _, d := range e.Memory.Domains() {
		if d == "coding/pipeline/checkpoints" {
			continue
		}
		if strings.HasPrefix(d, "coding/") {
			out = append(out, d)
		}
	}
	return out
}
