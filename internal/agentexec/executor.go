// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package agentexec runs exactly one agent once: the full context-gather,
// prompt-build, step-executor, hand-off and cleanup sequence.
package agentexec

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coding-pipeline/internal/leann"
	"coding-pipeline/internal/learning"
	"coding-pipeline/internal/memory"
	"coding-pipeline/internal/observability"
	"coding-pipeline/internal/progress"
	"coding-pipeline/internal/promptbuilder"
	"coding-pipeline/internal/stepexecutor"
	"coding-pipeline/pkg/types"
)

// Executor runs single agents. All collaborators except StepExecutor are
// optional; a nil StepExecutor is a fail-fast configuration error.
type Executor struct {
	StepExecutor   stepexecutor.StepExecutor // required
	PromptBuilder  promptbuilder.Builder
	Memory         *memory.Coordinator
	Progress       *progress.Store
	Claims         *progress.FileClaims
	Bus            observability.Bus
	Learning       learning.ReasoningBank
	Leann          leann.ContextService
	InstructionsOf func(types.AgentKey) string // loads agent instructions; falls back to mapping description
}

// Request describes one agent invocation.
type Request struct {
	Mapping         types.AgentMapping
	StepIndex       int
	PipelineID      string
	TaskType        string
	TaskDescription string
	PreviousStep    memory.Step // used to retrieve previousOutput
}

// Run executes mapping once end-to-end and returns its AgentExecutionResult.
// It never returns an error for an agent-level failure — that is reported
// via AgentExecutionResult.Success=false — only for executor
// misconfiguration (no StepExecutor).
func (e *Executor) Run(ctx context.Context, req Request, timeout time.Duration) (types.AgentExecutionResult, error) {
	if e.StepExecutor == nil {
		return types.AgentExecutionResult{}, stepexecutor.ErrNoStepExecutor{}
	}

	key := req.Mapping.Key
	start := time.Now()
	if e.Progress != nil {
		e.Progress.MarkActive(key)
	}
	e.emit(ctx, "agentexec", "agent_started", observability.StatusRunning, 0, key)

	result, runErr := e.run(ctx, req, timeout)
	duration := time.Since(start)

	trajectoryID := fmt.Sprintf("trajectory_coding_%s_%s", req.PipelineID, key)

	if runErr != nil {
		if e.Progress != nil {
			e.Progress.MarkFailed(key, runErr.Error(), duration.Milliseconds())
		}
		e.createTrajectory(ctx, trajectoryID, req, []string{"agent:" + string(key), "failed"})
		learning.SafeFeedback(ctx, e.Learning, trajectoryID, 0, learning.FeedbackOptions{})
		if e.Claims != nil {
			e.Claims.ReleaseAll(key)
		}
		e.emit(ctx, "agentexec", "agent_failed", observability.StatusError, duration.Milliseconds(), key)
		return types.AgentExecutionResult{
			AgentKey:        key,
			Success:         false,
			ExecutionTimeMs: duration.Milliseconds(),
			Error:           runErr.Error(),
		}, nil
	}

	summary := ExtractOutputSummary(result.Output)
	if e.Progress != nil {
		e.Progress.MarkCompleted(key, summary, duration.Milliseconds())
	}
	learning.SafeFeedback(ctx, e.Learning, trajectoryID, result.Quality, learning.FeedbackOptions{})
	if e.Claims != nil {
		e.Claims.ReleaseAll(key)
	}
	e.emit(ctx, "agentexec", "agent_completed", observability.StatusSuccess, duration.Milliseconds(), key)

	files := make(map[string]string, len(summary.FilesCreated)+len(summary.FilesModified))
	for _, f := range append(append([]string(nil), summary.FilesCreated...), summary.FilesModified...) {
		files[f] = result.Output
	}
	leann.SafeForwardFiles(ctx, e.Leann, files)

	memWrites := []string{req.Mapping.FirstWriteDomain()}

	return types.AgentExecutionResult{
		AgentKey:        key,
		Success:         true,
		Output:          result.Output,
		XPEarned:        req.Mapping.XPReward,
		MemoryWrites:    memWrites,
		ExecutionTimeMs: duration.Milliseconds(),
	}, nil
}

func (e *Executor) run(ctx context.Context, req Request, timeout time.Duration) (stepexecutor.Result, error) {
	key := req.Mapping.Key

	// Gather the newest entry from every declared read domain, most recent
	// hand-off first per domain; fall back to the caller-supplied step query
	// when the mapping declares no reads.
	previousOutput := ""
	if e.Memory != nil {
		var sections []string
		for _, domain := range req.Mapping.Reads {
			if r := e.Memory.RetrievePreviousOutput(memory.Step{InputDomain: domain}, req.PipelineID); r.Found {
				sections = append(sections, fmt.Sprintf("[%s]\n%s", domain, r.Output))
			}
		}
		if len(sections) > 0 {
			previousOutput = strings.Join(sections, "\n\n")
		} else if r := e.Memory.RetrievePreviousOutput(req.PreviousStep, req.PipelineID); r.Found {
			previousOutput = r.Output
		}
	}

	semantic := leann.SafeBuildSemanticContext(ctx, e.Leann, leann.SemanticContextRequest{
		TaskDescription: req.TaskDescription,
		Phase:           req.Mapping.Phase,
		PreviousOutput:  previousOutput,
		MaxResults:      5,
	})
	var semanticCtx []string
	for _, frag := range semantic.CodeContext {
		semanticCtx = append(semanticCtx, fmt.Sprintf("%s:\n%s", frag.FilePath, frag.Content))
	}

	var reflexionCtx []string
	if bank, ok := e.Learning.(*learning.InMemoryBank); ok {
		entries, _ := bank.ReflexionContext(string(key))
		for _, entry := range entries {
			reflexionCtx = append(reflexionCtx, fmt.Sprintf("quality=%.2f: %s", entry.Quality, entry.Context))
		}
	}

	var patternCtx []string
	if bank, ok := e.Learning.(*learning.InMemoryBank); ok {
		for _, p := range bank.Patterns(req.TaskType) {
			patternCtx = append(patternCtx, fmt.Sprintf("%s (success rate %.2f): %s", p.TaskType, p.SuccessRate, p.Description))
		}
	}

	instructions := req.Mapping.Description
	if e.InstructionsOf != nil {
		if loaded := e.InstructionsOf(key); loaded != "" {
			instructions = loaded
		}
	}

	situational := e.buildSituationalAwareness(req.Mapping.Phase, key)

	builder := e.PromptBuilder
	if builder == nil {
		builder = promptbuilder.New()
	}
	prompt, err := builder.BuildPrompt(promptbuilder.Context{
		Step:                 string(key),
		StepIndex:            req.StepIndex,
		PipelineID:           req.PipelineID,
		Phase:                req.Mapping.Phase,
		AgentKey:             key,
		TaskDescription:      req.TaskDescription,
		PreviousOutput:       previousOutput,
		SemanticContext:      semanticCtx,
		ReflexionContext:     reflexionCtx,
		PatternContext:       patternCtx,
		SituationalAwareness: situational,
		Instructions:         instructions,
	})
	if err != nil {
		return stepexecutor.Result{}, fmt.Errorf("agentexec: build prompt for %q: %w", key, err)
	}

	result, err := e.raceExecute(ctx, key, prompt, timeout)
	if err != nil {
		return stepexecutor.Result{}, err
	}

	if e.Memory != nil {
		step := memory.Step{
			OutputDomain: req.Mapping.FirstWriteDomain(),
			OutputTags:   []string{},
		}
		if _, storeErr := e.Memory.StoreStepOutput(step, req.StepIndex, req.PipelineID, result.Output, key); storeErr != nil {
			return stepexecutor.Result{}, fmt.Errorf("agentexec: store output for %q: %w", key, storeErr)
		}
	}

	trajectoryID := fmt.Sprintf("trajectory_coding_%s_%s", req.PipelineID, key)
	tags := []string{"agent:" + string(key)}
	if result.Quality < 0.7 {
		tags = append(tags, "failed")
	}
	e.createTrajectory(ctx, trajectoryID, req, tags)

	return result, nil
}

// createTrajectory records a trajectory for this run, preferring the tagged
// form when the bank supports it so reflexion context can filter by agent
// and outcome. Best-effort either way.
func (e *Executor) createTrajectory(ctx context.Context, trajectoryID string, req Request, tags []string) {
	if e.Learning == nil {
		return
	}
	route := string(req.Mapping.Algorithm)
	taskContext := map[string]string{"taskType": req.TaskType}
	if tagger, ok := e.Learning.(learning.Tagger); ok {
		if err := tagger.CreateTrajectoryWithTags(ctx, trajectoryID, route, nil, tags, taskContext); err != nil {
			slog.Warn("agentexec: trajectory creation failed", "agent", req.Mapping.Key, "error", err)
		}
		return
	}
	learning.SafeCreateTrajectory(ctx, e.Learning, trajectoryID, route, nil, taskContext)
}

// raceExecute runs the step executor as a race against an explicit timer,
// so a StepExecutor implementation that ignores context cancellation still
// cannot hang the phase.
func (e *Executor) raceExecute(ctx context.Context, key types.AgentKey, prompt string, timeout time.Duration) (stepexecutor.Result, error) {
	type outcome struct {
		result stepexecutor.Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		r, err := e.StepExecutor.Execute(ctx, key, prompt, timeout)
		done <- outcome{result: r, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case o := <-done:
		return o.result, o.err
	case <-timer.C:
		return stepexecutor.Result{}, fmt.Errorf("agentexec: agent %q exceeded timeout of %s", key, timeout)
	case <-ctx.Done():
		return stepexecutor.Result{}, fmt.Errorf("agentexec: agent %q cancelled: %w", key, ctx.Err())
	}
}

func (e *Executor) buildSituationalAwareness(phase types.Phase, self types.AgentKey) string {
	if e.Progress == nil {
		return ""
	}
	var sb strings.Builder
	if active := e.Progress.ActiveInPhase(phase); len(active) > 0 {
		sb.WriteString("Active peers: ")
		sb.WriteString(joinKeys(active))
		sb.WriteString(". ")
	}
	if completed := e.Progress.CompletedInPhase(phase); len(completed) > 0 {
		sb.WriteString("Completed peers: ")
		sb.WriteString(joinKeys(completed))
		sb.WriteString(". ")
	}
	if e.Claims != nil {
		if conflicts := e.Claims.GetConflicts(self); len(conflicts) > 0 {
			sb.WriteString("File claim conflicts: ")
			for i, c := range conflicts {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(c.Path + " held by " + string(c.Holder))
			}
			sb.WriteString(".")
		}
	}
	return sb.String()
}

func joinKeys(keys []types.AgentKey) string {
	strs := make([]string, len(keys))
	for i, k := range keys {
		strs[i] = string(k)
	}
	return strings.Join(strs, ", ")
}

func (e *Executor) emit(ctx context.Context, component, operation string, status observability.Status, durationMs int64, key types.AgentKey) {
	if e.Bus == nil {
		return
	}
	e.Bus.Emit(ctx, observability.Event{
		Component:  component,
		Operation:  operation,
		Status:     status,
		DurationMs: durationMs,
		Metadata:   map[string]string{"agent": string(key)},
	})
}

// --- output summary extraction ---

// ExtractOutputSummary pulls structured markers out of raw agent output:
// recognized markers (case-insensitive, line-leading) populate the
// corresponding field; when nothing matches, keyFindings falls back to the
// first three non-empty lines. Calling this twice on the same output
// produces identical results (it performs no mutation of shared state).
func ExtractOutputSummary(output string) progress.OutputSummary {
	var summary progress.OutputSummary
	summary.OutputLength = len(output)

	lines := strings.Split(output, "\n")
	matched := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)

		switch {
		case hasMarker(lower, "created:"), hasMarker(lower, "file created:"):
			summary.FilesCreated = append(summary.FilesCreated, valueAfterMarker(trimmed))
			matched = true
		case hasMarker(lower, "modified:"), hasMarker(lower, "file modified:"):
			summary.FilesModified = append(summary.FilesModified, valueAfterMarker(trimmed))
			matched = true
		case hasMarker(lower, "decision:"):
			summary.Decisions = append(summary.Decisions, valueAfterMarker(trimmed))
			matched = true
		case hasMarker(lower, "finding:"), hasMarker(lower, "key finding:"):
			summary.KeyFindings = append(summary.KeyFindings, valueAfterMarker(trimmed))
			matched = true
		}
	}

	if !matched {
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			summary.KeyFindings = append(summary.KeyFindings, trimmed)
			if len(summary.KeyFindings) == 3 {
				break
			}
		}
	}

	return summary
}

func hasMarker(lower, marker string) bool {
	return strings.HasPrefix(lower, marker)
}

func valueAfterMarker(line string) string {
	idx := strings.Index(line, ":")
	if idx < 0 || idx+1 >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[idx+1:])
}
