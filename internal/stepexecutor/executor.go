// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package stepexecutor defines the required collaborator that actually runs
// an agent's prompt and the concrete implementations that
// back it: a local opencode server and an optional Docker sandbox decorator.
package stepexecutor

import (
	"context"
	"time"

	"coding-pipeline/pkg/types"
)

// Result is what a Step Executor returns for one invocation.
type Result struct {
	Output   string
	Quality  float64 // in [0, 1]
	Duration time.Duration
}

// StepExecutor is required; there is no default implementation. A pipeline
// constructed without one must fail fast rather than fabricate output.
type StepExecutor interface {
	Execute(ctx context.Context, agentKey types.AgentKey, prompt string, timeout time.Duration) (Result, error)
}

// ErrNoStepExecutor is returned by callers (agentexec) when asked to run an
// agent with a nil StepExecutor.
type ErrNoStepExecutor struct{}

func (ErrNoStepExecutor) Error() string {
	return "stepexecutor: no StepExecutor configured; refusing to fabricate agent output"
}
