// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package stepexecutor

import (
	"context"
	"fmt"
	"time"

	"coding-pipeline/pkg/types"
)

// DryRunExecutor returns canned output for every agent, letting the full
// pipeline be exercised without a live agent backend. It is never wired as
// a default: a caller must select it deliberately (the -dry-run flag), so
// the rule that a missing StepExecutor fails fast rather than fabricating
// output stays intact.
type DryRunExecutor struct{}

// Execute implements StepExecutor with a deterministic placeholder result.
func (DryRunExecutor) Execute(ctx context.Context, agentKey types.AgentKey, prompt string, timeout time.Duration) (Result, error) {
	start := time.Now()
	output := fmt.Sprintf("Decision: dry-run placeholder output for %s", agentKey)
	return Result{Output: output, Quality: 0.9, Duration: time.Since(start)}, nil
}
