// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package stepexecutor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sst/opencode-sdk-go"
	"github.com/sst/opencode-sdk-go/option"

	"coding-pipeline/pkg/types"
)

// OpenCodeExecutor runs agent prompts against a local opencode serve
// instance, one session per agent key so trajectories don't bleed into each
// other across agents sharing a pipeline run.
type OpenCodeExecutor struct {
	sdk *opencode.Client

	mu       sync.Mutex
	sessions map[types.AgentKey]string
}

// NewOpenCodeExecutor configures a client against baseURL (a local
// "opencode serve" instance; no API key is needed for local connections).
func NewOpenCodeExecutor(baseURL string) *OpenCodeExecutor {
	return &OpenCodeExecutor{
		sdk:      opencode.NewClient(option.WithBaseURL(baseURL)),
		sessions: make(map[types.AgentKey]string),
	}
}

// Execute sends prompt through the agent's session, creating one on first
// use, and converts the response into a Result. Quality is derived from
// whether the session produced any text output at all; richer scoring is
// left to the learning subsystem's feedback loop, not this boundary.
func (e *OpenCodeExecutor) Execute(ctx context.Context, agentKey types.AgentKey, prompt string, timeout time.Duration) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	sessionID, err := e.sessionFor(ctx, agentKey)
	if err != nil {
		return Result{}, err
	}

	parts := []opencode.SessionPromptParamsPartUnion{
		opencode.TextPartInputParam{
			Type: opencode.F(opencode.TextPartInputTypeText),
			Text: opencode.F(prompt),
		},
	}

	message, err := e.sdk.Session.Prompt(ctx, sessionID, opencode.SessionPromptParams{
		Parts: opencode.F(parts),
	})
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("stepexecutor: agent %q timed out after %s", agentKey, timeout)
		}
		return Result{}, fmt.Errorf("stepexecutor: prompt agent %q: %w", agentKey, err)
	}

	var output string
	for _, part := range message.Parts {
		if part.Type == opencode.PartTypeText {
			output += part.Text
		}
	}

	quality := 0.0
	if output != "" {
		quality = 1.0
	}

	return Result{Output: output, Quality: quality, Duration: time.Since(start)}, nil
}

// sessionFor returns the agent's session id, creating it on first use.
// Serialized so concurrent invocations for the same agent never race on
// session creation.
func (e *OpenCodeExecutor) sessionFor(ctx context.Context, agentKey types.AgentKey) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id, ok := e.sessions[agentKey]; ok {
		return id, nil
	}
	session, err := e.sdk.Session.New(ctx, opencode.SessionNewParams{
		Title: opencode.F(fmt.Sprintf("agent:%s", agentKey)),
	})
	if err != nil {
		return "", fmt.Errorf("stepexecutor: create session for %q: %w", agentKey, err)
	}
	e.sessions[agentKey] = session.ID
	return session.ID, nil
}
