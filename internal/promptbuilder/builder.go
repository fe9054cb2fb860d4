// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package promptbuilder renders the section-by-section prompt handed to the
// Step Executor for one agent run.
package promptbuilder

import (
	"fmt"
	"strings"
	"time"

	"coding-pipeline/pkg/types"
)

// Context carries everything the prompt may need to render. Optional
// fields are rendered only when non-empty, each as its own section.
type Context struct {
	Step                 string
	StepIndex            int
	PipelineID           string
	Phase                types.Phase
	AgentKey             types.AgentKey
	TaskDescription      string
	PreviousOutput       string
	SemanticContext      []string
	ReflexionContext     []string
	PatternContext       []string
	SituationalAwareness string
	Instructions         string
}

// Builder is the interface every PromptBuilder implementation satisfies.
type Builder interface {
	BuildPrompt(ctx Context) (string, error)
}

// DefaultBuilder is the stock section-based implementation: a header, a
// task section, then a
// variable number of conditionally-included context sections, then closing
// instructions.
type DefaultBuilder struct{}

// New creates the default prompt builder.
func New() *DefaultBuilder { return &DefaultBuilder{} }

// BuildPrompt renders ctx into the prompt text handed to the Step Executor.
func (b *DefaultBuilder) BuildPrompt(ctx Context) (string, error) {
	if ctx.TaskDescription == "" && ctx.Instructions == "" {
		return "", fmt.Errorf("promptbuilder: context has neither task description nor instructions")
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Agent Step: %s\n\n", ctx.Step))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n", time.Now().UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Pipeline:** %s  **Phase:** %s  **Step Index:** %d  **Agent:** %s\n\n",
		ctx.PipelineID, ctx.Phase, ctx.StepIndex, ctx.AgentKey))

	if ctx.Instructions != "" {
		sb.WriteString("## Instructions\n\n")
		sb.WriteString(ctx.Instructions)
		sb.WriteString("\n\n")
	}

	if ctx.TaskDescription != "" {
		sb.WriteString("## Task\n\n")
		sb.WriteString(ctx.TaskDescription)
		sb.WriteString("\n\n")
	}

	if ctx.PreviousOutput != "" {
		sb.WriteString("## Prior Step Output\n\n")
		sb.WriteString(ctx.PreviousOutput)
		sb.WriteString("\n\n")
	}

	writeBulletSection(&sb, "Relevant Code Context", ctx.SemanticContext)
	writeBulletSection(&sb, "Prior Attempts (Reflexion)", ctx.ReflexionContext)
	writeBulletSection(&sb, "Applicable Patterns", ctx.PatternContext)

	if ctx.SituationalAwareness != "" {
		sb.WriteString("## Situational Awareness\n\n")
		sb.WriteString(ctx.SituationalAwareness)
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Execution Instructions\n\n")
	sb.WriteString("1. Work only within the write domains this agent is responsible for.\n")
	sb.WriteString("2. Report created/modified files using `Created:`/`Modified:` markers, one per line.\n")
	sb.WriteString("3. Record `Decision:` and `Finding:` lines for anything later phases should be able to see.\n")

	return sb.String(), nil
}

func writeBulletSection(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("## " + title + "\n\n")
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
	sb.WriteString("\n")
}
