// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package promptbuilder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coding-pipeline/pkg/types"
)

func TestBuildPromptRequiresTaskOrInstructions(t *testing.T) {
	b := New()
	_, err := b.BuildPrompt(Context{})
	require.Error(t, err)
}

func TestBuildPromptRendersCoreSections(t *testing.T) {
	b := New()
	out, err := b.BuildPrompt(Context{
		Step:            "generate-code",
		StepIndex:       3,
		PipelineID:      "pipeline-1",
		Phase:           types.PhaseImplementation,
		AgentKey:        "code-generator",
		TaskDescription: "Implement the widget service.",
		PreviousOutput:  "Interfaces were designed in the prior phase.",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "# Agent Step: generate-code")
	assert.Contains(t, out, "pipeline-1")
	assert.Contains(t, out, "code-generator")
	assert.Contains(t, out, "## Task")
	assert.Contains(t, out, "Implement the widget service.")
	assert.Contains(t, out, "## Prior Step Output")
	assert.Contains(t, out, "## Execution Instructions")
}

func TestBuildPromptOmitsEmptyOptionalSections(t *testing.T) {
	b := New()
	out, err := b.BuildPrompt(Context{Step: "s", TaskDescription: "do it"})
	require.NoError(t, err)

	assert.NotContains(t, out, "## Prior Step Output")
	assert.NotContains(t, out, "## Relevant Code Context")
	assert.NotContains(t, out, "## Prior Attempts (Reflexion)")
	assert.NotContains(t, out, "## Applicable Patterns")
	assert.NotContains(t, out, "## Situational Awareness")
}

func TestBuildPromptRendersBulletSectionsWhenPresent(t *testing.T) {
	b := New()
	out, err := b.BuildPrompt(Context{
		Step:             "s",
		TaskDescription:  "do it",
		SemanticContext:  []string{"file a.go defines Widget"},
		ReflexionContext: []string{"previous attempt failed on nil pointer"},
		PatternContext:   []string{"retry with exponential backoff"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "## Relevant Code Context")
	assert.Contains(t, out, "- file a.go defines Widget")
	assert.Contains(t, out, "## Prior Attempts (Reflexion)")
	assert.Contains(t, out, "- previous attempt failed on nil pointer")
	assert.Contains(t, out, "## Applicable Patterns")
	assert.Contains(t, out, "- retry with exponential backoff")
}

func TestBuildPromptInstructionsOnlyIsSufficient(t *testing.T) {
	b := New()
	out, err := b.BuildPrompt(Context{Step: "s", Instructions: "follow the style guide"})
	require.NoError(t, err)
	assert.Contains(t, out, "## Instructions")
	assert.Contains(t, out, "follow the style guide")
}

func TestBuildPromptSectionOrdering(t *testing.T) {
	b := New()
	out, err := b.BuildPrompt(Context{
		Step:                 "s",
		TaskDescription:      "do it",
		PreviousOutput:       "prior",
		SemanticContext:      []string{"ctx"},
		SituationalAwareness: "other agents are editing db.go",
	})
	require.NoError(t, err)

	taskIdx := strings.Index(out, "## Task")
	priorIdx := strings.Index(out, "## Prior Step Output")
	ctxIdx := strings.Index(out, "## Relevant Code Context")
	awarenessIdx := strings.Index(out, "## Situational Awareness")
	execIdx := strings.Index(out, "## Execution Instructions")

	assert.True(t, taskIdx < priorIdx)
	assert.True(t, priorIdx < ctxIdx)
	assert.True(t, ctxIdx < awarenessIdx)
	assert.True(t, awarenessIdx < execIdx)
}
