// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package sherlock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coding-pipeline/pkg/types"
)

func TestDefaultProtocolsOnePerPhasePresent(t *testing.T) {
	mappings := []types.AgentMapping{
		{Key: "task-analyzer", Phase: types.PhaseUnderstanding, Writes: []string{"coding/understanding/task"}},
		{Key: "code-generator", Phase: types.PhaseImplementation, Writes: []string{"coding/implementation/code"}},
	}
	protocols := DefaultProtocols(mappings)
	require.Len(t, protocols, 2)

	understanding := protocols[types.PhaseUnderstanding]
	assert.Equal(t, []string{"coding/understanding/task"}, understanding.EvidenceSourceKeys)
	require.Len(t, understanding.Checks, 1)
	assert.Equal(t, TierScan, understanding.DefaultTier)
	assert.Len(t, understanding.Personas, len(allPersonas))
}

func TestDefaultReviewTheBugFindsFailingAgent(t *testing.T) {
	preliminary := types.PhaseExecutionResult{
		AgentResults: []types.AgentExecutionResult{
			{AgentKey: "code-generator", Success: false, Error: "nil pointer"},
		},
	}
	finding := DefaultReview(PersonaTheBug, preliminary, nil)
	assert.Equal(t, SeverityCritical, finding.Severity)
	assert.Contains(t, finding.Findings, "nil pointer")
}

func TestDefaultReviewTheBugClearWhenAllSucceed(t *testing.T) {
	preliminary := types.PhaseExecutionResult{
		AgentResults: []types.AgentExecutionResult{{AgentKey: "code-generator", Success: true}},
	}
	finding := DefaultReview(PersonaTheBug, preliminary, nil)
	assert.Equal(t, SeverityInfo, finding.Severity)
}

func TestDefaultReviewPerformanceTesterFlagsSlowAgent(t *testing.T) {
	preliminary := types.PhaseExecutionResult{
		AgentResults: []types.AgentExecutionResult{{AgentKey: "code-generator", Success: true, ExecutionTimeMs: 200_000}},
	}
	finding := DefaultReview(PersonaThePerformanceTester, preliminary, nil)
	assert.Equal(t, SeverityWarning, finding.Severity)
}

func TestDefaultReviewGenericPersonaFlagsMissingEvidence(t *testing.T) {
	evidence := []EvidenceRecord{{Key: "coding/understanding/task", Status: EvidenceMissing}}
	finding := DefaultReview(PersonaTheNewHire, types.PhaseExecutionResult{}, evidence)
	assert.Equal(t, SeverityWarning, finding.Severity)
	assert.Contains(t, finding.Findings, "coding/understanding/task")
}

func TestSuccessRateCheckEmptyPreliminaryPasses(t *testing.T) {
	check := successRateCheck(0.8)
	actual, passed := check.Evaluate(nil, types.PhaseExecutionResult{})
	assert.True(t, passed)
	assert.Equal(t, "0/0", actual)
}

func TestSuccessRateCheckBelowThresholdFails(t *testing.T) {
	check := successRateCheck(0.8)
	preliminary := types.PhaseExecutionResult{
		AgentResults: []types.AgentExecutionResult{
			{AgentKey: "a", Success: true},
			{AgentKey: "b", Success: false},
		},
	}
	_, passed := check.Evaluate(nil, preliminary)
	assert.False(t, passed)
}
