// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package learning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTrajectoryRejectsDuplicateID(t *testing.T) {
	b := NewInMemoryBank()
	require.NoError(t, b.CreateTrajectoryWithID(context.Background(), "t1", "route", nil, nil))
	err := b.CreateTrajectoryWithID(context.Background(), "t1", "route", nil, nil)
	require.Error(t, err)
}

func TestProvideFeedbackUnknownTrajectory(t *testing.T) {
	b := NewInMemoryBank()
	err := b.ProvideFeedback(context.Background(), "ghost", 0.9, FeedbackOptions{})
	require.Error(t, err)
}

func TestProvideFeedbackPromotesPatternAboveThreshold(t *testing.T) {
	b := NewInMemoryBank()
	ctx := context.Background()
	require.NoError(t, b.CreateTrajectoryWithID(ctx, "t1", "generate code", nil, map[string]string{"taskType": "codegen"}))

	require.NoError(t, b.ProvideFeedback(ctx, "t1", 0.80, FeedbackOptions{}))

	patterns := b.Patterns("codegen")
	require.Len(t, patterns, 1)
	assert.Equal(t, "generate code", patterns[0].Description)
	assert.InDelta(t, 0.80, patterns[0].SuccessRate, 0.0001)
}

func TestProvideFeedbackBelowThresholdDoesNotPromote(t *testing.T) {
	b := NewInMemoryBank()
	ctx := context.Background()
	require.NoError(t, b.CreateTrajectoryWithID(ctx, "t1", "generate code", nil, map[string]string{"taskType": "codegen"}))
	require.NoError(t, b.ProvideFeedback(ctx, "t1", 0.50, FeedbackOptions{}))

	assert.Empty(t, b.Patterns("codegen"))
}

func TestPatternsFiltersByTaskTypeAndMinSuccessRate(t *testing.T) {
	b := NewInMemoryBank()
	ctx := context.Background()

	require.NoError(t, b.CreateTrajectoryWithID(ctx, "a", "route-a", nil, map[string]string{"taskType": "codegen"}))
	require.NoError(t, b.ProvideFeedback(ctx, "a", 0.9, FeedbackOptions{}))

	require.NoError(t, b.CreateTrajectoryWithID(ctx, "b", "route-b", nil, map[string]string{"taskType": "testing"}))
	require.NoError(t, b.ProvideFeedback(ctx, "b", 0.95, FeedbackOptions{}))

	patterns := b.Patterns("codegen")
	require.Len(t, patterns, 1)
	assert.Equal(t, "route-a", patterns[0].Description)
}

func TestPatternsSortedDescendingAndCappedAtFive(t *testing.T) {
	b := NewInMemoryBank()
	ctx := context.Background()

	rates := []float64{0.76, 0.99, 0.80, 0.85, 0.90, 0.95}
	for i, rate := range rates {
		id := string(rune('a' + i))
		require.NoError(t, b.CreateTrajectoryWithID(ctx, id, "route-"+id, nil, map[string]string{"taskType": "codegen"}))
		require.NoError(t, b.ProvideFeedback(ctx, id, rate, FeedbackOptions{}))
	}

	patterns := b.Patterns("codegen")
	require.Len(t, patterns, 5)
	for i := 1; i < len(patterns); i++ {
		assert.GreaterOrEqual(t, patterns[i-1].SuccessRate, patterns[i].SuccessRate)
	}
}

func TestReflexionContextSelectsRecentLowQualityOrFailedTrajectories(t *testing.T) {
	b := NewInMemoryBank()
	ctx := context.Background()

	require.NoError(t, b.CreateTrajectoryWithTags(ctx, "good", "route", nil, []string{"agent:code-generator"}, nil))
	require.NoError(t, b.ProvideFeedback(ctx, "good", 0.9, FeedbackOptions{}))

	require.NoError(t, b.CreateTrajectoryWithTags(ctx, "bad", "route", nil, []string{"agent:code-generator", "failed"}, nil))
	require.NoError(t, b.ProvideFeedback(ctx, "bad", 0.2, FeedbackOptions{}))

	entries, successRate := b.ReflexionContext("code-generator")
	require.Len(t, entries, 1)
	assert.Equal(t, "bad", entries[0].TrajectoryID)
	assert.InDelta(t, 0.5, successRate, 0.0001)
}

func TestReflexionContextUnknownAgentReturnsEmpty(t *testing.T) {
	b := NewInMemoryBank()
	entries, successRate := b.ReflexionContext("nobody")
	assert.Empty(t, entries)
	assert.Equal(t, float64(0), successRate)
}

func TestReflexionContextCapsAtFiveMostRecent(t *testing.T) {
	b := NewInMemoryBank()
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		require.NoError(t, b.CreateTrajectoryWithTags(ctx, id, "route", nil, []string{"agent:x", "failed"}, nil))
	}

	entries, _ := b.ReflexionContext("x")
	assert.Len(t, entries, 5)
}

func TestSafeFeedbackNilBankIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		SafeFeedback(context.Background(), nil, "t1", 0.9, FeedbackOptions{})
	})
}

func TestSafeCreateTrajectoryNilBankIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		SafeCreateTrajectory(context.Background(), nil, "t1", "route", nil, nil)
	})
}

func TestSafeFeedbackSwallowsErrorFromUnknownTrajectory(t *testing.T) {
	b := NewInMemoryBank()
	assert.NotPanics(t, func() {
		SafeFeedback(context.Background(), b, "ghost", 0.9, FeedbackOptions{})
	})
}
