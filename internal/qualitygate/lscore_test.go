// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package qualitygate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coding-pipeline/pkg/types"
)

func TestPhaseThresholdsRiseMonotonically(t *testing.T) {
	order := types.Phases
	for i := 1; i < len(order); i++ {
		prev := ThresholdForPhase(order[i-1])
		next := ThresholdForPhase(order[i])
		assert.GreaterOrEqual(t, next, prev, "threshold for %v should be >= threshold for %v", order[i], order[i-1])
	}
}

func TestPhaseWeightsSumToOne(t *testing.T) {
	for _, phase := range types.Phases {
		w := WeightsForPhase(phase)
		sum := w.Accuracy + w.Completeness + w.Maintainability + w.Security + w.Performance + w.TestCoverage
		assert.InDelta(t, 1.0, sum, 0.0001, "weights for %v must sum to 1.0", phase)
	}
}

func TestTestingPhaseEmphasizesTestCoverage(t *testing.T) {
	w := WeightsForPhase(types.PhaseTesting)
	assert.Greater(t, w.TestCoverage, w.Accuracy)
	assert.Greater(t, w.TestCoverage, w.Performance)
}

func TestOptimizationPhaseEmphasizesPerformance(t *testing.T) {
	w := WeightsForPhase(types.PhaseOptimization)
	assert.Greater(t, w.Performance, w.Accuracy)
	assert.Greater(t, w.Performance, w.TestCoverage)
}

func TestCompositeIsWeightedMean(t *testing.T) {
	c := Components{Accuracy: 1, Completeness: 1, Maintainability: 1, Security: 1, Performance: 1, TestCoverage: 1}
	w := WeightsForPhase(types.PhaseUnderstanding)
	assert.InDelta(t, 1.0, Composite(c, w), 0.0001)
}

func TestClassifyBoundaries(t *testing.T) {
	threshold := 0.80
	assert.Equal(t, ResultPassed, Classify(0.80, threshold))
	assert.Equal(t, ResultPassed, Classify(0.95, threshold))
	assert.Equal(t, ResultConditionalPass, Classify(0.76, threshold))
	assert.Equal(t, ResultSoftReject, Classify(0.70, threshold))
	assert.Equal(t, ResultHardReject, Classify(0.60, threshold))
}

func TestClassifyNeverReturnsEmergencyBypass(t *testing.T) {
	for _, score := range []float64{0, 0.2, 0.5, 0.79, 0.8, 0.95, 1.0} {
		assert.NotEqual(t, ResultEmergencyBypass, Classify(score, 0.8))
	}
}

func TestEvaluateUsesPhaseSpecificWeightsAndThreshold(t *testing.T) {
	perfect := Components{Accuracy: 1, Completeness: 1, Maintainability: 1, Security: 1, Performance: 1, TestCoverage: 1}
	composite, result := Evaluate(types.PhaseDelivery, perfect)
	assert.InDelta(t, 1.0, composite, 0.0001)
	assert.Equal(t, ResultPassed, result)

	weak := Components{Accuracy: 0.5, Completeness: 0.5, Maintainability: 0.5, Security: 0.5, Performance: 0.5, TestCoverage: 0.5}
	composite, result = Evaluate(types.PhaseDelivery, weak)
	assert.InDelta(t, 0.5, composite, 0.0001)
	assert.Equal(t, ResultHardReject, result)
}

func TestWeightsForUnknownPhaseFallsBackToUniform(t *testing.T) {
	w := WeightsForPhase(types.Phase(99))
	assert.InDelta(t, 1.0/6, w.Accuracy, 0.0001)
}

func TestThresholdForUnknownPhaseFallsBackToDefault(t *testing.T) {
	assert.Equal(t, 0.75, ThresholdForPhase(types.Phase(99)))
}
