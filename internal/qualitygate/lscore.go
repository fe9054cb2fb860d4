// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package qualitygate computes the composite L-Score for a phase and
// classifies it against phase-specific thresholds.
package qualitygate

import "coding-pipeline/pkg/types"

// Components is the six-dimension score breakdown, each in [0,1].
type Components struct {
	Accuracy        float64
	Completeness    float64
	Maintainability float64
	Security        float64
	Performance     float64
	TestCoverage    float64
}

// Weights is a per-phase weighting over the same six dimensions. A
// well-formed Weights sums to 1.0.
type Weights struct {
	Accuracy        float64
	Completeness    float64
	Maintainability float64
	Security        float64
	Performance     float64
	TestCoverage    float64
}

// Result is the gate's verdict for a phase.
type Result string

const (
	ResultPassed          Result = "PASSED"
	ResultConditionalPass Result = "CONDITIONAL_PASS"
	ResultSoftReject      Result = "SOFT_REJECT"
	ResultHardReject      Result = "HARD_REJECT"
	ResultEmergencyBypass Result = "EMERGENCY_BYPASS"
)

// uniform is the near-uniform weighting used for a complete pipeline run
// spanning every phase, rather than one phase in isolation.
var uniform = Weights{
	Accuracy: 1.0 / 6, Completeness: 1.0 / 6, Maintainability: 1.0 / 6,
	Security: 1.0 / 6, Performance: 1.0 / 6, TestCoverage: 1.0 / 6,
}

// phaseWeights gives each phase its emphasis: testing weights testCoverage
// heaviest, optimization weights performance heaviest, everything else
// leans toward accuracy/completeness/maintainability.
var phaseWeights = map[types.Phase]Weights{
	types.PhaseUnderstanding:  {Accuracy: 0.30, Completeness: 0.30, Maintainability: 0.15, Security: 0.10, Performance: 0.05, TestCoverage: 0.10},
	types.PhaseExploration:    {Accuracy: 0.30, Completeness: 0.30, Maintainability: 0.15, Security: 0.10, Performance: 0.05, TestCoverage: 0.10},
	types.PhaseArchitecture:   {Accuracy: 0.25, Completeness: 0.25, Maintainability: 0.25, Security: 0.15, Performance: 0.05, TestCoverage: 0.05},
	types.PhaseImplementation: {Accuracy: 0.25, Completeness: 0.20, Maintainability: 0.20, Security: 0.15, Performance: 0.10, TestCoverage: 0.10},
	types.PhaseTesting:        {Accuracy: 0.15, Completeness: 0.15, Maintainability: 0.10, Security: 0.10, Performance: 0.15, TestCoverage: 0.35},
	types.PhaseOptimization:   {Accuracy: 0.15, Completeness: 0.10, Maintainability: 0.10, Security: 0.10, Performance: 0.35, TestCoverage: 0.20},
	types.PhaseDelivery:       {Accuracy: 0.20, Completeness: 0.20, Maintainability: 0.20, Security: 0.20, Performance: 0.10, TestCoverage: 0.10},
}

// WeightsForPhase returns the configured weighting for phase, falling back
// to the near-uniform weighting used for a whole-pipeline evaluation.
func WeightsForPhase(phase types.Phase) Weights {
	if w, ok := phaseWeights[phase]; ok {
		return w
	}
	return uniform
}

// phaseThresholds is the PASSED threshold per phase: starts at 0.75 for
// understanding and rises monotonically to 0.95 for delivery.
var phaseThresholds = map[types.Phase]float64{
	types.PhaseUnderstanding:  0.75,
	types.PhaseExploration:    0.78,
	types.PhaseArchitecture:   0.82,
	types.PhaseImplementation: 0.86,
	types.PhaseTesting:        0.90,
	types.PhaseOptimization:   0.92,
	types.PhaseDelivery:       0.95,
}

// ThresholdForPhase returns the PASSED threshold for phase.
func ThresholdForPhase(phase types.Phase) float64 {
	if t, ok := phaseThresholds[phase]; ok {
		return t
	}
	return 0.75
}

// Composite computes the weighted mean of c under w.
func Composite(c Components, w Weights) float64 {
	return c.Accuracy*w.Accuracy +
		c.Completeness*w.Completeness +
		c.Maintainability*w.Maintainability +
		c.Security*w.Security +
		c.Performance*w.Performance +
		c.TestCoverage*w.TestCoverage
}

// Classify buckets a composite score against phase's threshold into one of
// the five gate results. EMERGENCY_BYPASS is never chosen automatically —
// it is a manual override a caller applies explicitly — so Classify never
// returns it; ResultEmergencyBypass is exported for that caller to use.
func Classify(composite float64, threshold float64) Result {
	switch {
	case composite >= threshold:
		return ResultPassed
	case composite >= threshold-0.05:
		return ResultConditionalPass
	case composite >= threshold-0.15:
		return ResultSoftReject
	default:
		return ResultHardReject
	}
}

// Evaluate scores components against phase's configured weights and
// threshold in one call.
func Evaluate(phase types.Phase, c Components) (composite float64, result Result) {
	composite = Composite(c, WeightsForPhase(phase))
	result = Classify(composite, ThresholdForPhase(phase))
	return composite, result
}
