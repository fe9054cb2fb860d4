// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package sherlock

import (
	"fmt"
	"sync"

	"coding-pipeline/internal/qualitygate"
	"coding-pipeline/pkg/types"
)

// LScoreIntegration bridges the composite quality gate into the forensic
// review: phase results are scored as they complete, and the resulting
// classification refines investigation-tier selection.
type LScoreIntegration struct {
	mu     sync.Mutex
	scores map[types.Phase]qualitygate.Components
}

// NewLScoreIntegration creates an empty integration.
func NewLScoreIntegration() *LScoreIntegration {
	return &LScoreIntegration{scores: make(map[types.Phase]qualitygate.Components)}
}

// Record stores an externally computed component breakdown for a phase,
// superseding any previously recorded or derived breakdown.
func (l *LScoreIntegration) Record(phase types.Phase, c qualitygate.Components) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scores[phase] = c
}

// RecordPhaseResult derives a component breakdown from a phase's raw
// execution result. The derivation is a heuristic stand-in, like
// DefaultReview: agent success rate drives most components and runaway
// agent durations degrade performance, until an external scorer records
// real values via Record.
func (l *LScoreIntegration) RecordPhaseResult(result types.PhaseExecutionResult) {
	total := len(result.AgentResults)
	if total == 0 {
		return
	}
	successful, slow := 0, 0
	for _, r := range result.AgentResults {
		if r.Success {
			successful++
		}
		if r.ExecutionTimeMs > 120_000 {
			slow++
		}
	}
	rate := float64(successful) / float64(total)
	l.Record(result.Phase, qualitygate.Components{
		Accuracy:        rate,
		Completeness:    rate,
		Maintainability: rate,
		Security:        rate,
		Performance:     1.0 - float64(slow)/float64(total),
		TestCoverage:    rate,
	})
}

// LScore reports the phase's composite score and gate classification; it is
// the Gate.LScore hook. Returns available=false for a phase with nothing
// recorded yet.
func (l *LScoreIntegration) LScore(phase types.Phase) (float64, GateResult, bool) {
	l.mu.Lock()
	c, ok := l.scores[phase]
	l.mu.Unlock()
	if !ok {
		return 0, "", false
	}
	score, result := qualitygate.Evaluate(phase, c)
	return score, toGateResult(result), true
}

func toGateResult(r qualitygate.Result) GateResult {
	switch r {
	case qualitygate.ResultPassed:
		return GateResultPassed
	case qualitygate.ResultConditionalPass:
		return GateResultConditionalPass
	case qualitygate.ResultSoftReject:
		return GateResultSoftReject
	case qualitygate.ResultHardReject:
		return GateResultHardReject
	default:
		return GateResultEmergencyBypass
	}
}

// LScoreCheck builds a verification-matrix check comparing the phase's
// composite score against its configured threshold, so the gate's matrix can
// fail a phase on quality alone even when every agent nominally succeeded.
func LScoreCheck(l *LScoreIntegration) CheckSpec {
	return CheckSpec{
		Name:        "composite quality score",
		Method:      "weighted component mean vs phase threshold",
		Expected:    "PASSED or CONDITIONAL_PASS",
		Remediation: "raise the failing quality components before re-running the phase",
		Evaluate: func(evidence []EvidenceRecord, preliminary types.PhaseExecutionResult) (string, bool) {
			score, result, available := l.LScore(preliminary.Phase)
			if !available {
				return "no score recorded", true
			}
			passed := result == GateResultPassed || result == GateResultConditionalPass
			return fmt.Sprintf("%s (%.2f)", result, score), passed
		},
	}
}
