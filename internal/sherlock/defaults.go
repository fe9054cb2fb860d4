// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package sherlock

import (
	"fmt"

	"coding-pipeline/pkg/types"
)

// allPersonas is the closed set of adversarial reviewers.
var allPersonas = []Persona{
	PersonaTheBug, PersonaTheAttacker, PersonaTheTiredDeveloper,
	PersonaTheFutureArchaeologist, PersonaTheConfusedDeveloper,
	PersonaTheFutureMaintainer, PersonaThePerformanceTester, PersonaTheNewHire,
}

// DefaultProtocols derives one PhaseProtocol per phase present in mappings:
// evidence source keys are every agent's first write domain in that phase,
// the verification matrix has a single "agent success rate" check against a
// fixed 0.8 threshold, and the full persona roster runs adversarial review.
// Callers with richer per-phase check requirements should override
// individual entries of the returned map before handing it to a Gate.
func DefaultProtocols(mappings []types.AgentMapping) map[types.Phase]PhaseProtocol {
	byPhase := make(map[types.Phase][]types.AgentMapping)
	for _, m := range mappings {
		byPhase[m.Phase] = append(byPhase[m.Phase], m)
	}

	protocols := make(map[types.Phase]PhaseProtocol, len(byPhase))
	for phase, agents := range byPhase {
		var evidenceKeys []string
		for _, m := range agents {
			if d := m.FirstWriteDomain(); d != "" {
				evidenceKeys = append(evidenceKeys, d)
			}
		}

		protocols[phase] = PhaseProtocol{
			EvidenceSourceKeys: evidenceKeys,
			Checks:             []CheckSpec{successRateCheck(0.8)},
			Personas:           allPersonas,
			DefaultTier:        TierScan,
		}
	}
	return protocols
}

// DefaultReview is a heuristic PersonaReview usable when no LLM-backed
// adversarial reviewer is wired in: each persona inspects the preliminary
// result for the one signal closest to its namesake and reports a finding
// accordingly. Callers running adversarial review through an actual model
// should supply their own PersonaReview instead.
func DefaultReview(persona Persona, preliminary types.PhaseExecutionResult, evidence []EvidenceRecord) AdversarialFinding {
	switch persona {
	case PersonaTheBug:
		for _, r := range preliminary.AgentResults {
			if !r.Success {
				return AdversarialFinding{Persona: persona, Severity: SeverityCritical, Findings: fmt.Sprintf("agent %q failed: %s", r.AgentKey, r.Error)}
			}
		}
		return AdversarialFinding{Persona: persona, Severity: SeverityInfo, Findings: "no failing agents found"}

	case PersonaThePerformanceTester:
		const slowMs = 120_000
		for _, r := range preliminary.AgentResults {
			if r.ExecutionTimeMs > slowMs {
				return AdversarialFinding{Persona: persona, Severity: SeverityWarning, Findings: fmt.Sprintf("agent %q ran %dms, exceeding the %dms expectation", r.AgentKey, r.ExecutionTimeMs, slowMs)}
			}
		}
		return AdversarialFinding{Persona: persona, Severity: SeverityInfo, Findings: "no runaway agent durations"}

	default:
		for _, e := range evidence {
			if e.Status == EvidenceMissing {
				return AdversarialFinding{Persona: persona, Severity: SeverityWarning, Findings: fmt.Sprintf("expected evidence %q is missing", e.Key)}
			}
		}
		return AdversarialFinding{Persona: persona, Severity: SeverityInfo, Findings: "nothing notable found"}
	}
}

// successRateCheck builds a CheckSpec comparing the fraction of successful
// agent results in the preliminary phase result against threshold.
func successRateCheck(threshold float64) CheckSpec {
	return CheckSpec{
		Name:        "agent success rate",
		Method:      "successfulAgents / totalAgents",
		Expected:    fmt.Sprintf(">= %.2f", threshold),
		Threshold:   threshold,
		Remediation: "re-run failing agents in this phase after addressing their reported errors",
		Evaluate: func(evidence []EvidenceRecord, preliminary types.PhaseExecutionResult) (string, bool) {
			total := len(preliminary.AgentResults)
			if total == 0 {
				return "0/0", true
			}
			successful := 0
			for _, r := range preliminary.AgentResults {
				if r.Success {
					successful++
				}
			}
			rate := float64(successful) / float64(total)
			return fmt.Sprintf("%.2f (%d/%d)", rate, successful, total), rate >= threshold
		},
	}
}
