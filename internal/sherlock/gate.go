// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package sherlock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"coding-pipeline/internal/learning"
	"coding-pipeline/internal/memory"
	"coding-pipeline/pkg/types"
)

// PhaseProtocol is the per-phase configuration the gate runs against:
// evidence sources, the verification matrix, personas, and verdict criteria.
type PhaseProtocol struct {
	EvidenceSourceKeys []string
	Checks             []CheckSpec
	Personas           []Persona
	DefaultTier        Tier
}

// CheckSpec describes one verification-matrix check before it runs.
type CheckSpec struct {
	Name        string
	Method      string
	Expected    string
	Threshold   float64
	Remediation string
	Evaluate    func(evidence []EvidenceRecord, preliminary types.PhaseExecutionResult) (actual string, passed bool)
}

// PersonaReview produces an adversarial finding for a persona given the
// preliminary result and the evidence gathered so far.
type PersonaReview func(persona Persona, preliminary types.PhaseExecutionResult, evidence []EvidenceRecord) AdversarialFinding

// Gate runs the forensic review protocol.
type Gate struct {
	Memory    *memory.Coordinator
	Protocols map[types.Phase]PhaseProtocol
	Review    PersonaReview
	LScore    func(phase types.Phase) (score float64, result GateResult, available bool)
	Learning  learning.ReasoningBank
}

// Evaluate runs the full algorithm for one phase and returns the
// ValidationResult the Phase Executor consumes.
func (g *Gate) Evaluate(ctx context.Context, phase types.Phase, pipelineID string, preliminary types.PhaseExecutionResult, retryCount int) types.ValidationResult {
	protocol := g.Protocols[phase]
	caseFile := &CaseFile{Phase: phase, PipelineID: pipelineID, RetryCount: retryCount, CreatedAt: time.Now()}
	caseFile.Log("chain-of-custody opened for phase %s (retry %d)", phase, retryCount)

	var gateResult GateResult
	if g.LScore != nil {
		if _, r, available := g.LScore(phase); available {
			gateResult = r
		}
	}
	caseFile.Tier = SelectTier(retryCount, protocol.DefaultTier, gateResult)

	caseFile.Evidence = g.gatherEvidence(protocol.EvidenceSourceKeys, pipelineID)
	caseFile.Checks = runChecks(protocol.Checks, caseFile.Evidence, preliminary)
	caseFile.AdversarialFindings = g.runAdversarial(protocol.Personas, preliminary, caseFile.Evidence)

	verdict, confidence, remediations := renderVerdict(caseFile.Checks, caseFile.AdversarialFindings)
	caseFile.Verdict = verdict
	caseFile.Confidence = confidence
	caseFile.Remediations = remediations
	caseFile.Log("verdict rendered: %s (confidence %s)", verdict, confidence)

	g.store(pipelineID, caseFile)

	if g.Learning != nil {
		trajectoryID := fmt.Sprintf("trajectory_sherlock_%s_phase-%d_retry-%d", pipelineID, int(phase), retryCount)
		learning.SafeCreateTrajectory(ctx, g.Learning, trajectoryID, "sherlock", nil, map[string]string{"taskType": phase.String()})
		DeliverFeedback(ctx, g.Learning, trajectoryID, verdict, confidence)
	}
	if quality := QualityScore(verdict, confidence); quality >= PatternThreshold && g.Memory != nil {
		g.Memory.Store(memory.ForensicPatternLibraryDomain, pipelineID,
			fmt.Sprintf("phase=%s verdict=%s quality=%.2f", phase, verdict, quality))
	}

	return types.ValidationResult{
		Verdict:          verdict,
		CanProceed:       verdict == types.VerdictInnocent,
		Remediations:     remediations,
		Confidence:       confidence,
		CaseID:           fmt.Sprintf("case-%s-phase-%d-retry-%d", pipelineID, int(phase), retryCount),
		RetryExploreOnly: verdict == types.VerdictInsufficientEvidence,
	}
}

func (g *Gate) gatherEvidence(keys []string, pipelineID string) []EvidenceRecord {
	var out []EvidenceRecord
	for _, key := range keys {
		if g.Memory == nil {
			out = append(out, EvidenceRecord{Key: key, Status: EvidenceSuspect, Note: "no memory coordinator configured"})
			continue
		}
		entries := g.Memory.Enumerate(key)
		found := false
		for _, e := range entries {
			if e.HasTag(pipelineID) {
				found = true
				break
			}
		}
		if found {
			out = append(out, EvidenceRecord{Key: key, Status: EvidenceVerified})
		} else {
			out = append(out, EvidenceRecord{Key: key, Status: EvidenceMissing})
		}
	}
	return out
}

func runChecks(specs []CheckSpec, evidence []EvidenceRecord, preliminary types.PhaseExecutionResult) []CheckResult {
	var out []CheckResult
	for _, spec := range specs {
		actual, passed := spec.Evaluate(evidence, preliminary)
		out = append(out, CheckResult{
			Check:       spec.Name,
			Method:      spec.Method,
			Expected:    spec.Expected,
			Actual:      actual,
			Passed:      passed,
			Remediation: spec.Remediation,
		})
	}
	return out
}

func (g *Gate) runAdversarial(personas []Persona, preliminary types.PhaseExecutionResult, evidence []EvidenceRecord) []AdversarialFinding {
	if g.Review == nil {
		return nil
	}
	var out []AdversarialFinding
	for _, p := range personas {
		out = append(out, g.Review(p, preliminary, evidence))
	}
	return out
}

// renderVerdict maps check results and adversarial findings to a verdict
// deterministically: INNOCENT iff no failed checks and no critical findings;
// GUILTY iff critical findings exist or more than half of checks failed;
// INSUFFICIENT_EVIDENCE otherwise.
func renderVerdict(checks []CheckResult, findings []AdversarialFinding) (types.Verdict, types.Confidence, []string) {
	failed := 0
	for _, c := range checks {
		if !c.Passed {
			failed++
		}
	}

	criticalCount, warningCount := 0, 0
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			criticalCount++
		case SeverityWarning:
			warningCount++
		}
	}

	switch {
	case failed == 0 && criticalCount == 0:
		confidence := types.ConfidenceHigh
		if warningCount > 0 {
			confidence = types.ConfidenceMedium
		}
		return types.VerdictInnocent, confidence, nil

	case criticalCount > 0 || (len(checks) > 0 && failed*2 > len(checks)):
		var remediations []string
		for _, c := range checks {
			if !c.Passed {
				remediations = append(remediations, c.Remediation)
			}
		}
		for _, f := range findings {
			if f.Severity == SeverityCritical {
				remediations = append(remediations, fmt.Sprintf("address %s finding from %s: %s", f.Severity, f.Persona, f.Findings))
			}
		}
		return types.VerdictGuilty, types.ConfidenceHigh, dedupe(remediations)

	default:
		var remediations []string
		for _, c := range checks {
			if !c.Passed {
				remediations = append(remediations, "Investigate: "+c.Check)
			}
		}
		return types.VerdictInsufficientEvidence, types.ConfidenceLow, remediations
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, i := range items {
		if i == "" || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	sort.Strings(out)
	return out
}

func (g *Gate) store(pipelineID string, cf *CaseFile) {
	if g.Memory == nil {
		return
	}
	summary := strings.Join(cf.ChainOfCustody, "\n")
	g.Memory.Store(memory.ForensicCaseFileDomain(cf.Phase), pipelineID, summary)
	g.Memory.Store(memory.ForensicVerdictDomain(cf.Phase), pipelineID, string(cf.Verdict))
	g.Memory.Store(memory.ForensicEvidenceSummaryDomain(cf.Phase), pipelineID, evidenceSummary(cf.Evidence))
	if len(cf.Remediations) > 0 {
		g.Memory.Store(memory.ForensicRemediationDomain(cf.Phase), pipelineID, strings.Join(cf.Remediations, "\n"))
	}
	g.Memory.Store(memory.ForensicAllVerdictsDomain, pipelineID, fmt.Sprintf("phase=%s verdict=%s", cf.Phase, cf.Verdict))
}

func evidenceSummary(evidence []EvidenceRecord) string {
	var sb strings.Builder
	for _, e := range evidence {
		sb.WriteString(fmt.Sprintf("%s: %s\n", e.Key, e.Status))
	}
	return sb.String()
}
