// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package memory implements the pipeline's sole gateway to persistent
// hand-off storage: immutable, tagged entries enumerable per domain, plus
// the fixed sub-namespace helpers the rest of the system relies on.
package memory

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"coding-pipeline/pkg/types"
)

// MemoryCoordinationError is the typed error surfaced by storage failures.
type MemoryCoordinationError struct {
	Op     string
	Domain string
	Err    error
}

func (e *MemoryCoordinationError) Error() string {
	return fmt.Sprintf("memory: %s on domain %q: %v", e.Op, e.Domain, e.Err)
}

func (e *MemoryCoordinationError) Unwrap() error { return e.Err }

// Step is the minimal description of a pipeline step the coordinator needs
// to resolve input/output domains and tag filters.
type Step struct {
	OutputDomain string
	OutputTags   []string
	InputDomain  string
	InputTags    []string
}

// StoreResult is returned by StoreStepOutput.
type StoreResult struct {
	EntryID string
}

// RetrieveResult is returned by RetrievePreviousOutput / RetrieveStepOutput.
type RetrieveResult struct {
	Found     bool
	StepIndex int
	AgentKey  types.AgentKey
	Output    string
	Timestamp time.Time
}

// stepEnvelope is the JSON payload stored for step hand-offs; parsing it
// back out is the only payload interpretation the coordinator performs.
type stepEnvelope struct {
	StepIndex int            `json:"stepIndex"`
	AgentKey  types.AgentKey `json:"agentKey"`
	Output    string         `json:"output"`
	Timestamp time.Time      `json:"timestamp"`
}

// Coordinator is the sole gateway to persistent hand-off storage. Writes are
// serialized under mu; reads observe every write that completed before the
// read started, giving monotonic reads per pipeline id.
type Coordinator struct {
	mu      sync.RWMutex
	entries map[string][]types.MemoryEntry // domain -> entries, append-only
	seq     int64                          // monotonic counter to break entry-id ties
}

// New creates an empty Coordinator.
func New() *Coordinator {
	return &Coordinator{entries: make(map[string][]types.MemoryEntry)}
}

func (c *Coordinator) nextSeq() int64 {
	return atomic.AddInt64(&c.seq, 1)
}

// store appends an immutable entry to domain and returns it.
func (c *Coordinator) store(domain, content string, tags []string) types.MemoryEntry {
	return c.storeWithID(fmt.Sprintf("%s-%d", uuid.NewString(), c.nextSeq()), domain, content, tags)
}

func (c *Coordinator) storeWithID(id, domain, content string, tags []string) types.MemoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := types.MemoryEntry{
		ID:        id,
		Content:   content,
		Domain:    domain,
		Tags:      append([]string(nil), tags...),
		CreatedAt: time.Now(),
	}
	c.entries[domain] = append(c.entries[domain], entry)
	return entry
}

// enumerate returns a snapshot of a domain's entries, newest first. The
// copy is reversed before the stable sort so that of two entries written in
// the same clock tick, the later write still comes first.
func (c *Coordinator) enumerate(domain string) []types.MemoryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	src := c.entries[domain]
	out := make([]types.MemoryEntry, len(src))
	for i, e := range src {
		out[len(src)-1-i] = e
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// StoreStepOutput creates an immutable entry in the step's output domain
// tagged with [...step.OutputTags, pipelineId, "step-"+stepIndex]. The entry
// id embeds the pipeline id, step index and a monotonic counter so
// concurrent writers never collide.
func (c *Coordinator) StoreStepOutput(step Step, stepIndex int, pipelineID, output string, agentKey types.AgentKey) (StoreResult, error) {
	if step.OutputDomain == "" {
		return StoreResult{}, &MemoryCoordinationError{Op: "storeStepOutput", Domain: step.OutputDomain, Err: fmt.Errorf("step has no output domain")}
	}

	env := stepEnvelope{StepIndex: stepIndex, AgentKey: agentKey, Output: output, Timestamp: time.Now()}
	payload, err := json.Marshal(env)
	if err != nil {
		return StoreResult{}, &MemoryCoordinationError{Op: "storeStepOutput", Domain: step.OutputDomain, Err: err}
	}

	tags := append(append([]string(nil), step.OutputTags...), pipelineID, "step-"+strconv.Itoa(stepIndex))
	// The trailing counter keeps ids distinct even when two concurrent
	// writers land on the same nanosecond.
	entryID := fmt.Sprintf("pipeline-%s-step-%d-%d-%d", pipelineID, stepIndex, time.Now().UnixNano(), c.nextSeq())
	entry := c.storeWithID(entryID, step.OutputDomain, string(payload), tags)
	return StoreResult{EntryID: entry.ID}, nil
}

// RetrievePreviousOutput resolves the newest entry in step.InputDomain
// tagged with pipelineID, optionally further filtered by any of
// step.InputTags. Returns RetrieveResult.Found=false if step.InputDomain is
// empty or nothing matches.
func (c *Coordinator) RetrievePreviousOutput(step Step, pipelineID string) RetrieveResult {
	if step.InputDomain == "" {
		return RetrieveResult{}
	}

	candidates := c.filterByPipelineAndTags(step.InputDomain, pipelineID, step.InputTags)
	if len(candidates) == 0 {
		return RetrieveResult{}
	}

	newest := candidates[0]
	return parseEnvelopeOrRaw(newest)
}

// RetrieveStepOutput is RetrievePreviousOutput's sibling for a known step
// index: it additionally requires the "step-<stepIndex>" tag.
func (c *Coordinator) RetrieveStepOutput(pipelineID string, stepIndex int, domain string) RetrieveResult {
	step := Step{InputDomain: domain, InputTags: []string{"step-" + strconv.Itoa(stepIndex)}}
	return c.RetrievePreviousOutput(step, pipelineID)
}

// HasPreviousOutput is a boolean existence check equivalent to
// RetrievePreviousOutput(...).Found.
func (c *Coordinator) HasPreviousOutput(step Step, pipelineID string) bool {
	return c.RetrievePreviousOutput(step, pipelineID).Found
}

func (c *Coordinator) filterByPipelineAndTags(domain, pipelineID string, inputTags []string) []types.MemoryEntry {
	entries := c.enumerate(domain)
	var out []types.MemoryEntry
	for _, e := range entries {
		if !e.HasTag(pipelineID) {
			continue
		}
		if len(inputTags) > 0 && !hasAnyTag(e, inputTags) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func hasAnyTag(e types.MemoryEntry, tags []string) bool {
	for _, t := range tags {
		if e.HasTag(t) {
			return true
		}
	}
	return false
}

func parseEnvelopeOrRaw(entry types.MemoryEntry) RetrieveResult {
	var env stepEnvelope
	if err := json.Unmarshal([]byte(entry.Content), &env); err == nil {
		return RetrieveResult{Found: true, StepIndex: env.StepIndex, AgentKey: env.AgentKey, Output: env.Output, Timestamp: env.Timestamp}
	}
	return RetrieveResult{Found: true, Output: entry.Content, Timestamp: entry.CreatedAt}
}

// --- fixed sub-namespace helpers ---

// ContextDomain returns the fixed context sub-namespace for a key.
func ContextDomain(key string) string { return "coding/context/" + key }

const (
	pipelineStateDomain       = "coding/pipeline/state"
	pipelineDAGDomain         = "coding/pipeline/dag"
	pipelineCheckpointsDomain = "coding/pipeline/checkpoints"
	xpTotalDomain             = "coding/xp/total"
)

// StoreContext writes an entry under coding/context/<key>.
func (c *Coordinator) StoreContext(key, pipelineID, payload string) types.MemoryEntry {
	return c.store(ContextDomain(key), payload, []string{pipelineID})
}

// RetrieveContext returns the newest coding/context/<key> entry for a pipeline.
func (c *Coordinator) RetrieveContext(key, pipelineID string) (types.MemoryEntry, bool) {
	candidates := c.filterByPipelineAndTags(ContextDomain(key), pipelineID, nil)
	if len(candidates) == 0 {
		return types.MemoryEntry{}, false
	}
	return candidates[0], true
}

// StorePipelineState writes the pipeline's lifecycle state envelope.
func (c *Coordinator) StorePipelineState(pipelineID, payload string) types.MemoryEntry {
	return c.store(pipelineStateDomain, payload, []string{pipelineID})
}

// StorePipelineDAG records the resolved DAG for a pipeline run.
func (c *Coordinator) StorePipelineDAG(pipelineID, payload string) types.MemoryEntry {
	return c.store(pipelineDAGDomain, payload, []string{pipelineID})
}

// StoreCheckpoint persists a checkpoint envelope under the fixed namespace.
func (c *Coordinator) StoreCheckpoint(pipelineID string, phase types.Phase, payload string) types.MemoryEntry {
	return c.store(pipelineCheckpointsDomain, payload, []string{pipelineID, "phase-" + phase.String()})
}

// XPPhaseDomain returns the fixed per-phase XP sub-namespace.
func XPPhaseDomain(phase types.Phase) string { return "coding/xp/phase-" + phase.String() }

// StoreXP records a pipeline's running XP total and its per-phase delta.
func (c *Coordinator) StoreXP(pipelineID string, phase types.Phase, total, phaseDelta int) {
	c.store(xpTotalDomain, strconv.Itoa(total), []string{pipelineID})
	c.store(XPPhaseDomain(phase), strconv.Itoa(phaseDelta), []string{pipelineID})
}

// PhaseDomain returns the fixed coding/<phase>/<suffix> namespace an agent's
// first write domain typically resolves to.
func PhaseDomain(phase types.Phase, suffix string) string {
	return "coding/" + phase.String() + "/" + suffix
}

// --- forensic namespace ---

// ForensicCaseFileDomain returns coding/forensics/phase-<N>/case-file.
func ForensicCaseFileDomain(phase types.Phase) string {
	return fmt.Sprintf("coding/forensics/phase-%d/case-file", int(phase))
}

// ForensicVerdictDomain returns coding/forensics/phase-<N>/verdict.
func ForensicVerdictDomain(phase types.Phase) string {
	return fmt.Sprintf("coding/forensics/phase-%d/verdict", int(phase))
}

// ForensicEvidenceSummaryDomain returns coding/forensics/phase-<N>/evidence-summary.
func ForensicEvidenceSummaryDomain(phase types.Phase) string {
	return fmt.Sprintf("coding/forensics/phase-%d/evidence-summary", int(phase))
}

// ForensicRemediationDomain returns coding/forensics/phase-<N>/remediation.
func ForensicRemediationDomain(phase types.Phase) string {
	return fmt.Sprintf("coding/forensics/phase-%d/remediation", int(phase))
}

const (
	// ForensicAllVerdictsDomain is coding/forensics/pipeline/all-verdicts.
	ForensicAllVerdictsDomain = "coding/forensics/pipeline/all-verdicts"
	// ForensicPatternLibraryDomain is coding/forensics/pipeline/pattern-library.
	ForensicPatternLibraryDomain = "coding/forensics/pipeline/pattern-library"
)

// Store exposes the generic, domain-addressed write used by components that
// don't fit one of the typed helpers above (e.g. Sherlock's CaseFile).
func (c *Coordinator) Store(domain, pipelineID, payload string, extraTags ...string) types.MemoryEntry {
	tags := append([]string{pipelineID}, extraTags...)
	return c.store(domain, payload, tags)
}

// Enumerate exposes a read-only snapshot of a domain, newest first, for
// components (checkpoint manager, rollback) that need the full entry set
// rather than a single-record retrieval.
func (c *Coordinator) Enumerate(domain string) []types.MemoryEntry {
	return c.enumerate(domain)
}

// Domains returns every domain key currently holding at least one entry,
// sorted for deterministic iteration.
func (c *Coordinator) Domains() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for d, entries := range c.entries {
		if len(entries) > 0 {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// Restore overwrites a domain's entries wholesale; used only by the
// checkpoint manager (rollback and checkpoint trimming), which is the one
// legitimate mutator of otherwise immutable history.
func (c *Coordinator) Restore(domain string, entries []types.MemoryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[domain] = append([]types.MemoryEntry(nil), entries...)
}

// Snapshot returns a deep copy of every domain matching the given domains,
// used by the checkpoint manager to build Checkpoint.MemorySnapshot.
func (c *Coordinator) Snapshot(domains []string) map[string][]types.MemoryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]types.MemoryEntry, len(domains))
	for _, d := range domains {
		src := c.entries[d]
		cp := make([]types.MemoryEntry, len(src))
		copy(cp, src)
		out[d] = cp
	}
	return out
}
