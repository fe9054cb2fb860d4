// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package checkpoint implements phase-boundary snapshot/rollback over the
// memory coordinator and execution state.
package checkpoint

import (
	"encoding/json"
	"time"

	"coding-pipeline/internal/memory"
	"coding-pipeline/pkg/types"
)

const pipelineCheckpointsDomain = "coding/pipeline/checkpoints"

// Manager creates and restores checkpoints for one pipeline run.
type Manager struct {
	Memory         *memory.Coordinator
	MaxCheckpoints int
}

// New creates a Manager. maxCheckpoints <= 0 means no FIFO trim is applied.
func New(mem *memory.Coordinator, maxCheckpoints int) *Manager {
	return &Manager{Memory: mem, MaxCheckpoints: maxCheckpoints}
}

// envelope is the JSON payload persisted under coding/pipeline/checkpoints.
type envelope struct {
	Phase           types.Phase      `json:"phase"`
	Timestamp       time.Time        `json:"timestamp"`
	CompletedAgents []types.AgentKey `json:"completedAgents"`
	TotalXP         int              `json:"totalXP"`
	Domains         []string         `json:"domains"`
}

// Create snapshots the subset of memory named by domains, together with
// the completed-agent set and XP total, and stores it in the
// coding/pipeline/checkpoints domain tagged with the pipeline id and
// phase-<phase>.
func (m *Manager) Create(phase types.Phase, pipelineID string, domains []string, state *types.ExecutionState) types.Checkpoint {
	snapshot := m.Memory.Snapshot(domains)

	completed := make(map[types.AgentKey]bool)
	for _, key := range state.ResultKeys() {
		if r, ok := state.Result(key); ok && r.Success {
			completed[key] = true
		}
	}

	cp := types.Checkpoint{
		Phase:           phase,
		Timestamp:       time.Now(),
		MemorySnapshot:  snapshot,
		CompletedAgents: completed,
		TotalXP:         state.XP(),
	}
	state.SetCheckpoint(cp)

	completedKeys := make([]types.AgentKey, 0, len(completed))
	for key := range completed {
		completedKeys = append(completedKeys, key)
	}
	env := envelope{Phase: phase, Timestamp: cp.Timestamp, CompletedAgents: completedKeys, TotalXP: cp.TotalXP, Domains: domains}
	if payload, err := json.Marshal(env); err == nil {
		m.Memory.StoreCheckpoint(pipelineID, phase, string(payload))
	}

	m.trim(pipelineID)
	return cp
}

// RollbackToLast picks the most-recently-created checkpoint across all
// phases, restores memory and XP from it, and evicts every execution
// result not in its completed-agent set. Returns false if no checkpoint
// exists.
func (m *Manager) RollbackToLast(state *types.ExecutionState) bool {
	cp, ok := state.LatestCheckpoint()
	if !ok {
		return false
	}

	for domain, entries := range cp.MemorySnapshot {
		m.Memory.Restore(domain, entries)
	}
	state.SetXP(cp.TotalXP)
	state.RestrictTo(cp.CompletedAgents)
	return true
}

// trim keeps at most MaxCheckpoints persisted checkpoint entries for this
// pipeline in memory's checkpoint domain, evicting this pipeline's oldest
// entries first while leaving other pipelines' entries untouched.
func (m *Manager) trim(pipelineID string) {
	if m.MaxCheckpoints <= 0 {
		return
	}
	all := m.Memory.Enumerate(pipelineCheckpointsDomain) // newest-first, all pipelines

	var mine, others []types.MemoryEntry
	for _, e := range all {
		if e.HasTag(pipelineID) {
			mine = append(mine, e)
		} else {
			others = append(others, e)
		}
	}
	if len(mine) <= m.MaxCheckpoints {
		return
	}
	kept := append(others, mine[:m.MaxCheckpoints]...)
	m.Memory.Restore(pipelineCheckpointsDomain, kept)
}
