// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package types

// AgentMapping is the static record describing one of the 47 agents: its
// phase, intra-phase priority, dependency set, memory hand-off keys, XP
// reward, algorithm tag, and scheduling flags.
type AgentMapping struct {
	Key            AgentKey
	Phase          Phase
	Priority       int // intra-phase ordering hint
	DependsOn      []AgentKey
	Reads          []string
	Writes         []string
	XPReward       int
	Algorithm      Algorithm
	Parallelizable bool
	Critical       bool
	Description    string
	Capabilities   []string
	Tools          []string
	QualityGates   []string
}

// FirstWriteDomain returns the agent's first declared write domain, the
// domain the Agent Executor stores its output under. Returns
// empty string if the agent declares no writes.
func (m AgentMapping) FirstWriteDomain() string {
	if len(m.Writes) == 0 {
		return ""
	}
	return m.Writes[0]
}

// FirstReadDomain returns the agent's first declared read domain, the
// domain the Agent Executor retrieves its previous-step output from.
// Returns empty string if the agent declares no reads.
func (m AgentMapping) FirstReadDomain() string {
	if len(m.Reads) == 0 {
		return ""
	}
	return m.Reads[0]
}
