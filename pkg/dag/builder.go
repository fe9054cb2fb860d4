// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package dag builds the read-only pipeline DAG over the 47 agent mappings:
// nodes with dependsOn/dependents, a global topological order, and
// phase-scoped accessors. Built once per process; never mutated after Build.
package dag

import (
	"fmt"
	"sort"

	"github.com/gammazero/toposort"

	"coding-pipeline/pkg/types"
)

// Node is one agent's position in the DAG: its mapping plus back-references.
type Node struct {
	Mapping    types.AgentMapping
	DependsOn  []types.AgentKey
	Dependents []types.AgentKey
}

// PipelineDAG is the derived, read-only structure built from all
// AgentMappings: a node per agent key, agents grouped by phase, and a
// deterministic global topological order.
type PipelineDAG struct {
	Nodes            map[types.AgentKey]*Node
	AgentsByPhase    map[types.Phase][]types.AgentKey // in canonical priority order
	TopologicalOrder []types.AgentKey
}

// Build constructs the DAG from the full 47-agent mapping set. Asserts
// len(topologicalOrder) == len(mappings); any shortfall indicates a cycle
// and is returned as a hard error.
func Build(mappings []types.AgentMapping) (*PipelineDAG, error) {
	nodes := make(map[types.AgentKey]*Node, len(mappings))
	for _, m := range mappings {
		nodes[m.Key] = &Node{Mapping: m, DependsOn: append([]types.AgentKey(nil), m.DependsOn...)}
	}
	for _, m := range mappings {
		for _, dep := range m.DependsOn {
			depNode, ok := nodes[dep]
			if !ok {
				return nil, fmt.Errorf("dag: agent %q depends on unknown agent %q", m.Key, dep)
			}
			depNode.Dependents = append(depNode.Dependents, m.Key)
		}
	}

	// Cross-check for cycles using the pack's topological-sort library; the
	// deterministic ordering itself is computed by our own tie-broken Kahn
	// pass below, since toposort.Toposort does not expose a tie-break hook.
	edges := make([]toposort.Edge, 0)
	for _, m := range mappings {
		for _, dep := range m.DependsOn {
			edges = append(edges, toposort.Edge{dep, m.Key})
		}
	}
	if len(edges) > 0 {
		if _, err := toposort.Toposort(edges); err != nil {
			return nil, fmt.Errorf("dag: cycle detected: %w", err)
		}
	}

	order, err := kahnOrder(nodes)
	if err != nil {
		return nil, err
	}
	if len(order) != len(mappings) {
		return nil, fmt.Errorf("dag: topological order has %d agents, want %d (cycle)", len(order), len(mappings))
	}

	byPhase := make(map[types.Phase][]types.AgentKey)
	for _, key := range order {
		p := nodes[key].Mapping.Phase
		byPhase[p] = append(byPhase[p], key)
	}
	for p := range byPhase {
		sortByPriorityThenKey(byPhase[p], nodes)
	}

	return &PipelineDAG{
		Nodes:            nodes,
		AgentsByPhase:    byPhase,
		TopologicalOrder: order,
	}, nil
}

// kahnOrder runs Kahn's algorithm with ties broken by (priority ascending,
// key ascending) for a deterministic global order.
func kahnOrder(nodes map[types.AgentKey]*Node) ([]types.AgentKey, error) {
	inDegree := make(map[types.AgentKey]int, len(nodes))
	for key, n := range nodes {
		inDegree[key] = len(n.DependsOn)
	}

	ready := make([]types.AgentKey, 0)
	for key, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, key)
		}
	}

	var order []types.AgentKey
	for len(ready) > 0 {
		sortByPriorityThenKey(ready, nodes)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, dependent := range nodes[next].Dependents {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}
	return order, nil
}

func sortByPriorityThenKey(keys []types.AgentKey, nodes map[types.AgentKey]*Node) {
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := nodes[keys[i]].Mapping.Priority, nodes[keys[j]].Mapping.Priority
		if pi != pj {
			return pi < pj
		}
		return keys[i] < keys[j]
	})
}

// CriticalAgents returns every agent key marked critical.
func (d *PipelineDAG) CriticalAgents() []types.AgentKey {
	var out []types.AgentKey
	for _, key := range d.TopologicalOrder {
		if d.Nodes[key].Mapping.Critical {
			out = append(out, key)
		}
	}
	return out
}

// ParallelizableAgentsByPhase returns, for a phase, the keys marked
// parallelizable in canonical priority order.
func (d *PipelineDAG) ParallelizableAgentsByPhase(phase types.Phase) []types.AgentKey {
	var out []types.AgentKey
	for _, key := range d.AgentsByPhase[phase] {
		if d.Nodes[key].Mapping.Parallelizable {
			out = append(out, key)
		}
	}
	return out
}

// PhaseExecutionOrder returns the phase's agent keys in canonical
// (priority, key) order, independent of intra-phase dependency resolution.
func (d *PipelineDAG) PhaseExecutionOrder(phase types.Phase) []types.AgentKey {
	return append([]types.AgentKey(nil), d.AgentsByPhase[phase]...)
}

// Mapping looks up an agent's static mapping.
func (d *PipelineDAG) Mapping(key types.AgentKey) (types.AgentMapping, bool) {
	n, ok := d.Nodes[key]
	if !ok {
		return types.AgentMapping{}, false
	}
	return n.Mapping, true
}
