// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package resolver turns a phase's static agent mappings into a concrete,
// dependency-respecting execution order and batches that order for
// concurrent execution.
package resolver

import (
	"fmt"
	"sort"

	"coding-pipeline/pkg/types"
)

// ResolveExecutionOrder produces a DFS-based topological ordering of the
// phase's agents, with visitation driven by agents sorted ascending by
// priority. Only intra-phase dependencies are honored: cross-phase
// dependencies are presumed satisfied because prior phases already ran.
func ResolveExecutionOrder(agentsInPhase []types.AgentMapping) ([]types.AgentKey, error) {
	byKey := make(map[types.AgentKey]types.AgentMapping, len(agentsInPhase))
	inPhase := make(map[types.AgentKey]bool, len(agentsInPhase))
	for _, m := range agentsInPhase {
		byKey[m.Key] = m
		inPhase[m.Key] = true
	}

	ordered := append([]types.AgentMapping(nil), agentsInPhase...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].Key < ordered[j].Key
	})

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[types.AgentKey]int, len(agentsInPhase))
	var result []types.AgentKey

	var visit func(key types.AgentKey) error
	visit = func(key types.AgentKey) error {
		color[key] = gray
		m := byKey[key]
		deps := append([]types.AgentKey(nil), m.DependsOn...)
		sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
		for _, dep := range deps {
			if !inPhase[dep] {
				continue // cross-phase dependency, presumed already satisfied
			}
			switch color[dep] {
			case gray:
				return fmt.Errorf("resolver: cycle detected at agent %q", dep)
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		color[key] = black
		result = append(result, key)
		return nil
	}

	for _, m := range ordered {
		if color[m.Key] == white {
			if err := visit(m.Key); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// BatchAgentsForExecution groups an ordered agent sequence into batches for
// concurrent execution. With enableParallel=false, every batch holds
// exactly one agent. Otherwise batches are formed greedily: an agent is
// admitted to the current batch once all its intra-phase dependencies have
// already executed, it is marked parallelizable, and the batch has room; a
// non-parallelizable agent whose deps are satisfied is admitted only to an
// empty batch, which then closes immediately. If nothing qualifies, the
// first remaining agent is admitted alone to guarantee progress.
func BatchAgentsForExecution(ordered []types.AgentKey, byKey map[types.AgentKey]types.AgentMapping, enableParallel bool, maxParallel int) [][]types.AgentKey {
	if !enableParallel {
		batches := make([][]types.AgentKey, 0, len(ordered))
		for _, key := range ordered {
			batches = append(batches, []types.AgentKey{key})
		}
		return batches
	}
	if maxParallel <= 0 {
		maxParallel = 1
	}

	remaining := append([]types.AgentKey(nil), ordered...)
	executed := make(map[types.AgentKey]bool, len(ordered))
	var batches [][]types.AgentKey

	depsSatisfied := func(key types.AgentKey) bool {
		for _, dep := range byKey[key].DependsOn {
			if _, ok := byKey[dep]; !ok {
				continue // cross-phase dependency, presumed already satisfied
			}
			if !executed[dep] {
				return false
			}
		}
		return true
	}

	for len(remaining) > 0 {
		var batch []types.AgentKey
		var rest []types.AgentKey

		for _, key := range remaining {
			if !depsSatisfied(key) {
				rest = append(rest, key)
				continue
			}
			m := byKey[key]
			if m.Parallelizable {
				if len(batch) < maxParallel {
					batch = append(batch, key)
				} else {
					rest = append(rest, key)
				}
				continue
			}
			// non-parallelizable: only admit to an empty batch, then close it
			if len(batch) == 0 {
				batch = append(batch, key)
				rest = append(rest, remaining[indexAfter(remaining, key)+1:]...)
				break
			}
			rest = append(rest, key)
		}

		if len(batch) == 0 {
			// progress guarantee: admit the first remaining agent alone
			batch = []types.AgentKey{remaining[0]}
			rest = append([]types.AgentKey(nil), remaining[1:]...)
		}

		for _, key := range batch {
			executed[key] = true
		}
		batches = append(batches, batch)
		remaining = rest
	}

	return batches
}

func indexAfter(keys []types.AgentKey, target types.AgentKey) int {
	for i, k := range keys {
		if k == target {
			return i
		}
	}
	return len(keys) - 1
}
