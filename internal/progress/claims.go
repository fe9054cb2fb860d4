// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package progress

import (
	"sync"

	"coding-pipeline/pkg/types"
)

// FileClaim is an advisory write claim held by one agent on one path.
type FileClaim struct {
	Path   string
	Holder types.AgentKey
}

// FileClaims tracks advisory write claims under a single rule: at most one
// write claim per path, read claims are unconditional, and a holder may
// freely renew its own claim.
type FileClaims struct {
	mu      sync.Mutex
	writers map[string]types.AgentKey // path -> current write-claim holder
}

// NewFileClaims creates an empty claims tracker.
func NewFileClaims() *FileClaims {
	return &FileClaims{writers: make(map[string]types.AgentKey)}
}

// ClaimForWrite succeeds unless another agent already holds a write claim on
// path; a write claim held by the same agent may be freely renewed.
func (c *FileClaims) ClaimForWrite(agent types.AgentKey, path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if holder, held := c.writers[path]; held && holder != agent {
		return false
	}
	c.writers[path] = agent
	return true
}

// ClaimForRead always succeeds; read claims are not tracked since they never
// conflict with anything.
func (c *FileClaims) ClaimForRead(agent types.AgentKey, path string) bool {
	return true
}

// ReleaseAll drops every write claim held by agent. Idempotent.
func (c *FileClaims) ReleaseAll(agent types.AgentKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for path, holder := range c.writers {
		if holder == agent {
			delete(c.writers, path)
		}
	}
}

// GetConflicts lists the write claims currently held by agents other than
// agent — the set situational awareness surfaces to a running agent.
func (c *FileClaims) GetConflicts(agent types.AgentKey) []FileClaim {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []FileClaim
	for path, holder := range c.writers {
		if holder != agent {
			out = append(out, FileClaim{Path: path, Holder: holder})
		}
	}
	return out
}
