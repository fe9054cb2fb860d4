// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimForWriteSingleHolder(t *testing.T) {
	c := NewFileClaims()
	assert.True(t, c.ClaimForWrite("agent-a", "src/file.go"))
	assert.False(t, c.ClaimForWrite("agent-b", "src/file.go"))
}

func TestClaimForWriteRenewalBySameHolder(t *testing.T) {
	c := NewFileClaims()
	assert.True(t, c.ClaimForWrite("agent-a", "src/file.go"))
	assert.True(t, c.ClaimForWrite("agent-a", "src/file.go"))
}

func TestClaimForReadAlwaysSucceeds(t *testing.T) {
	c := NewFileClaims()
	c.ClaimForWrite("agent-a", "src/file.go")
	assert.True(t, c.ClaimForRead("agent-b", "src/file.go"))
}

func TestReleaseAllIsIdempotentAndFreesClaims(t *testing.T) {
	c := NewFileClaims()
	c.ClaimForWrite("agent-a", "src/a.go")
	c.ClaimForWrite("agent-a", "src/b.go")
	c.ClaimForWrite("agent-b", "src/c.go")

	c.ReleaseAll("agent-a")
	c.ReleaseAll("agent-a") // idempotent

	assert.True(t, c.ClaimForWrite("agent-b", "src/a.go"))
	assert.True(t, c.ClaimForWrite("agent-c", "src/b.go"))

	conflicts := c.GetConflicts("agent-x")
	assert.Len(t, conflicts, 3)
}

func TestGetConflictsExcludesOwnClaims(t *testing.T) {
	c := NewFileClaims()
	c.ClaimForWrite("agent-a", "src/a.go")
	c.ClaimForWrite("agent-b", "src/b.go")

	conflicts := c.GetConflicts("agent-a")
	assert.Len(t, conflicts, 1)
	assert.Equal(t, "src/b.go", conflicts[0].Path)
}

func TestGetConflictsEmptyWhenNoClaims(t *testing.T) {
	c := NewFileClaims()
	assert.Empty(t, c.GetConflicts("agent-a"))
}
