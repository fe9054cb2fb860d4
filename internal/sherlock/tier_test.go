// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package sherlock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectTierRetryCountDominates(t *testing.T) {
	assert.Equal(t, TierInvestigation, SelectTier(1, TierGlance, GateResultPassed))
	assert.Equal(t, TierDeepDive, SelectTier(2, TierGlance, GateResultPassed))
	assert.Equal(t, TierDeepDive, SelectTier(5, TierGlance, ""))
}

func TestSelectTierUsesDefaultWhenNoGateResult(t *testing.T) {
	assert.Equal(t, TierScan, SelectTier(0, TierScan, ""))
	assert.Equal(t, TierGlance, SelectTier(0, TierGlance, ""))
}

func TestSelectTierDefaultsToScanWhenNothingConfigured(t *testing.T) {
	assert.Equal(t, TierScan, SelectTier(0, "", ""))
}

func TestSelectTierRefinesByGateResult(t *testing.T) {
	assert.Equal(t, TierDeepDive, SelectTier(0, TierGlance, GateResultHardReject))
	assert.Equal(t, TierInvestigation, SelectTier(0, TierGlance, GateResultSoftReject))
	assert.Equal(t, TierScan, SelectTier(0, TierGlance, GateResultConditionalPass))
	assert.Equal(t, TierGlance, SelectTier(0, TierScan, GateResultPassed))
}

func TestTierBudgets(t *testing.T) {
	assert.Less(t, TierGlance.Budget(), TierScan.Budget())
	assert.Less(t, TierScan.Budget(), TierInvestigation.Budget())
	assert.Less(t, TierInvestigation.Budget(), TierDeepDive.Budget())
}
