// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coding-pipeline/pkg/types"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.EnableParallelExecution)
	assert.Equal(t, 3, cfg.MaxParallelAgents)
	assert.True(t, cfg.EnableCheckpoints)
	assert.True(t, cfg.EnableLearning)
	assert.Equal(t, 600_000, cfg.AgentTimeoutMs)
	assert.Equal(t, 3_600_000, cfg.PhaseTimeoutMs)
	assert.Equal(t, types.PhaseUnderstanding, cfg.StartPhase)
	assert.Equal(t, types.PhaseDelivery, cfg.EndPhase)
	assert.Equal(t, []types.Phase{types.PhaseArchitecture, types.PhaseImplementation, types.PhaseTesting}, cfg.CheckpointPhases)
}

func TestAgentAndPhaseTimeoutDurations(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 600*time.Second, cfg.AgentTimeout())
	assert.Equal(t, 3600*time.Second, cfg.PhaseTimeout())
}

func TestIsCheckpointPhase(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsCheckpointPhase(types.PhaseArchitecture))
	assert.False(t, cfg.IsCheckpointPhase(types.PhaseUnderstanding))
}

func TestPhasesBoundedByStartAndEnd(t *testing.T) {
	cfg := Default()
	cfg.StartPhase = types.PhaseArchitecture
	cfg.EndPhase = types.PhaseTesting

	phases := cfg.Phases()
	assert.Equal(t, []types.Phase{types.PhaseArchitecture, types.PhaseImplementation, types.PhaseTesting}, phases)
}

func TestPhasesFullRangeWhenUnset(t *testing.T) {
	cfg := PipelineConfig{}
	assert.Equal(t, types.Phases, cfg.Phases())
}

func TestLoadAppliesDefaultsThenOverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbose: true\nmaxParallelAgents: 8\ntaskDescription: \"build the widget\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	assert.Equal(t, 8, cfg.MaxParallelAgents)
	assert.Equal(t, "build the widget", cfg.TaskDescription)
	// Unset fields keep Default()'s values.
	assert.True(t, cfg.EnableCheckpoints)
	assert.Equal(t, 600_000, cfg.AgentTimeoutMs)
}

func TestLoadMissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAMLIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: valid: yaml: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
