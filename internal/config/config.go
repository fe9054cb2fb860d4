// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package config loads and defaults the pipeline's run configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"coding-pipeline/pkg/types"
)

// PipelineConfig controls one Execute run.
type PipelineConfig struct {
	Verbose                 bool          `yaml:"verbose"`
	EnableParallelExecution bool          `yaml:"enableParallelExecution"`
	MaxParallelAgents       int           `yaml:"maxParallelAgents"`
	EnableCheckpoints       bool          `yaml:"enableCheckpoints"`
	EnableLearning          bool          `yaml:"enableLearning"`
	AgentTimeoutMs          int           `yaml:"agentTimeoutMs"`
	PhaseTimeoutMs          int           `yaml:"phaseTimeoutMs"`
	StartPhase              types.Phase   `yaml:"startPhase"`
	EndPhase                types.Phase   `yaml:"endPhase"`
	TaskDescription         string        `yaml:"taskDescription"`
	CheckpointPhases        []types.Phase `yaml:"checkpointPhases"`
}

const (
	defaultMaxParallelAgents = 3
	defaultAgentTimeoutMs    = 600_000
	defaultPhaseTimeoutMs    = 3_600_000
)

// Default returns a PipelineConfig with every documented default applied.
func Default() PipelineConfig {
	return PipelineConfig{
		EnableParallelExecution: true,
		MaxParallelAgents:       defaultMaxParallelAgents,
		EnableCheckpoints:       true,
		EnableLearning:          true,
		AgentTimeoutMs:          defaultAgentTimeoutMs,
		PhaseTimeoutMs:          defaultPhaseTimeoutMs,
		StartPhase:              types.PhaseUnderstanding,
		EndPhase:                types.PhaseDelivery,
		CheckpointPhases:        []types.Phase{types.PhaseArchitecture, types.PhaseImplementation, types.PhaseTesting},
	}
}

// AgentTimeout returns the configured per-agent timeout as a Duration.
func (c PipelineConfig) AgentTimeout() time.Duration {
	return time.Duration(c.AgentTimeoutMs) * time.Millisecond
}

// PhaseTimeout returns the configured per-phase timeout as a Duration.
func (c PipelineConfig) PhaseTimeout() time.Duration {
	return time.Duration(c.PhaseTimeoutMs) * time.Millisecond
}

// IsCheckpointPhase reports whether phase is configured to checkpoint.
func (c PipelineConfig) IsCheckpointPhase(phase types.Phase) bool {
	for _, p := range c.CheckpointPhases {
		if p == phase {
			return true
		}
	}
	return false
}

// Phases returns the ordered phase slice this config will run, bounded by
// StartPhase/EndPhase inclusive.
func (c PipelineConfig) Phases() []types.Phase {
	start, end := c.StartPhase, c.EndPhase
	if start == 0 {
		start = types.PhaseUnderstanding
	}
	if end == 0 {
		end = types.PhaseDelivery
	}
	var out []types.Phase
	for _, p := range types.Phases {
		if p >= start && p <= end {
			out = append(out, p)
		}
	}
	return out
}

// Load reads a YAML pipeline configuration file, applying Default() first so
// unset fields keep their documented defaults.
func Load(path string) (PipelineConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return PipelineConfig{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return PipelineConfig{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}
