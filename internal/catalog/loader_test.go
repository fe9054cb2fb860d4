// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coding-pipeline/pkg/types"
)

func TestMustLoadCanonicalCatalogHas47Agents(t *testing.T) {
	mappings, err := MustLoad("../../agents")
	require.NoError(t, err)
	assert.Len(t, mappings, 47)
}

func TestMustLoadEveryDependencyNamesAKnownAgent(t *testing.T) {
	mappings, err := MustLoad("../../agents")
	require.NoError(t, err)

	known := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		known[string(m.Key)] = true
	}
	for _, m := range mappings {
		for _, dep := range m.DependsOn {
			assert.True(t, known[string(dep)], "agent %q depends on unknown agent %q", m.Key, dep)
		}
	}
}

func TestMustLoadMissingDirectoryIsFatal(t *testing.T) {
	_, err := MustLoad(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestLoadCatalogSkipsUnparsableFileButReportsIt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00-broken.md"), []byte("not front matter at all"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01-task-analyzer.md"), []byte("---\nname: task-analyzer\ntype: specialist\n---\nbody\n"), 0o644))

	result, err := LoadCatalog(dir)
	require.NoError(t, err)

	require.Len(t, result.Mappings, 1)
	assert.NotEmpty(t, result.Errors)
}

func TestLoadCatalogReportsMissingExpectedAgentFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01-task-analyzer.md"), []byte("---\nname: task-analyzer\ntype: specialist\n---\nbody\n"), 0o644))

	result, err := LoadCatalog(dir)
	require.NoError(t, err)
	// 46 other canonical agents are missing; each should surface an error.
	assert.GreaterOrEqual(t, len(result.Errors), 46)
}

func TestLoadCatalogRejectsUnknownAgentFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "99-not-a-real-agent.md"), []byte("---\nname: not-a-real-agent\ntype: specialist\n---\nbody\n"), 0o644))

	result, err := LoadCatalog(dir)
	require.NoError(t, err)
	assert.Empty(t, result.Mappings)
	assert.NotEmpty(t, result.Errors)
}

func TestParseAgentFileDerivesPhaseFromCanonicalOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "16-code-generator.md")
	require.NoError(t, os.WriteFile(path, []byte("---\nname: code-generator\ntype: specialist\npriority: critical\n---\nGenerates code.\n"), 0o644))

	m, err := parseAgentFile(path)
	require.NoError(t, err)
	assert.Equal(t, "implementation", m.Phase.String())
	assert.True(t, m.Critical)
}

func TestParseAgentFileFillsSchedulingFieldsFromCanonicalTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "18-service-implementer.md")
	require.NoError(t, os.WriteFile(path, []byte("---\nname: service-implementer\ntype: specialist\n---\nImplements services.\n"), 0o644))

	m, err := parseAgentFile(path)
	require.NoError(t, err)
	assert.Equal(t, []types.AgentKey{"type-implementer"}, m.DependsOn)
	assert.Equal(t, []string{"coding/implementation/type-implementer"}, m.Reads)
	assert.Equal(t, []string{"coding/implementation/service-implementer"}, m.Writes)
	assert.Equal(t, 55, m.XPReward)
	assert.True(t, m.Parallelizable)
}

func TestParseAgentFileMissingRequiredFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "01-task-analyzer.md")
	require.NoError(t, os.WriteFile(path, []byte("---\ntype: specialist\n---\nbody\n"), 0o644))

	_, err := parseAgentFile(path)
	require.Error(t, err)
}

func TestValidateAgentFilesDetectsCycle(t *testing.T) {
	mappings := []types.AgentMapping{
		{Key: "task-analyzer", Phase: types.PhaseUnderstanding, DependsOn: []types.AgentKey{"requirements-interpreter"}},
		{Key: "requirements-interpreter", Phase: types.PhaseUnderstanding, DependsOn: []types.AgentKey{"task-analyzer"}},
	}

	errs := validateAgentFiles(mappings)
	found := false
	for _, e := range errs {
		if e != nil && strings.Contains(e.Error(), "cycle") {
			found = true
		}
	}
	assert.True(t, found, "expected a cycle error to be reported")
}

func TestValidateAgentFilesDetectsUnknownDependency(t *testing.T) {
	mappings := []types.AgentMapping{
		{Key: "task-analyzer", Phase: types.PhaseUnderstanding, DependsOn: []types.AgentKey{"ghost-agent"}},
	}
	errs := validateAgentFiles(mappings)

	found := false
	for _, e := range errs {
		if e != nil && strings.Contains(e.Error(), "non-existent agent") {
			found = true
		}
	}
	assert.True(t, found, "expected an unknown-dependency error to be reported")
}
