// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package catalog loads, parses and validates the 47 agent definition files
// that make up the coding pipeline's agent roster.
package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"coding-pipeline/pkg/types"
)

// header is the front-matter block recognized at the top of an agent
// definition file. Fields beyond name/type/category/priority/capabilities/
// tools/qualityGates/hooks/description carry the rest of AgentMapping
// directly in the front matter rather than in a second file.
type header struct {
	Name           string   `yaml:"name"`
	Type           string   `yaml:"type"`
	Category       string   `yaml:"category"`
	Priority       string   `yaml:"priority"` // "critical" or "normal"
	IntraPriority  int      `yaml:"intraPriority"`
	Capabilities   []string `yaml:"capabilities"`
	Tools          []string `yaml:"tools"`
	QualityGates   []string `yaml:"qualityGates"`
	Hooks          hooks    `yaml:"hooks"`
	DependsOn      []string `yaml:"dependsOn"`
	Reads          []string `yaml:"reads"`
	Writes         []string `yaml:"writes"`
	XPReward       int      `yaml:"xpReward"`
	Parallelizable *bool    `yaml:"parallelizable"`
	Algorithm      string   `yaml:"algorithm"`
}

type hooks struct {
	Pre  []string `yaml:"pre"`
	Post []string `yaml:"post"`
}

var frontMatterRe = regexp.MustCompile(`(?s)\A---\n(.*?)\n---\n?(.*)\z`)

// ParseError describes one agent file that failed to parse.
type ParseError struct {
	File   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Reason)
}

// CatalogResult is the outcome of LoadCatalog: the mappings that parsed
// successfully plus every validation/parse deficiency found along the way.
type CatalogResult struct {
	Mappings []types.AgentMapping
	Errors   []error
}

// LoadCatalog scans basePath for agent definition files (named
// "<NN>-<key>.md"), parses each file's header, and derives the full
// AgentMapping set. A missing directory is fatal; per-file parse failures
// are logged and skipped so validation can report the full deficit.
func LoadCatalog(basePath string) (CatalogResult, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return CatalogResult{}, fmt.Errorf("catalog: agent directory %q is required: %w", basePath, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	result := CatalogResult{}
	for _, name := range files {
		path := filepath.Join(basePath, name)
		m, err := parseAgentFile(path)
		if err != nil {
			slog.Warn("catalog: skipping unparsable agent file", "file", path, "error", err)
			result.Errors = append(result.Errors, &ParseError{File: path, Reason: err.Error()})
			continue
		}
		result.Mappings = append(result.Mappings, m)
	}

	result.Errors = append(result.Errors, validateAgentFiles(result.Mappings)...)
	return result, nil
}

func parseAgentFile(path string) (types.AgentMapping, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.AgentMapping{}, err
	}

	m := frontMatterRe.FindSubmatch(raw)
	if m == nil {
		return types.AgentMapping{}, fmt.Errorf("missing YAML front matter")
	}

	var h header
	if err := yaml.Unmarshal(m[1], &h); err != nil {
		return types.AgentMapping{}, fmt.Errorf("invalid front matter: %w", err)
	}
	body := strings.TrimSpace(string(m[2]))

	if h.Name == "" {
		return types.AgentMapping{}, fmt.Errorf("missing required header field: name")
	}
	if h.Type == "" {
		return types.AgentMapping{}, fmt.Errorf("missing required header field: type")
	}

	key := types.AgentKey(h.Name)

	phase, ok := canonicalPhase[key]
	if !ok {
		return types.AgentMapping{}, fmt.Errorf("unknown agent file: %q is not in the canonical order", key)
	}

	algo := phaseDefaultAlgorithm[phase]
	if h.Algorithm != "" {
		algo = types.Algorithm(h.Algorithm)
	} else if override, ok := canonicalAlgorithmOverride[key]; ok {
		algo = override
	}

	// Headers may omit the scheduling fields entirely; the canonical tables
	// supply them so a hand-written agent file only has to carry what it
	// changes.
	deps := make([]types.AgentKey, 0, len(h.DependsOn))
	for _, d := range h.DependsOn {
		deps = append(deps, types.AgentKey(d))
	}
	if len(h.DependsOn) == 0 {
		deps = append(deps, canonicalDependsOn[key]...)
	}

	reads := h.Reads
	if len(reads) == 0 {
		reads = canonicalReads[key]
	}
	writes := h.Writes
	if len(writes) == 0 {
		writes = canonicalWrites[key]
	}
	xp := h.XPReward
	if xp <= 0 {
		xp = canonicalXP[key]
	}
	parallelizable := canonicalParallelizable[key]
	if h.Parallelizable != nil {
		parallelizable = *h.Parallelizable
	}

	critical := canonicalCritical[key] || h.Priority == "critical"

	description := body
	if description == "" {
		description = canonicalDescription[key]
	}

	return types.AgentMapping{
		Key:            key,
		Phase:          phase,
		Priority:       h.IntraPriority,
		DependsOn:      deps,
		Reads:          reads,
		Writes:         writes,
		XPReward:       xp,
		Algorithm:      algo,
		Parallelizable: parallelizable,
		Critical:       critical,
		Description:    description,
		Capabilities:   h.Capabilities,
		Tools:          h.Tools,
		QualityGates:   h.QualityGates,
	}, nil
}

// validateAgentFiles reports errors for: a missing expected agent file, a
// cycle in the synthesized dependency graph, and any dependency naming a
// non-existent agent.
func validateAgentFiles(mappings []types.AgentMapping) []error {
	var errs []error

	seen := make(map[types.AgentKey]bool, len(mappings))
	byKey := make(map[types.AgentKey]types.AgentMapping, len(mappings))
	for _, m := range mappings {
		seen[m.Key] = true
		byKey[m.Key] = m
	}

	for key := range canonicalOrder {
		if !seen[key] {
			errs = append(errs, fmt.Errorf("catalog: missing expected agent file for %q", key))
		}
	}

	for _, m := range mappings {
		for _, dep := range m.DependsOn {
			if !seen[dep] {
				errs = append(errs, fmt.Errorf("catalog: agent %q declares dependency on non-existent agent %q", m.Key, dep))
			}
		}
	}

	if cycleErr := detectCycle(byKey); cycleErr != nil {
		errs = append(errs, cycleErr)
	}

	return errs
}

func detectCycle(byKey map[types.AgentKey]types.AgentMapping) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[types.AgentKey]int, len(byKey))

	var visit func(key types.AgentKey, stack []types.AgentKey) error
	visit = func(key types.AgentKey, stack []types.AgentKey) error {
		color[key] = gray
		for _, dep := range byKey[key].DependsOn {
			if color[dep] == gray {
				return fmt.Errorf("catalog: cycle detected in agent dependency graph: %v -> %s", append(stack, key, dep), dep)
			}
			if color[dep] == white {
				if _, ok := byKey[dep]; !ok {
					continue // already reported by validateAgentFiles
				}
				if err := visit(dep, append(stack, key)); err != nil {
					return err
				}
			}
		}
		color[key] = black
		return nil
	}

	for key := range byKey {
		if color[key] == white {
			if err := visit(key, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// MustLoad loads the canonical 47-agent catalog from basePath and returns a
// hard error if the directory is missing or any canonical agent could not be
// resolved to a mapping (as opposed to LoadCatalog, which tolerates
// individual parse failures so validateAgentFiles can report them all).
func MustLoad(basePath string) ([]types.AgentMapping, error) {
	result, err := LoadCatalog(basePath)
	if err != nil {
		return nil, err
	}
	if len(result.Mappings) != len(canonicalOrder) {
		return nil, fmt.Errorf("catalog: loaded %d agents, want %d: %v", len(result.Mappings), len(canonicalOrder), result.Errors)
	}
	return result.Mappings, nil
}
