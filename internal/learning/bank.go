// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package learning defines the optional SonaEngine/ReasoningBank
// collaborator: trajectory recording and quality feedback that the
// orchestrator treats as best-effort — failures are logged and never halt
// a pipeline run.
package learning

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// FeedbackOptions mirrors the options ReasoningBank.provideFeedback accepts.
type FeedbackOptions struct {
	SkipAutoSave bool
	RLMContext   map[string]string
	LScore       float64
}

// ReasoningBank is the optional trajectory/feedback collaborator.
type ReasoningBank interface {
	CreateTrajectoryWithID(ctx context.Context, id, route string, patterns []string, taskContext map[string]string) error
	ProvideFeedback(ctx context.Context, id string, quality float64, opts FeedbackOptions) error
}

// Tagger is an optional extension some ReasoningBank implementations
// support for filtering trajectories by agent key or outcome.
// InMemoryBank implements it via CreateTrajectoryWithTags.
type Tagger interface {
	CreateTrajectoryWithTags(ctx context.Context, id, route string, patterns, tags []string, taskContext map[string]string) error
}

// patternThreshold is the default quality bar above which a trajectory is
// promoted to a reusable pattern.
const patternThreshold = 0.75

// InMemoryBank is a process-local ReasoningBank: enough to exercise the
// full feedback contract in tests without an external learning service.
type InMemoryBank struct {
	mu           sync.Mutex
	trajectories map[string]trajectory
	patterns     []PatternEntry
}

type trajectory struct {
	Route     string
	Patterns  []string
	Context   map[string]string
	Quality   float64
	Tags      []string
	CreatedAt time.Time
}

// ReflexionEntry is one prior trajectory considered as reflexion context
// for a retried agent run.
type ReflexionEntry struct {
	TrajectoryID string
	Quality      float64
	Context      string
	CreatedAt    time.Time
}

// PatternEntry is one promoted pattern considered as pattern context for an
// agent run.
type PatternEntry struct {
	TaskType    string
	Description string
	SuccessRate float64
}

// ReflexionContext selects up to five of the most recent trajectories
// tagged "agent:<key>" with quality < 0.7 or tagged "failed", and reports
// the success rate (quality >= 0.7) across all trajectories considered.
func (b *InMemoryBank) ReflexionContext(agentKey string) (entries []ReflexionEntry, successRate float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tag := "agent:" + agentKey
	var candidates []trajectory
	var ids []string
	for id, t := range b.trajectories {
		if !hasTag(t.Tags, tag) {
			continue
		}
		candidates = append(candidates, t)
		ids = append(ids, id)
	}
	if len(candidates) == 0 {
		return nil, 0
	}

	successCount := 0
	for _, t := range candidates {
		if t.Quality >= 0.7 {
			successCount++
		}
	}
	successRate = float64(successCount) / float64(len(candidates))

	type idx struct {
		id string
		t  trajectory
	}
	var pairs []idx
	for i, t := range candidates {
		pairs = append(pairs, idx{id: ids[i], t: t})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].t.CreatedAt.After(pairs[j].t.CreatedAt) })

	for _, p := range pairs {
		if len(entries) >= 5 {
			break
		}
		if p.t.Quality < 0.7 || hasTag(p.t.Tags, "failed") {
			entries = append(entries, ReflexionEntry{
				TrajectoryID: p.id,
				Quality:      p.t.Quality,
				Context:      p.t.Route,
				CreatedAt:    p.t.CreatedAt,
			})
		}
	}
	return entries, successRate
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NewInMemoryBank creates an empty bank.
func NewInMemoryBank() *InMemoryBank {
	return &InMemoryBank{trajectories: make(map[string]trajectory)}
}

// CreateTrajectoryWithID records a new trajectory under id.
func (b *InMemoryBank) CreateTrajectoryWithID(ctx context.Context, id, route string, patterns []string, taskContext map[string]string) error {
	return b.CreateTrajectoryWithTags(ctx, id, route, patterns, nil, taskContext)
}

// CreateTrajectoryWithTags is CreateTrajectoryWithID plus the tag set used
// by ReflexionContext (e.g. "agent:<key>", "failed").
func (b *InMemoryBank) CreateTrajectoryWithTags(ctx context.Context, id, route string, patterns, tags []string, taskContext map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.trajectories[id]; exists {
		return fmt.Errorf("learning: trajectory %q already exists", id)
	}
	b.trajectories[id] = trajectory{Route: route, Patterns: patterns, Context: taskContext, Tags: tags, CreatedAt: time.Now()}
	return nil
}

// ProvideFeedback records quality against an existing trajectory and
// promotes it to the pattern library once quality clears patternThreshold.
func (b *InMemoryBank) ProvideFeedback(ctx context.Context, id string, quality float64, opts FeedbackOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.trajectories[id]
	if !ok {
		return fmt.Errorf("learning: unknown trajectory %q", id)
	}
	t.Quality = quality
	b.trajectories[id] = t

	if quality >= patternThreshold {
		if len(b.patterns) >= maxPatterns {
			b.patterns = b.patterns[1:] // FIFO eviction, MAX_PATTERNS_SIZE
		}
		b.patterns = append(b.patterns, PatternEntry{
			TaskType:    taskType(t.Context),
			Description: t.Route,
			SuccessRate: quality,
		})
	}
	return nil
}

func taskType(ctx map[string]string) string {
	return ctx["taskType"]
}

// Patterns returns patterns matching taskType with success rate >= 0.5,
// sorted by success rate descending, top 5.
func (b *InMemoryBank) Patterns(taskType string) []PatternEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []PatternEntry
	for _, p := range b.patterns {
		if p.TaskType == taskType && p.SuccessRate >= 0.5 {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].SuccessRate > matched[j].SuccessRate })
	if len(matched) > 5 {
		matched = matched[:5]
	}
	return matched
}

// maxPatterns caps the pattern store; eviction is FIFO once reached.
const maxPatterns = 500

// SafeFeedback delivers feedback to bank, logging and swallowing any error
// so a learning-subsystem outage never halts a pipeline.
func SafeFeedback(ctx context.Context, bank ReasoningBank, id string, quality float64, opts FeedbackOptions) {
	if bank == nil {
		return
	}
	if err := bank.ProvideFeedback(ctx, id, quality, opts); err != nil {
		slog.Warn("learning: feedback delivery failed", "trajectory", id, "error", err)
	}
}

// SafeCreateTrajectory creates a trajectory, logging and swallowing any
// error so the caller never needs to branch on learning-subsystem health.
func SafeCreateTrajectory(ctx context.Context, bank ReasoningBank, id, route string, patterns []string, taskContext map[string]string) {
	if bank == nil {
		return
	}
	if err := bank.CreateTrajectoryWithID(ctx, id, route, patterns, taskContext); err != nil {
		slog.Warn("learning: trajectory creation failed", "trajectory", id, "error", err)
	}
}
