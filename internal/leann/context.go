// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package leann defines the optional semantic-context collaborator:
// LeannContextService. Like the learning subsystem, failures here are
// non-fatal and logged — the Agent Executor proceeds without semantic
// context rather than fail the agent run.
package leann

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bitfield/script"

	"coding-pipeline/pkg/types"
)

// CodeFragment is one semantic-search hit.
type CodeFragment struct {
	FilePath string
	Content  string
}

// SemanticContextRequest mirrors buildSemanticContext's input shape.
type SemanticContextRequest struct {
	TaskDescription string
	Phase           types.Phase
	PreviousOutput  string
	MaxResults      int
}

// SemanticContextResult mirrors buildSemanticContext's output shape.
type SemanticContextResult struct {
	CodeContext  []CodeFragment
	TotalResults int
	SearchQuery  string
}

// Adapter is the indexing-side collaborator LeannContextService exposes via
// getAdapter().
type Adapter interface {
	Index(ctx context.Context, code, metadata string) error
}

// ContextService is the optional semantic-context collaborator.
type ContextService interface {
	BuildSemanticContext(ctx context.Context, req SemanticContextRequest) (SemanticContextResult, error)
	GetAdapter() Adapter
	Save(ctx context.Context, path string) error
}

// InMemoryService is a process-local ContextService backed by a flat index
// of previously forwarded files, enough to exercise the full contract
// without an external vector store.
type InMemoryService struct {
	mu    sync.Mutex
	index []indexedFile
}

type indexedFile struct {
	Content  string
	Metadata string
}

// NewInMemoryService creates an empty service.
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{}
}

// BuildSemanticContext returns up to req.MaxResults indexed fragments
// (never more than five, and five when MaxResults is not positive),
// newest-first, as a crude but deterministic stand-in for real semantic
// search — callers do not depend on ranking quality, only on the shape of
// the result and on non-fatal failure handling.
func (s *InMemoryService) BuildSemanticContext(ctx context.Context, req SemanticContextRequest) (SemanticContextResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	max := req.MaxResults
	if max <= 0 || max > 5 {
		max = 5
	}

	var frags []CodeFragment
	for i := len(s.index) - 1; i >= 0 && len(frags) < max; i-- {
		frags = append(frags, CodeFragment{FilePath: s.index[i].Metadata, Content: s.index[i].Content})
	}

	return SemanticContextResult{
		CodeContext:  frags,
		TotalResults: len(frags),
		SearchQuery:  req.TaskDescription,
	}, nil
}

// GetAdapter returns the indexing-side adapter.
func (s *InMemoryService) GetAdapter() Adapter { return s }

// Index appends code to the in-memory index under metadata (used as the
// fragment's reported file path).
func (s *InMemoryService) Index(ctx context.Context, code, metadata string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = append(s.index, indexedFile{Content: code, Metadata: metadata})
	return nil
}

// Save is a no-op for the in-memory service; a persistent backend would
// flush its index to path.
func (s *InMemoryService) Save(ctx context.Context, path string) error {
	return nil
}

// SafeBuildSemanticContext calls svc.BuildSemanticContext, logging and
// returning a zero-value result on any error.
func SafeBuildSemanticContext(ctx context.Context, svc ContextService, req SemanticContextRequest) SemanticContextResult {
	if svc == nil {
		return SemanticContextResult{}
	}
	result, err := svc.BuildSemanticContext(ctx, req)
	if err != nil {
		slog.Warn("leann: semantic context unavailable", "error", err)
		return SemanticContextResult{}
	}
	return result
}

// SafeForwardFiles indexes newly created/modified files best-effort.
// fallback supplies the content to index when the path cannot be
// read off disk (e.g. the agent reported a path in a sandboxed or remote
// workspace this process cannot see).
func SafeForwardFiles(ctx context.Context, svc ContextService, files map[string]string) {
	if svc == nil {
		return
	}
	adapter := svc.GetAdapter()
	if adapter == nil {
		return
	}
	for path, fallback := range files {
		content, err := readFileBestEffort(path)
		if err != nil {
			content = fallback
		}
		if err := adapter.Index(ctx, content, path); err != nil {
			slog.Warn("leann: failed to index file", "path", path, "error", err)
		}
	}
}

// readFileBestEffort reads path's real on-disk content.
func readFileBestEffort(path string) (string, error) {
	return script.File(path).String()
}
