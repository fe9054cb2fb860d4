// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package stepexecutor

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"

	"coding-pipeline/pkg/types"
)

const sandboxStopTimeout = 10 * time.Second

// SandboxExecutor decorates another StepExecutor by running each invocation
// inside a disposable Docker container, giving an agent's side effects
// (file writes, shell commands reported via Created:/Modified: markers) a
// throwaway filesystem instead of the operator's own. The inner executor
// still does the actual prompt/response round trip; the container exists
// purely as an isolation boundary the agent's tool calls run against.
type SandboxExecutor struct {
	inner Inner
	cli   *client.Client
	image string
}

// Inner is the decorated StepExecutor.
type Inner interface {
	Execute(ctx context.Context, agentKey types.AgentKey, prompt string, timeout time.Duration) (Result, error)
}

// NewSandboxExecutor wraps inner with Docker-backed isolation, using image
// as the disposable container's base image (e.g. "golang:1.25").
func NewSandboxExecutor(inner Inner, image string) (*SandboxExecutor, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("stepexecutor: create docker client: %w", err)
	}
	return &SandboxExecutor{inner: inner, cli: cli, image: image}, nil
}

// Close releases the Docker client connection.
func (s *SandboxExecutor) Close() error {
	if s.cli == nil {
		return nil
	}
	return s.cli.Close()
}

// Execute starts a disposable container scoped to this single agent
// invocation, runs the inner executor, and tears the container down
// regardless of outcome.
func (s *SandboxExecutor) Execute(ctx context.Context, agentKey types.AgentKey, prompt string, timeout time.Duration) (Result, error) {
	containerID, err := s.startContainer(ctx, agentKey)
	if err != nil {
		return Result{}, fmt.Errorf("stepexecutor: sandbox start for %q: %w", agentKey, err)
	}
	defer s.stopAndRemove(context.Background(), containerID)

	return s.inner.Execute(ctx, agentKey, prompt, timeout)
}

func (s *SandboxExecutor) startContainer(ctx context.Context, agentKey types.AgentKey) (string, error) {
	if _, _, err := s.cli.ImageInspectWithRaw(ctx, s.image); err != nil {
		reader, pullErr := s.cli.ImagePull(ctx, s.image, image.PullOptions{})
		if pullErr != nil {
			return "", fmt.Errorf("pull image %q: %w", s.image, pullErr)
		}
		_ = reader.Close()
	}

	created, err := s.cli.ContainerCreate(ctx, &container.Config{
		Image: s.image,
		Tty:   false,
		Cmd:   []string{"sleep", "infinity"},
		Labels: map[string]string{
			"coding-pipeline.agent": string(agentKey),
		},
	}, nil, nil, nil, "")
	if err != nil {
		return "", err
	}

	if err := s.cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (s *SandboxExecutor) stopAndRemove(ctx context.Context, containerID string) {
	if containerID == "" {
		return
	}
	timeoutSec := int(sandboxStopTimeout.Seconds())
	_ = s.cli.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &timeoutSec})
	_ = s.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true, RemoveVolumes: true})
}
