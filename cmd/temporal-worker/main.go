// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"coding-pipeline/internal/agentexec"
	"coding-pipeline/internal/catalog"
	"coding-pipeline/internal/checkpoint"
	"coding-pipeline/internal/leann"
	"coding-pipeline/internal/learning"
	"coding-pipeline/internal/memory"
	"coding-pipeline/internal/observability"
	"coding-pipeline/internal/phase"
	"coding-pipeline/internal/progress"
	"coding-pipeline/internal/promptbuilder"
	"coding-pipeline/internal/sherlock"
	"coding-pipeline/internal/stepexecutor"
	"coding-pipeline/internal/temporalpipeline"
	"coding-pipeline/pkg/dag"
	"coding-pipeline/pkg/types"
)

const taskQueue = "coding-pipeline-task-queue"

const (
	maxConcurrentActivityExecutionSize     = 50
	maxConcurrentWorkflowTaskExecutionSize = 10
	workerStopTimeout                      = 30 * time.Second
)

func main() {
	var (
		agentsDir   = flag.String("agentsDir", "agents", "directory of agent definition files")
		openCodeURL = flag.String("openCodeURL", "http://localhost:4096", "base URL of the OpenCode server backing the step executor")
	)
	flag.Parse()

	log.Println("coding-pipeline Temporal worker starting")

	mappings, err := catalog.MustLoad(*agentsDir)
	if err != nil {
		log.Fatalf("loading agent catalog: %v", err)
	}
	pipelineDAG, err := dag.Build(mappings)
	if err != nil {
		log.Fatalf("building pipeline DAG: %v", err)
	}

	mem := memory.New()
	progressStore := progress.NewStore()
	claims := progress.NewFileClaims()
	bank := learning.NewInMemoryBank()
	leannSvc := leann.NewInMemoryService()

	execAgent := &agentexec.Executor{
		StepExecutor:  stepexecutor.NewOpenCodeExecutor(*openCodeURL),
		PromptBuilder: promptbuilder.New(),
		Memory:        mem,
		Progress:      progressStore,
		Claims:        claims,
		Bus:           observability.NoopBus{},
		Learning:      bank,
		Leann:         leannSvc,
	}

	cpMgr := checkpoint.New(mem, 20)
	quality := sherlock.NewLScoreIntegration()
	gate := &sherlock.Gate{
		Memory:    mem,
		Protocols: sherlock.DefaultProtocols(mappings),
		Review:    sherlock.DefaultReview,
		LScore:    quality.LScore,
		Learning:  bank,
	}

	phaseExec := &phase.Executor{
		Agents: func(p types.Phase) []types.AgentMapping {
			keys := pipelineDAG.PhaseExecutionOrder(p)
			out := make([]types.AgentMapping, 0, len(keys))
			for _, k := range keys {
				if m, ok := pipelineDAG.Mapping(k); ok {
					out = append(out, m)
				}
			}
			return out
		},
		AgentExec:  execAgent,
		Progress:   progressStore,
		Checkpoint: cpMgr,
		Gate:       gate,
		Quality:    quality,
		Memory:     mem,
		Bus:        observability.NoopBus{},
	}

	activities := temporalpipeline.NewActivities(phaseExec, cpMgr)

	c, err := client.Dial(client.Options{HostPort: client.DefaultHostPort})
	if err != nil {
		log.Fatalln("unable to create Temporal client:", err)
	}
	defer c.Close()

	log.Println("connected to Temporal server")

	w := worker.New(c, taskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     maxConcurrentActivityExecutionSize,
		MaxConcurrentWorkflowTaskExecutionSize: maxConcurrentWorkflowTaskExecutionSize,
		WorkerStopTimeout:                      workerStopTimeout,
	})

	w.RegisterWorkflow(temporalpipeline.PipelineWorkflow)
	w.RegisterActivityWithOptions(activities.ExecutePhaseActivity, activity.RegisterOptions{Name: temporalpipeline.ExecutePhaseActivityName})
	w.RegisterActivityWithOptions(activities.RollbackActivity, activity.RegisterOptions{Name: temporalpipeline.RollbackActivityName})

	log.Printf("worker listening on task queue: %s", taskQueue)

	errChan := make(chan error, 1)
	go func() {
		errChan <- w.Run(worker.InterruptCh())
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Println("worker error:", err)
		os.Exit(1)
	case <-sigChan:
		log.Println("shutdown signal received")
	}

	log.Println("worker stopped")
}
