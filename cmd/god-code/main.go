// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"coding-pipeline/internal/agentexec"
	"coding-pipeline/internal/catalog"
	"coding-pipeline/internal/checkpoint"
	"coding-pipeline/internal/config"
	"coding-pipeline/internal/leann"
	"coding-pipeline/internal/learning"
	"coding-pipeline/internal/memory"
	"coding-pipeline/internal/observability"
	"coding-pipeline/internal/orchestrator"
	"coding-pipeline/internal/phase"
	"coding-pipeline/internal/progress"
	"coding-pipeline/internal/promptbuilder"
	"coding-pipeline/internal/sherlock"
	"coding-pipeline/internal/stepexecutor"
	"coding-pipeline/pkg/dag"
	"coding-pipeline/pkg/types"
)

func main() {
	var (
		verbose           = flag.Bool("verbose", false, "enable debug logging")
		enableParallel    = flag.Bool("enableParallelExecution", true, "run independent agents within a phase concurrently")
		maxParallelAgents = flag.Int("maxParallelAgents", 3, "maximum agents running concurrently within a phase")
		enableCheckpoints = flag.Bool("enableCheckpoints", true, "snapshot memory at checkpoint phases for rollback")
		enableLearning    = flag.Bool("enableLearning", true, "feed verdicts and agent quality into the learning subsystem")
		agentTimeoutMs    = flag.Int("agentTimeoutMs", 600_000, "per-agent execution timeout in milliseconds")
		phaseTimeoutMs    = flag.Int("phaseTimeoutMs", 3_600_000, "per-phase execution timeout in milliseconds")
		startPhase        = flag.String("startPhase", "understanding", "first phase to run")
		endPhase          = flag.String("endPhase", "delivery", "last phase to run")
		agentsDir         = flag.String("agentsDir", "agents", "directory of agent definition files")
		openCodeURL       = flag.String("openCodeURL", "http://localhost:4096", "base URL of the OpenCode server backing the step executor")
		dryRun            = flag.Bool("dry-run", false, "use a canned step executor instead of a live OpenCode server")
		collectorURL      = flag.String("otelCollector", "", "OTLP/HTTP collector endpoint; empty disables tracing")
	)
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	taskDescription := strings.Join(flag.Args(), " ")
	if taskDescription == "" {
		log.Fatalln("usage: god-code [flags] <task description>")
	}

	start, ok := types.ParsePhase(*startPhase)
	if !ok {
		log.Fatalf("unknown startPhase %q", *startPhase)
	}
	end, ok := types.ParsePhase(*endPhase)
	if !ok {
		log.Fatalf("unknown endPhase %q", *endPhase)
	}

	cfg := config.Default()
	cfg.Verbose = *verbose
	cfg.EnableParallelExecution = *enableParallel
	cfg.MaxParallelAgents = *maxParallelAgents
	cfg.EnableCheckpoints = *enableCheckpoints
	cfg.EnableLearning = *enableLearning
	cfg.AgentTimeoutMs = *agentTimeoutMs
	cfg.PhaseTimeoutMs = *phaseTimeoutMs
	cfg.StartPhase = start
	cfg.EndPhase = end
	cfg.TaskDescription = taskDescription

	mappings, err := catalog.MustLoad(*agentsDir)
	if err != nil {
		log.Fatalf("loading agent catalog: %v", err)
	}
	pipelineDAG, err := dag.Build(mappings)
	if err != nil {
		log.Fatalf("building pipeline DAG: %v", err)
	}

	ctx := context.Background()

	var bus observability.Bus = observability.NoopBus{}
	if *collectorURL != "" {
		otelBus, err := observability.NewOTelBus(ctx, observability.Config{ServiceName: "coding-pipeline", CollectorURL: *collectorURL, Insecure: true})
		if err != nil {
			log.Fatalf("initializing observability bus: %v", err)
		}
		defer otelBus.Close(ctx)
		bus = otelBus
	}

	mem := memory.New()
	progressStore := progress.NewStore()
	claims := progress.NewFileClaims()

	var bank learning.ReasoningBank
	var leannSvc leann.ContextService
	if cfg.EnableLearning {
		bank = learning.NewInMemoryBank()
		leannSvc = leann.NewInMemoryService()
	}

	var stepExec stepexecutor.StepExecutor = stepexecutor.NewOpenCodeExecutor(*openCodeURL)
	if *dryRun {
		stepExec = stepexecutor.DryRunExecutor{}
	}

	execAgent := &agentexec.Executor{
		StepExecutor:  stepExec,
		PromptBuilder: promptbuilder.New(),
		Memory:        mem,
		Progress:      progressStore,
		Claims:        claims,
		Bus:           bus,
		Learning:      bank,
		Leann:         leannSvc,
	}

	cpMgr := checkpoint.New(mem, 20)

	quality := sherlock.NewLScoreIntegration()
	protocols := sherlock.DefaultProtocols(mappings)
	for p, protocol := range protocols {
		protocol.Checks = append(protocol.Checks, sherlock.LScoreCheck(quality))
		protocols[p] = protocol
	}
	gate := &sherlock.Gate{
		Memory:    mem,
		Protocols: protocols,
		Review:    sherlock.DefaultReview,
		LScore:    quality.LScore,
		Learning:  bank,
	}

	phaseExec := &phase.Executor{
		Agents:     func(p types.Phase) []types.AgentMapping { return mappingsForPhase(pipelineDAG, p) },
		AgentExec:  execAgent,
		Progress:   progressStore,
		Checkpoint: cpMgr,
		Gate:       gate,
		Quality:    quality,
		Memory:     mem,
		Bus:        bus,
	}

	orch := &orchestrator.Orchestrator{
		PhaseExecutor: phaseExec,
		Mappings:      mappings,
		Memory:        mem,
		Checkpoint:    cpMgr,
		Bus:           bus,
		Learning:      bank,
	}

	fmt.Printf("coding-pipeline: running %q across phases %s..%s\n", taskDescription, start, end)
	result := orch.Execute(ctx, cfg)

	if result.Success {
		fmt.Printf("pipeline succeeded: %d phases completed, %d XP earned\n", len(result.CompletedPhases), result.TotalXP)
		os.Exit(0)
	}

	fmt.Printf("pipeline failed at phase %v (rollback applied: %v)\n", result.FailedPhase, result.RollbackApplied)
	for _, r := range result.Remediations {
		fmt.Printf("  remediation: %s\n", r)
	}
	os.Exit(1)
}

func mappingsForPhase(d *dag.PipelineDAG, phase types.Phase) []types.AgentMapping {
	keys := d.PhaseExecutionOrder(phase)
	out := make([]types.AgentMapping, 0, len(keys))
	for _, k := range keys {
		if m, ok := d.Mapping(k); ok {
			out = append(out, m)
		}
	}
	return out
}
