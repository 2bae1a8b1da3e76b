// Command ds4cc is the background daemon: it aggregates AI-coding-assistant
// activity state from disk, drives a connected DualSense/DualShock4
// controller's lightbar and rumble from that state, and maps the
// controller's buttons/sticks onto synthesized keyboard and mouse input.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds4cc/ds4cc-go/internal/agent"
	"github.com/ds4cc/ds4cc-go/internal/config"
	"github.com/ds4cc/ds4cc-go/internal/inject"
	"github.com/ds4cc/ds4cc-go/internal/logging"
	"github.com/ds4cc/ds4cc-go/internal/supervisor"
)

func main() {
	var (
		logLevel = flag.String("log-level", "info", "log level: trace, debug, info, warn, error")
		logFile  = flag.String("log-file", "", "optional file to additionally log to")
		stateDir = flag.String("state-dir", "", "override the agent state directory (defaults per-OS)")
	)
	flag.Parse()

	log, closer, err := logging.Setup(logging.ParseLevel(*logLevel), *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ds4cc: failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	cfg := config.Default()
	if *stateDir != "" {
		cfg.StateDir = *stateDir
	}
	log.Info("ds4cc starting", "state_dir", cfg.StateDir, "agent_prefix", cfg.AgentPrefix)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("ds4cc shutting down", "signal", sig.String())
		cancel()
	}()

	tracker := agent.NewTracker(
		time.Duration(cfg.Codex.DoneThresholdS)*time.Second,
		time.Duration(cfg.IdleReminderS)*time.Second,
		time.Duration(cfg.SubagentFilterS)*time.Second,
		log.With("component", "tracker"),
	)
	aggregator := agent.NewAggregator(
		cfg.StateDir,
		cfg.AgentPrefix,
		time.Duration(cfg.PollIntervalMs)*time.Millisecond,
		time.Duration(cfg.StaleTimeoutS)*time.Second,
		time.Duration(cfg.IdleTimeoutS)*time.Second,
		tracker,
		log.With("component", "aggregator"),
	)

	aggregatorStop := make(chan struct{})
	go aggregator.Run(aggregatorStop)
	go func() {
		<-ctx.Done()
		close(aggregatorStop)
	}()

	sink := inject.NewSink(log.With("component", "inject"))
	sup := supervisor.New(cfg, aggregator.Watch(), tracker, sink, nil, log.With("component", "supervisor"))
	sup.Run(ctx)
}
