// Command ds4ccstatus is a read-only debug dashboard: it polls the same
// agent state directory the daemon does and renders the aggregated global
// state in a live terminal table. The profile row always reads "default"
// and no per-agent rows are shown. It never opens the controller itself.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ds4cc/ds4cc-go/internal/agent"
	"github.com/ds4cc/ds4cc-go/internal/config"
	"github.com/ds4cc/ds4cc-go/internal/logging"
	"github.com/ds4cc/ds4cc-go/internal/mapper"
	"github.com/ds4cc/ds4cc-go/internal/statusview"
)

func main() {
	var stateDir = flag.String("state-dir", "", "override the agent state directory (defaults per-OS)")
	flag.Parse()

	log, closer, err := logging.Setup(slog.LevelWarn, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ds4ccstatus: failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	cfg := config.Default()
	if *stateDir != "" {
		cfg.StateDir = *stateDir
	}

	tracker := agent.NewTracker(
		time.Duration(cfg.Codex.DoneThresholdS)*time.Second,
		time.Duration(cfg.IdleReminderS)*time.Second,
		time.Duration(cfg.SubagentFilterS)*time.Second,
		log,
	)
	aggregator := agent.NewAggregator(
		cfg.StateDir,
		cfg.AgentPrefix,
		time.Duration(cfg.PollIntervalMs)*time.Millisecond,
		time.Duration(cfg.StaleTimeoutS)*time.Second,
		time.Duration(cfg.IdleTimeoutS)*time.Second,
		tracker,
		log,
	)

	stop := make(chan struct{})
	go aggregator.Run(stop)
	defer close(stop)

	view := statusview.New()

	go func() {
		watch := aggregator.Watch()
		version := uint64(0)
		for {
			state, v, ok := watch.ChangedCtx(context.Background(), version)
			if !ok {
				return
			}
			version = v
			view.Update(statusview.Snapshot{
				GlobalState: state,
				Profile:     mapper.ProfileDefault,
				AgentStates: map[string]agent.State{},
			})
		}
	}()

	if err := view.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ds4ccstatus: view exited with error: %v\n", err)
		os.Exit(1)
	}
}
