package agent

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Aggregator scans a state directory for <prefix>_agent_<id> files on a
// fixed poll interval, collapses them into a single global state by
// priority, and publishes changes on its Watch. It also drives the
// per-agent Tracker so that individual transitions can be observed even
// though the published global state is a level, not an edge.
type Aggregator struct {
	dir             string
	prefix          string
	pollInterval    time.Duration
	staleTimeout    time.Duration
	idleTimeout     time.Duration
	log             *slog.Logger

	watch   *Watch
	tracker *Tracker

	doneSince time.Time
	lastGlobal State
}

// NewAggregator constructs an Aggregator. tracker must already be
// configured with the desired reminder/subagent thresholds.
func NewAggregator(dir, prefix string, pollInterval, staleTimeout, idleTimeout time.Duration, tracker *Tracker, log *slog.Logger) *Aggregator {
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{
		dir:          dir,
		prefix:       prefix,
		pollInterval: pollInterval,
		staleTimeout: staleTimeout,
		idleTimeout:  idleTimeout,
		log:          log,
		watch:        NewWatch(Idle),
		tracker:      tracker,
		lastGlobal:   Idle,
	}
}

// Watch returns the global-state publication channel equivalent.
func (a *Aggregator) Watch() *Watch { return a.watch }

// Run polls the state directory on a.pollInterval until the stop channel is
// closed. It also tries to watch the directory with fsnotify so a write is
// picked up before the next tick; if that fails (e.g. the dir doesn't exist
// yet) polling alone still covers correctness, just with higher latency.
func (a *Aggregator) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	events, errs := a.watchDir()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.scanOnce(time.Now())
		case _, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			a.scanOnce(time.Now())
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			a.log.Debug("agent: fsnotify watch error", "error", err)
		}
	}
}

// watchDir starts an fsnotify watch on the state directory as an optional
// latency nudge: the authoritative signal is still the poll tick, this just
// lets a change get picked up sooner. Returns nil channels if the watcher
// can't be set up.
func (a *Aggregator) watchDir() (<-chan struct{}, <-chan error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		a.log.Debug("agent: fsnotify unavailable, falling back to polling only", "error", err)
		return nil, nil
	}
	if err := watcher.Add(a.dir); err != nil {
		a.log.Debug("agent: fsnotify add failed, falling back to polling only", "dir", a.dir, "error", err)
		watcher.Close()
		return nil, nil
	}

	events := make(chan struct{}, 1)
	errs := make(chan error, 1)
	go func() {
		defer watcher.Close()
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case events <- struct{}{}:
				default:
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				select {
				case errs <- werr:
				default:
				}
			}
		}
	}()
	return events, errs
}

// scanOnce performs one full scan/evict/collapse/publish/auto-idle cycle.
func (a *Aggregator) scanOnce(now time.Time) {
	active := a.scanFiles(now)
	a.tracker.Observe(active, now)

	global := Aggregate(valuesOf(active))
	if a.handleAutoIdle(global, now) {
		return
	}

	if global != a.lastGlobal {
		a.lastGlobal = global
		a.watch.Set(global)
	}
}

func valuesOf(m map[string]State) []State {
	out := make([]State, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	return out
}

// scanFiles enumerates <prefix>_agent_<id> files, applies staleness and
// idle eviction, and returns the surviving active map.
func (a *Aggregator) scanFiles(now time.Time) map[string]State {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		a.log.Debug("agent: state dir unreadable", "dir", a.dir, "error", err)
		return map[string]State{}
	}

	wantPrefix := a.prefix + "_agent_"
	active := make(map[string]State)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, wantPrefix) {
			continue
		}
		if strings.HasSuffix(name, "_start") {
			continue
		}
		id := strings.TrimPrefix(name, wantPrefix)
		path := filepath.Join(a.dir, name)

		info, err := entry.Info()
		if err != nil {
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		state, ok := ParseState(string(raw))
		if !ok {
			continue
		}

		if state == Working && now.Sub(info.ModTime()) > a.staleTimeout {
			a.removeAgentFiles(name)
			continue
		}
		if state == Idle {
			a.removeAgentFiles(name)
			continue
		}
		active[id] = state
	}
	return active
}

func (a *Aggregator) removeAgentFiles(name string) {
	_ = os.Remove(filepath.Join(a.dir, name))
	_ = os.Remove(filepath.Join(a.dir, name+"_start"))
}

// handleAutoIdle sweeps Done files off disk and forces the published state
// to Idle once the global state has remained Done continuously for
// idleTimeout. It reports whether it already published (and the caller's
// separately-computed, now-stale global value must not be republished).
func (a *Aggregator) handleAutoIdle(global State, now time.Time) bool {
	if a.idleTimeout <= 0 {
		a.doneSince = time.Time{}
		return false
	}
	if global != Done {
		a.doneSince = time.Time{}
		return false
	}
	if a.doneSince.IsZero() {
		a.doneSince = now
		return false
	}
	if now.Sub(a.doneSince) < a.idleTimeout {
		return false
	}
	a.sweepDoneFiles()
	a.doneSince = time.Time{}
	a.lastGlobal = Idle
	a.watch.Set(Idle)
	return true
}

func (a *Aggregator) sweepDoneFiles() {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return
	}
	wantPrefix := a.prefix + "_agent_"
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, wantPrefix) || strings.HasSuffix(name, "_start") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(a.dir, name))
		if err != nil {
			continue
		}
		if state, ok := ParseState(string(raw)); ok && state == Done {
			a.removeAgentFiles(name)
		}
	}
}
