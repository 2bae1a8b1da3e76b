package agent

import (
	"log/slog"
	"time"
)

// record is the in-memory per-agent tracking entry.
type record struct {
	state         State
	since         time.Time
	reminderFired bool
}

// Tracker maintains a per-agent id -> (state, since) map in parallel to the
// aggregator's global collapse, and emits edge-triggered idle-reminder and
// done-rumble signals. It never holds a lock of its own; Observe is called
// exclusively from the aggregator's scan goroutine.
type Tracker struct {
	doneThreshold   time.Duration
	idleReminder    time.Duration
	subagentFilter  time.Duration
	reminderCooldown time.Duration

	records map[string]*record

	idleReminderCh chan struct{}
	doneRumbleCh   chan struct{}

	lastReminderAt time.Time

	log *slog.Logger
}

// NewTracker constructs a Tracker. Channel capacities are intentionally
// small: delivery is best-effort per spec, so a full channel just drops
// the signal rather than blocking the scan loop.
func NewTracker(doneThreshold, idleReminder, subagentFilter time.Duration, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		doneThreshold:    doneThreshold,
		idleReminder:     idleReminder,
		subagentFilter:   subagentFilter,
		reminderCooldown: 5 * time.Second,
		records:          make(map[string]*record),
		idleReminderCh:   make(chan struct{}, 1),
		doneRumbleCh:     make(chan struct{}, 1),
		log:              log,
	}
}

// IdleReminders returns the channel signaled when one or more agents cross
// the idle-reminder threshold (coalesced per tick).
func (t *Tracker) IdleReminders() <-chan struct{} { return t.idleReminderCh }

// DoneRumbles returns the channel signaled when an agent's Working->Done
// transition exceeds the done threshold.
func (t *Tracker) DoneRumbles() <-chan struct{} { return t.doneRumbleCh }

// Observe updates per-agent records from the latest active-file scan.
// active contains only agents whose files currently exist post-eviction
// (Idle and stale-Working files have already been removed by the caller);
// agents present in a prior scan but absent here are inferred to have been
// evicted-as-idle.
func (t *Tracker) Observe(active map[string]State, now time.Time) {
	for id, state := range active {
		rec, exists := t.records[id]
		if !exists {
			t.records[id] = &record{state: state, since: now}
			continue
		}
		if rec.state != state {
			if rec.state == Working && state == Done {
				t.onWorkingToDone(rec, now)
			}
			rec.state = state
			rec.since = now
			rec.reminderFired = false
		}
	}

	for id, rec := range t.records {
		if _, stillActive := active[id]; stillActive {
			continue
		}
		if rec.state == Idle {
			// Already moved to Idle on an earlier scan; keep its since.
			continue
		}
		wasWorking := rec.state == Working
		workedFor := now.Sub(rec.since)
		rec.state = Idle
		rec.since = now
		if wasWorking && workedFor < t.subagentFilter {
			// Subagent filter: short-lived sub-tool invocation, never alert.
			rec.reminderFired = true
		} else {
			rec.reminderFired = false
		}
	}

	t.fireIdleReminders(now)
	t.prune()
}

func (t *Tracker) onWorkingToDone(rec *record, now time.Time) {
	workedFor := now.Sub(rec.since)
	if t.doneThreshold > 0 && workedFor >= t.doneThreshold {
		t.sendNonBlocking(t.doneRumbleCh)
	} else {
		t.log.Debug("agent: short task completed, suppressing done rumble", "duration", workedFor)
	}
}

func (t *Tracker) fireIdleReminders(now time.Time) {
	if t.idleReminder <= 0 {
		return
	}
	if !t.lastReminderAt.IsZero() && now.Sub(t.lastReminderAt) < t.reminderCooldown {
		return
	}
	fired := false
	for _, rec := range t.records {
		if rec.state != Idle || rec.reminderFired {
			continue
		}
		if now.Sub(rec.since) >= t.idleReminder {
			rec.reminderFired = true
			fired = true
		}
	}
	if fired {
		t.lastReminderAt = now
		t.sendNonBlocking(t.idleReminderCh)
	}
}

// prune drops idle records whose reminder has already fired (or will never
// fire because reminders are disabled). Active (non-idle) agents are always
// kept; idle agents with a pending reminder are kept until it fires.
func (t *Tracker) prune() {
	for id, rec := range t.records {
		if rec.state == Idle && (rec.reminderFired || t.idleReminder <= 0) {
			delete(t.records, id)
		}
	}
}

func (t *Tracker) sendNonBlocking(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
