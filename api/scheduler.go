/*
scheduler.go - Periodic suggestion digest

PURPOSE:
  Periodically evaluates the suggestion heuristics against the ledger and
  logs every high-priority alert, so escalations surface in the server log
  even when nobody has the dashboard open.

DESIGN:
  - Jobs run on a robfig/cron scheduler
  - Evaluates once immediately on start, then on every firing
  - Reads only; it never mutates the ledger

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour), run as "@every"
  - Spec: A cron expression ("0 8 * * *") that replaces CheckInterval
  - Enabled: Whether scheduler is active (false when created with interval 0
    and no cron expression)

USAGE:
  scheduler := NewSuggestionScheduler(ledger, 15*time.Minute)
  if err := scheduler.Start(); err != nil { ... }
  // ... later
  scheduler.Stop()

SEE ALSO:
  - workforce/suggestions.go: The heuristics
  - handlers.go: GetSuggestions endpoint (on-demand evaluation)
*/
package api

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/warp/workforce-ledger/workforce"
)

// DefaultSuggestionInterval is used when NewSuggestionScheduler is given a
// negative interval.
const DefaultSuggestionInterval = time.Hour

// SuggestionScheduler logs high-priority suggestions on a schedule.
type SuggestionScheduler struct {
	Ledger        *workforce.Ledger
	CheckInterval time.Duration
	Spec          string
	Enabled       bool

	mu      sync.Mutex
	cron    *cron.Cron
	lastRun time.Time
}

// NewSuggestionScheduler creates a scheduler. An interval of 0 disables it.
func NewSuggestionScheduler(ledger *workforce.Ledger, interval time.Duration) *SuggestionScheduler {
	if interval < 0 {
		interval = DefaultSuggestionInterval
	}
	return &SuggestionScheduler{
		Ledger:        ledger,
		CheckInterval: interval,
		Enabled:       interval > 0,
	}
}

// WithSchedule switches the scheduler to a cron expression and enables it.
func (ss *SuggestionScheduler) WithSchedule(spec string) *SuggestionScheduler {
	ss.Spec = spec
	ss.Enabled = true
	return ss
}

func (ss *SuggestionScheduler) schedule() string {
	if ss.Spec != "" {
		return ss.Spec
	}
	return "@every " + ss.CheckInterval.String()
}

// Start begins the scheduler. Calling Start on a running scheduler is a no-op.
func (ss *SuggestionScheduler) Start() error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if !ss.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return nil
	}
	if ss.cron != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(ss.schedule(), func() { ss.RunNow() }); err != nil {
		return fmt.Errorf("schedule %q: %w", ss.schedule(), err)
	}

	// Run immediately on start
	ss.runLocked()

	c.Start()
	ss.cron = c
	log.Printf("[Scheduler] Started with schedule: %s", ss.schedule())
	return nil
}

// Stop stops the scheduler and waits for a running check to finish.
func (ss *SuggestionScheduler) Stop() {
	ss.mu.Lock()
	c := ss.cron
	ss.cron = nil
	ss.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
		log.Println("[Scheduler] Stopped")
	}
}

// RunNow evaluates the suggestions once, logs the high-priority ones and
// returns them.
func (ss *SuggestionScheduler) RunNow() []workforce.Suggestion {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.runLocked()
}

func (ss *SuggestionScheduler) runLocked() []workforce.Suggestion {
	suggestions := ss.Ledger.GenerateSuggestions()

	var urgent []workforce.Suggestion
	for _, s := range suggestions {
		if s.Priority == workforce.PriorityHigh {
			urgent = append(urgent, s)
		}
	}

	for _, s := range urgent {
		log.Printf("[Scheduler] HIGH: %s - %s", s.Title, s.Body)
	}
	if len(urgent) == 0 {
		log.Printf("[Scheduler] Checked %d suggestion(s), nothing urgent", len(suggestions))
	}

	ss.lastRun = time.Now()
	return urgent
}

// LastRun returns when the suggestions were last evaluated, zero if never.
func (ss *SuggestionScheduler) LastRun() time.Time {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.lastRun
}

// GetNextRunTime returns when the next scheduled check will occur, zero
// when the scheduler is not running.
func (ss *SuggestionScheduler) GetNextRunTime() time.Time {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.cron == nil {
		return time.Time{}
	}
	entries := ss.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
