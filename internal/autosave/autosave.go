// Package autosave schedules periodic saves on a wall-clock cadence,
// decoupled from the deterministic tick loop (§6.2, §9: "asynchronous
// catalog/tuner tasks" pattern extended to periodic persistence).
package autosave

import (
	"github.com/robfig/cron/v3"
)

// SaveFunc performs one save; its own error handling/logging is the
// caller's responsibility.
type SaveFunc func()

// Scheduler wraps a cron.Cron dedicated to wall-clock autosave cadence.
type Scheduler struct {
	cron    *cron.Cron
	entryID cron.EntryID
}

// New builds an autosave scheduler that invokes fn on the given cron
// spec (standard 5-field, e.g. "*/10 * * * *" for every ten minutes).
// It does not start running until Start is called.
func New(spec string, fn SaveFunc) (*Scheduler, error) {
	c := cron.New()
	id, err := c.AddFunc(spec, func() { fn() })
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c, entryID: id}, nil
}

// Start begins the cron scheduler's background goroutine.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the scheduler and waits for any in-flight save to finish.
func (s *Scheduler) Stop() { <-s.cron.Stop().Done() }

// NextRun reports when the autosave entry is next due.
func (s *Scheduler) NextRun() cron.Entry { return s.cron.Entry(s.entryID) }
