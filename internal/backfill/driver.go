// Package backfill drives large resumable fetch batches: every unit of work
// is tracked in a status table, passes repeat over the pending set, and
// upstream throttling pauses the batch instead of failing it.
package backfill

import (
	"context"
	"math/rand"
	"time"

	"github.com/dfirman/footscout/external/rest"
	"github.com/dfirman/footscout/internal/platform/logging"
)

// Status of one unit of work.
type Status string

const (
	StatusPending  Status = "pending"
	StatusFetching Status = "fetching"
	StatusSaved    Status = "saved"
	StatusSkipped  Status = "skipped"
)

// Unit is one batch work item, typically a club or competition id.
type Unit struct {
	ID    string
	Label string
}

// FetchFunc performs the fetch for one unit. The fetch layer's caching
// makes it cheap for units already saved by a previous run.
type FetchFunc func(ctx context.Context, unit Unit) error

type DriverConfig struct {
	// MinDelay..MaxDelay bounds the randomized politeness pause after each
	// successful fetch.
	MinDelay time.Duration
	MaxDelay time.Duration
	// RateLimitPause is the longer fixed pause after a throttling signal.
	RateLimitPause time.Duration
	Logger         *logging.Logger

	// sleep is swapped out by tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Driver runs one batch. It is single-threaded: units are fetched
// sequentially so the politeness pacing actually paces the upstream.
type Driver struct {
	units  []Unit
	status map[string]Status
	fetch  FetchFunc
	cfg    DriverConfig
	logger *logging.Logger
}

func NewDriver(units []Unit, fetch FetchFunc, cfg DriverConfig) *Driver {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = 1 * time.Second
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay + 2*time.Second
	}
	if cfg.RateLimitPause <= 0 {
		cfg.RateLimitPause = 30 * time.Second
	}
	if cfg.sleep == nil {
		cfg.sleep = sleepCtx
	}

	status := make(map[string]Status, len(units))
	for _, unit := range units {
		status[unit.ID] = StatusPending
	}

	return &Driver{
		units:  units,
		status: status,
		fetch:  fetch,
		cfg:    cfg,
		logger: logger,
	}
}

// Run repeats passes over the pending units until none remain or a full
// pass makes no progress. A permanent upstream failure marks the unit
// skipped and the batch keeps going; a throttling signal pauses the pass in
// place. Run never lets a unit's error escape the batch.
func (d *Driver) Run(ctx context.Context) (Report, error) {
	for {
		progressed, err := d.pass(ctx)
		if err != nil {
			return d.Report(), err
		}
		if d.pendingCount() == 0 {
			return d.Report(), nil
		}
		if !progressed {
			d.logger.Warn("batch pass made no progress, stopping",
				"pending", d.pendingCount())
			return d.Report(), nil
		}
	}
}

func (d *Driver) pass(ctx context.Context) (bool, error) {
	progressed := false
	for _, unit := range d.units {
		if d.status[unit.ID] != StatusPending {
			continue
		}
		if err := ctx.Err(); err != nil {
			return progressed, err
		}

		d.status[unit.ID] = StatusFetching
		d.logger.Info("fetching unit", "id", unit.ID, "label", unit.Label)

		err := d.fetch(ctx, unit)
		switch {
		case err == nil:
			d.status[unit.ID] = StatusSaved
			progressed = true
			if err := d.cfg.sleep(ctx, d.politenessDelay()); err != nil {
				return progressed, err
			}

		case rest.IsNotFound(err):
			d.status[unit.ID] = StatusSkipped
			progressed = true
			d.logger.Warn("unit not found upstream, skipping", "id", unit.ID, "error", err)

		case rest.IsRateLimited(err):
			d.status[unit.ID] = StatusPending
			d.logger.Warn("rate limit signal, pausing batch",
				"id", unit.ID, "pause", d.cfg.RateLimitPause, "error", err)
			if err := d.cfg.sleep(ctx, d.cfg.RateLimitPause); err != nil {
				return progressed, err
			}

		case rest.IsTransient(err):
			d.status[unit.ID] = StatusPending
			d.logger.Warn("transient failure, unit retried next pass", "id", unit.ID, "error", err)

		default:
			// Anything unclassifiable is permanent for this unit.
			d.status[unit.ID] = StatusSkipped
			d.logger.Error("unit failed, skipping", "id", unit.ID, "error", err)
		}
	}
	return progressed, nil
}

func (d *Driver) politenessDelay() time.Duration {
	span := d.cfg.MaxDelay - d.cfg.MinDelay
	if span <= 0 {
		return d.cfg.MinDelay
	}
	return d.cfg.MinDelay + time.Duration(rand.Int63n(int64(span)))
}

func (d *Driver) pendingCount() int {
	count := 0
	for _, status := range d.status {
		if status == StatusPending {
			count++
		}
	}
	return count
}

// Report is the batch outcome per status.
type Report struct {
	Saved   int
	Skipped int
	Pending int

	SkippedIDs []string
	PendingIDs []string
}

func (d *Driver) Report() Report {
	var report Report
	for _, unit := range d.units {
		switch d.status[unit.ID] {
		case StatusSaved:
			report.Saved++
		case StatusSkipped:
			report.Skipped++
			report.SkippedIDs = append(report.SkippedIDs, unit.ID)
		default:
			report.Pending++
			report.PendingIDs = append(report.PendingIDs, unit.ID)
		}
	}
	return report
}

// StatusOf reports one unit's current status.
func (d *Driver) StatusOf(id string) Status {
	return d.status[id]
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
