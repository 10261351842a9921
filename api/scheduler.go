/*
scheduler.go - Scheduled pending sweep

PURPOSE:
  Statements close on the 5th and the 20th. On those days the office wants
  the pending report without asking for it, so the server runs the sweep
  once per cycle day and keeps the latest result.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Sweeps only on cycle dates, at most once per day
  - Writes pending-<date>.xlsx into OutputDir when set
  - Keeps the last summary for GET /api/pending/latest

CONFIGURATION:
  - SWEEP_ENABLED: whether the scheduler is active (default: false)
  - SWEEP_CHECK_INTERVAL: how often to check (default: 1 hour)
  - SWEEP_OUTPUT_DIR: workbook directory (optional)

USAGE:
  scheduler := NewSweepScheduler(handler.Scanner, cfg.Sweep, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ScanPending (manual sweep), LatestPending
  - generic/period.go: IsCycleDate
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/site-statement/config"
	"github.com/warp/site-statement/generic"
	"github.com/warp/site-statement/logger"
	"github.com/warp/site-statement/statement"
	"github.com/warp/site-statement/store/xlsx"
)

// SweepScheduler runs the pending sweep on cycle dates.
type SweepScheduler struct {
	Scanner       *statement.Scanner
	CheckInterval time.Duration
	OutputDir     string
	Enabled       bool
	Logger        logrus.FieldLogger

	// Now returns the current day. Replaced in tests.
	Now func() generic.TimePoint

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	stateMu sync.RWMutex
	lastRun generic.TimePoint
	latest  *statement.PendingSummary
}

// NewSweepScheduler creates a new scheduler.
func NewSweepScheduler(scanner *statement.Scanner, cfg config.SweepConfig, log logrus.FieldLogger) *SweepScheduler {
	return &SweepScheduler{
		Scanner:       scanner,
		CheckInterval: cfg.CheckInterval,
		OutputDir:     cfg.OutputDir,
		Enabled:       cfg.Enabled,
		Logger:        logger.Component(log, "scheduler"),
		Now:           generic.Today,
	}
}

// Start begins the scheduler.
func (s *SweepScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.Logger.Info("sweep scheduler disabled")
		return
	}

	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker, s.stop)

	s.Logger.WithField("check_interval", s.CheckInterval.String()).Info("sweep scheduler started")
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *SweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		s.ticker = nil
		s.Logger.Info("sweep scheduler stopped")
	}
}

func (s *SweepScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	// Run immediately on start
	s.check(stop)

	for {
		select {
		case <-ticker.C:
			s.check(stop)
		case <-stop:
			return
		}
	}
}

func (s *SweepScheduler) check(stop <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	if _, err := s.RunOnce(ctx); err != nil {
		s.Logger.WithError(err).Error("scheduled sweep failed")
	}
}

// RunOnce sweeps when today is a cycle date not swept yet. It reports
// whether a sweep ran.
func (s *SweepScheduler) RunOnce(ctx context.Context) (bool, error) {
	today := s.Now()
	if !generic.IsCycleDate(today) {
		return false, nil
	}

	s.stateMu.RLock()
	done := s.lastRun.Equal(today)
	s.stateMu.RUnlock()
	if done {
		return false, nil
	}

	summary, err := s.Scanner.Scan(ctx, nil, generic.TimePoint{})
	if err != nil && !(errors.Is(err, generic.ErrNoLedgers) && summary != nil) {
		return false, err
	}

	s.stateMu.Lock()
	s.lastRun = today
	s.latest = summary
	s.stateMu.Unlock()

	if s.OutputDir != "" {
		path := filepath.Join(s.OutputDir, "pending-"+today.ISO()+".xlsx")
		if werr := writePendingWorkbook(summary, path); werr != nil {
			return true, werr
		}
		s.Logger.WithField("file", path).Info("pending workbook written")
	}
	return true, err
}

// Latest returns the last scheduled sweep, or nil before the first one.
func (s *SweepScheduler) Latest() *statement.PendingSummary {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.latest
}

func writePendingWorkbook(summary *statement.PendingSummary, path string) error {
	f, err := xlsx.PendingWorkbook(summary)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
