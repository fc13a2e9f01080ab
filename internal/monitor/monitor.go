// Package monitor implements the availability polling loop.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pickupwatch/pickupwatch/internal/browser"
	"github.com/pickupwatch/pickupwatch/internal/fulfillment"
	"github.com/pickupwatch/pickupwatch/internal/metrics"
	"github.com/pickupwatch/pickupwatch/internal/notify"
)

// Session is the browser handle one cycle owns. Satisfied by *browser.Session.
type Session interface {
	FetchAvailability(ctx context.Context, req browser.CheckRequest) ([]byte, error)
	Close()
}

// SessionFactory creates a fresh Session for a cycle. Creation failure is a
// failed cycle, not a fatal error.
type SessionFactory func(ctx context.Context) (Session, error)

// Config controls loop behavior.
type Config struct {
	Interval time.Duration
	Request  browser.CheckRequest
}

// Status is a read-only view of loop progress, served by the status endpoint.
type Status struct {
	LastSnapshot  *fulfillment.Snapshot `json:"last_snapshot,omitempty"`
	CyclesRun     uint64                `json:"cycles_run"`
	FailedCycles  uint64                `json:"failed_cycles"`
	Notifications uint64                `json:"notifications_sent"`
	LastCycleAt   time.Time             `json:"last_cycle_at"`
}

// Monitor owns the check/compare/notify/sleep loop. The last-known snapshot
// lives only here, in memory; a restart starts from scratch.
type Monitor struct {
	cfg        Config
	newSession SessionFactory
	notifier   notify.Notifier
	logger     *zap.Logger

	mu     sync.RWMutex
	last   *fulfillment.Snapshot
	status Status
}

// New constructs a Monitor.
func New(cfg Config, factory SessionFactory, notifier notify.Notifier, logger *zap.Logger) *Monitor {
	return &Monitor{
		cfg:        cfg,
		newSession: factory,
		notifier:   notifier,
		logger:     logger,
	}
}

// Run executes cycles until ctx is canceled. Cancellation during the sleep
// ends the loop before the next cycle starts; every per-cycle error is logged
// and absorbed, never propagated.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("starting monitor",
		zap.String("endpoint", m.cfg.Request.EndpointURL),
		zap.Duration("interval", m.cfg.Interval),
	)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.runCycle(ctx)

		m.logger.Info("waiting until next check", zap.Duration("interval", m.cfg.Interval))
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopped")
			return ctx.Err()
		case <-time.After(m.cfg.Interval):
		}
	}
}

// CheckOnce performs a single availability check with a throwaway session and
// returns the parsed snapshot without touching the stored one.
func (m *Monitor) CheckOnce(ctx context.Context) (fulfillment.Snapshot, error) {
	sess, err := m.newSession(ctx)
	if err != nil {
		return fulfillment.Snapshot{}, err
	}
	defer sess.Close()

	raw, err := sess.FetchAvailability(ctx, m.cfg.Request)
	if err != nil {
		return fulfillment.Snapshot{}, err
	}
	return fulfillment.ParseSnapshot(raw)
}

// Status returns a copy of the current loop status.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := m.status
	if m.last != nil {
		snap := *m.last
		st.LastSnapshot = &snap
	}
	return st
}

// runCycle performs one check-compare-notify pass. The session is torn down
// on every exit path, including a panic inside the cycle.
func (m *Monitor) runCycle(ctx context.Context) {
	log := m.logger.With(zap.String("cycle_id", uuid.NewString()))
	metrics.CyclesTotal.Inc()
	m.markCycle()

	defer func() {
		if r := recover(); r != nil {
			log.Error("cycle panicked", zap.Any("panic", r))
			m.markFailure()
			metrics.CheckErrorsTotal.Inc()
		}
	}()

	sess, err := m.newSession(ctx)
	if err != nil {
		log.Error("session creation failed", zap.Error(err))
		m.markFailure()
		metrics.CheckErrorsTotal.Inc()
		return
	}
	defer sess.Close()

	log.Info("checking availability")
	raw, err := sess.FetchAvailability(ctx, m.cfg.Request)
	if err != nil {
		log.Error("availability check failed", zap.Error(err))
		m.markFailure()
		metrics.CheckErrorsTotal.Inc()
		return
	}

	snap, err := fulfillment.ParseSnapshot(raw)
	if err != nil {
		log.Error("response parse failed", zap.Error(err))
		m.markFailure()
		metrics.ParseErrorsTotal.Inc()
		return
	}
	log.Info("availability parsed",
		zap.Int("stores", len(snap.Stores)),
		zap.Bool("available", snap.Available),
	)

	m.applySnapshot(ctx, log, snap)
}

// applySnapshot compares the fresh snapshot with the stored one and notifies
// when a differing snapshot reports availability. An identical snapshot is a
// no-op. Note the transition guard is whole-snapshot equality, not a
// previously-notified flag: any structural change while available (including
// a store reordering) sends another email.
func (m *Monitor) applySnapshot(ctx context.Context, log *zap.Logger, snap fulfillment.Snapshot) {
	m.mu.Lock()
	if m.last != nil && m.last.Equal(snap) {
		m.mu.Unlock()
		log.Info("no change in availability")
		return
	}
	m.last = &snap
	m.mu.Unlock()

	if snap.Available {
		metrics.LastAvailable.Set(1)
		body := notify.FormatBody(snap)
		if err := m.notifier.Notify(ctx, notify.AvailableSubject, body); err != nil {
			log.Error("notification failed", zap.Error(err))
			metrics.NotificationErrorsTotal.Inc()
		} else {
			m.mu.Lock()
			m.status.Notifications++
			m.mu.Unlock()
			metrics.NotificationsTotal.Inc()
		}
		log.Info("product available", zap.String("details", body))
	} else {
		metrics.LastAvailable.Set(0)
		log.Info("product not available")
	}
}

func (m *Monitor) markCycle() {
	m.mu.Lock()
	m.status.CyclesRun++
	m.status.LastCycleAt = time.Now()
	m.mu.Unlock()
}

func (m *Monitor) markFailure() {
	m.mu.Lock()
	m.status.FailedCycles++
	m.mu.Unlock()
}
