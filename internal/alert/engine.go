package alert

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

const defaultConcurrency = 4

type propertyLister interface {
	List(ctx context.Context) ([]*domain.Property, error)
}

type tenantLister interface {
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.Tenant, error)
}

type incomeLister interface {
	ListByProperty(ctx context.Context, propertyID uuid.UUID, from, to *time.Time) ([]*domain.Income, error)
}

// ReminderUpdater receives the number of unpaid rent alerts after each run.
type ReminderUpdater interface {
	UpdatePaymentReminders(pendingCount int)
}

// Engine fetches every property's tenants and income and derives alerts from
// them.
type Engine struct {
	properties  propertyLister
	tenants     tenantLister
	income      incomeLister
	reminders   ReminderUpdater
	logger      *slog.Logger
	now         func() time.Time
	concurrency int

	mu      sync.Mutex
	cancel  context.CancelFunc
	running uint64
}

type EngineOption func(*Engine)

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithConcurrency bounds how many properties are fetched at once.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEngine returns an Engine. reminders may be nil.
func NewEngine(properties propertyLister, tenants tenantLister, income incomeLister, reminders ReminderUpdater, logger *slog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		properties:  properties,
		tenants:     tenants,
		income:      income,
		reminders:   reminders,
		logger:      logger,
		now:         time.Now,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateAlerts returns the alerts of all properties sorted by severity.
// A property whose data cannot be fetched is logged and left out. The only
// error returned is the context's.
func (e *Engine) GenerateAlerts(ctx context.Context) ([]domain.LocalAlert, error) {
	now := e.now()
	props, err := e.properties.List(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Error("failed to list properties for alerts", "error", err)
		props = nil
	}

	from, to := monthBounds(now)
	perProperty := make([][]domain.LocalAlert, len(props))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, p := range props {
		i, p := i, p
		g.Go(func() error {
			alerts, err := e.propertyAlerts(ctx, now, p, from, to)
			if err != nil {
				e.logger.Warn("skipping property alerts", "property_id", p.ID, "error", err)
				return nil
			}
			perProperty[i] = alerts
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var alerts []domain.LocalAlert
	for _, a := range perProperty {
		alerts = append(alerts, a...)
	}
	SortBySeverity(alerts)

	if e.reminders != nil {
		e.reminders.UpdatePaymentReminders(CountKind(alerts, domain.AlertUnpaidRent))
	}
	e.logger.Info("alerts generated", "properties", len(props), "alerts", len(alerts))
	return alerts, nil
}

func (e *Engine) propertyAlerts(ctx context.Context, now time.Time, p *domain.Property, from, to time.Time) ([]domain.LocalAlert, error) {
	tenants, err := e.tenants.ListByProperty(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	income, err := e.income.ListByProperty(ctx, p.ID, &from, &to)
	if err != nil {
		return nil, err
	}
	alerts := ContractAlerts(now, p, tenants)
	return append(alerts, UnpaidAlerts(now, p, income)...), nil
}

// Refresh runs GenerateAlerts and cancels any Refresh still in flight. A
// superseded call returns context.Canceled.
func (e *Engine) Refresh(ctx context.Context) ([]domain.LocalAlert, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.cancel = cancel
	e.running++
	run := e.running
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		if e.running == run {
			e.cancel = nil
		}
		e.mu.Unlock()
	}()

	return e.GenerateAlerts(ctx)
}

// monthBounds returns the first and last instant of now's calendar month.
func monthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0).Add(-time.Second)
}
