// Package reminder schedules the recurring pending-payment reminder.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	PaymentReminderID = "hourly_payment_reminder"
	DefaultInterval   = time.Hour
)

type Notification struct {
	ID    string
	Title string
	Body  string
}

// Notifier delivers a reminder to the landlord.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes reminders to a slog.Logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l LogNotifier) Notify(_ context.Context, n Notification) error {
	l.Logger.Info("payment reminder", "id", n.ID, "title", n.Title, "body", n.Body)
	return nil
}

// Scheduler keeps at most one recurring payment reminder alive.
type Scheduler struct {
	notifier Notifier
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	pending int
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func New(notifier Notifier, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{notifier: notifier, interval: DefaultInterval, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdatePaymentReminders replaces the current reminder. A count of zero only
// cancels it.
func (s *Scheduler) UpdatePaymentReminders(pendingCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.pending = pendingCount
	if pendingCount <= 0 {
		s.logger.Info("no pending payments, reminders cancelled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	n := PaymentNotification(pendingCount)
	go s.run(ctx, done, n)
	s.logger.Info("scheduled payment reminder", "pending", pendingCount, "interval", s.interval)
}

// Pending returns the count of the active reminder, or zero.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Close stops the reminder and waits for its goroutine to exit.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.pending = 0
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel, s.done = nil, nil
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}, n Notification) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.notifier.Notify(ctx, n); err != nil {
				s.logger.Warn("failed to deliver payment reminder", "error", err)
			}
		}
	}
}

// PaymentNotification builds the reminder text for pending unpaid rents.
func PaymentNotification(pending int) Notification {
	noun := "pago"
	if pending > 1 {
		noun = "pagos"
	}
	return Notification{
		ID:    PaymentReminderID,
		Title: "Pagos pendientes",
		Body:  fmt.Sprintf("Tienes %d %s de alquiler pendientes.", pending, noun),
	}
}
