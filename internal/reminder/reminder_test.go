package reminder

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanNotifier struct {
	ch chan Notification
}

func (c *chanNotifier) Notify(ctx context.Context, n Notification) error {
	select {
	case c.ch <- n:
	case <-ctx.Done():
	}
	return nil
}

type countingNotifier struct {
	mu sync.Mutex
	n  int
}

func (c *countingNotifier) Notify(_ context.Context, _ Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return nil
}

func (c *countingNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPaymentNotification(t *testing.T) {
	one := PaymentNotification(1)
	assert.Equal(t, PaymentReminderID, one.ID)
	assert.Equal(t, "Pagos pendientes", one.Title)
	assert.Equal(t, "Tienes 1 pago de alquiler pendientes.", one.Body)
	assert.Equal(t, "Tienes 3 pagos de alquiler pendientes.", PaymentNotification(3).Body)
}

func TestSchedulerFiresRepeatedly(t *testing.T) {
	notifier := &chanNotifier{ch: make(chan Notification, 4)}
	s := New(notifier, discardLogger(), WithInterval(10*time.Millisecond))
	defer s.Close()

	s.UpdatePaymentReminders(2)
	assert.Equal(t, 2, s.Pending())

	for i := 0; i < 2; i++ {
		select {
		case n := <-notifier.ch:
			assert.Equal(t, "Tienes 2 pagos de alquiler pendientes.", n.Body)
		case <-time.After(2 * time.Second):
			t.Fatal("reminder did not fire")
		}
	}
}

func TestSchedulerReplacesReminder(t *testing.T) {
	notifier := &chanNotifier{ch: make(chan Notification, 16)}
	s := New(notifier, discardLogger(), WithInterval(10*time.Millisecond))
	defer s.Close()

	s.UpdatePaymentReminders(1)
	s.UpdatePaymentReminders(5)

	// drain anything queued by the first reminder before it was replaced
	deadline := time.After(2 * time.Second)
	for {
		select {
		case n := <-notifier.ch:
			if n.Body == "Tienes 5 pagos de alquiler pendientes." {
				return
			}
		case <-deadline:
			t.Fatal("replacement reminder did not fire")
		}
	}
}

func TestSchedulerZeroCancels(t *testing.T) {
	notifier := &countingNotifier{}
	s := New(notifier, discardLogger(), WithInterval(5*time.Millisecond))

	s.UpdatePaymentReminders(3)
	s.UpdatePaymentReminders(0)
	assert.Zero(t, s.Pending())

	fired := notifier.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, fired, notifier.count())
}

func TestSchedulerClose(t *testing.T) {
	notifier := &countingNotifier{}
	s := New(notifier, discardLogger(), WithInterval(5*time.Millisecond))
	s.UpdatePaymentReminders(1)
	s.Close()
	require.Zero(t, s.Pending())

	fired := notifier.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, fired, notifier.count())

	// closing twice is harmless
	s.Close()
}

func TestDefaultInterval(t *testing.T) {
	s := New(LogNotifier{Logger: discardLogger()}, discardLogger())
	assert.Equal(t, time.Hour, s.interval)
}
