package notify

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ormeet/ormeet-api/internal/mailer"
	"github.com/ormeet/ormeet-api/internal/metrics"
)

// Dispatcher renders notification emails and sends them, either right away
// (Send) or from a bounded queue drained by a fixed set of workers (Enqueue).
type Dispatcher struct {
	mailer   mailer.Mailer
	renderer *renderer
	queue    chan Email
	wg       sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(m mailer.Mailer, workers, queueSize int) (*Dispatcher, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("newRenderer -> %w", err)
	}
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	d := &Dispatcher{
		mailer:   m,
		renderer: r,
		queue:    make(chan Email, queueSize),
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.work()
	}

	return d, nil
}

func (d *Dispatcher) work() {
	defer d.wg.Done()

	for email := range d.queue {
		metrics.NotificationQueue.Dec()
		if err := d.Send(context.Background(), email); err != nil {
			zap.L().Error("failed to send notification",
				zap.String("template", string(email.Template)),
				zap.String("to", email.To),
				zap.Error(err),
			)
		}
	}
}

// Enqueue schedules email for delivery without waiting. It reports false,
// and drops the email, when the queue is full or the dispatcher is shut down.
func (d *Dispatcher) Enqueue(email Email) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(email, "dispatcher closed")
		return false
	}

	select {
	case d.queue <- email:
		metrics.NotificationQueue.Inc()
		return true
	default:
		d.drop(email, "queue full")
		return false
	}
}

func (d *Dispatcher) drop(email Email, reason string) {
	metrics.NotificationsDropped.Inc()
	zap.L().Warn("notification dropped",
		zap.String("reason", reason),
		zap.String("template", string(email.Template)),
		zap.String("to", email.To),
	)
}

// Send renders and delivers email synchronously.
func (d *Dispatcher) Send(ctx context.Context, email Email) error {
	html, err := d.renderer.render(email.Template, email.Data)
	if err != nil {
		return err
	}

	err = d.mailer.Send(ctx, mailer.Message{
		To:      email.To,
		ToName:  email.Name,
		Subject: email.Subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("d.mailer.Send -> %w", err)
	}

	return nil
}

// Shutdown stops accepting emails and waits for the queue to drain or ctx to
// end, whichever comes first.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
