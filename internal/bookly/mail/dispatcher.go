package mail

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	"golang.org/x/sync/errgroup"
)

var (
	ErrQueueFull = errors.New("mail: queue full")
	ErrStopped   = errors.New("mail: dispatcher stopped")
)

const (
	DefaultWorkers     = 2
	DefaultQueueSize   = 100
	DefaultSendTimeout = 30 * time.Second
)

// Dispatcher sends mail in the background through a bounded queue drained by
// a fixed pool of workers. Enqueue never blocks.
type Dispatcher struct {
	Mailer      Mailer
	Logger      *slog.Logger
	Workers     int
	SendTimeout time.Duration

	queue chan domain.MailMessage

	mu      sync.RWMutex
	stopped bool

	group *errgroup.Group
}

// NewDispatcher creates a Dispatcher. Non-positive workers or size use the
// defaults.
func NewDispatcher(mailer Mailer, logger *slog.Logger, workers, size int) *Dispatcher {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if size <= 0 {
		size = DefaultQueueSize
	}

	return &Dispatcher{
		Mailer:      mailer,
		Logger:      logger,
		Workers:     workers,
		SendTimeout: DefaultSendTimeout,
		queue:       make(chan domain.MailMessage, size),
	}
}

// Start launches the workers. This is non-blocking; call Stop to drain the
// queue and wait for the workers.
func (d *Dispatcher) Start() {
	d.group = new(errgroup.Group)
	for i := 0; i < d.Workers; i++ {
		d.group.Go(d.work)
	}
	d.Logger.Info("mail dispatcher started", "workers", d.Workers, "queue_size", cap(d.queue))
}

// Stop refuses further messages, lets the workers send what is already
// queued and waits for them to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	if d.group != nil {
		_ = d.group.Wait()
	}
	d.Logger.Info("mail dispatcher stopped")
}

// Enqueue queues msg for delivery. It returns ErrQueueFull instead of
// waiting when the queue is at capacity.
func (d *Dispatcher) Enqueue(msg domain.MailMessage) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		d.Logger.Warn("mail queue full, dropping message", "subject", msg.Subject, "recipients", len(msg.To))
		return ErrQueueFull
	}
}

// Pending is the number of queued messages not yet picked up by a worker.
func (d *Dispatcher) Pending() int { return len(d.queue) }

func (d *Dispatcher) work() error {
	for msg := range d.queue {
		d.send(msg)
	}
	return nil
}

// send delivers one message. Failures are logged and the message dropped.
func (d *Dispatcher) send(msg domain.MailMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), d.SendTimeout)
	defer cancel()

	start := time.Now()
	if err := d.Mailer.Send(ctx, msg); err != nil {
		d.Logger.Error("failed to send mail",
			"err", err,
			"to", strings.Join(msg.To, ","),
			"subject", msg.Subject,
		)
		return
	}
	d.Logger.Debug("mail sent", "subject", msg.Subject, "recipients", len(msg.To), "duration", time.Since(start))
}
