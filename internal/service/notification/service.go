package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/email"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount int // default: 2
	QueueSize   int // default: 256
}

// EmailNotifier delivers notifications by email from a bounded in-memory queue.
type EmailNotifier struct {
	sender email.EmailService
	config Config

	queue    chan notification.Message
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewEmailNotifier starts the background workers. Call Stop to drain them.
func NewEmailNotifier(sender email.EmailService, cfg Config) *EmailNotifier {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 256
	}

	n := &EmailNotifier{
		sender: sender,
		config: cfg,
		queue:  make(chan notification.Message, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		n.wg.Add(1)
		go n.worker(i)
	}

	slog.Info("Notification service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	return n
}

// Send queues msg. A full queue drops the message with a warning.
func (n *EmailNotifier) Send(ctx context.Context, msg notification.Message) {
	if msg.To == "" {
		return
	}
	select {
	case n.queue <- msg:
	case <-ctx.Done():
		slog.Warn("Notification not queued, request cancelled", "type", msg.Type, "to", msg.To)
	default:
		slog.Warn("Notification queue full, dropping message", "type", msg.Type, "to", msg.To)
	}
}

// Stop delivers what is already queued and waits for the workers to exit.
func (n *EmailNotifier) Stop() {
	n.stopOnce.Do(func() {
		close(n.stopCh)
	})
	n.wg.Wait()
}

func (n *EmailNotifier) worker(id int) {
	defer n.wg.Done()

	for {
		select {
		case msg := <-n.queue:
			n.deliver(id, msg)
		case <-n.stopCh:
			for {
				select {
				case msg := <-n.queue:
					n.deliver(id, msg)
				default:
					return
				}
			}
		}
	}
}

func (n *EmailNotifier) deliver(worker int, msg notification.Message) {
	if err := n.sender.SendTemplate(msg.To, msg.Subject, msg.Type.Template(), msg.Data); err != nil {
		slog.Warn("Notification delivery failed",
			"worker", worker,
			"type", msg.Type,
			"to", msg.To,
			"error", err,
		)
	}
}
