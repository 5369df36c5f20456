package mailer

import (
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/glossline/detailing-booking/backend/internal/metrics"
)

type Sender interface {
	DialAndSend(messages ...*mail.Msg) error
}

// Disposition tells the consumer what to do with a delivery.
type Disposition int

const (
	Ack Disposition = iota
	Requeue
	Drop
)

type Worker struct {
	renderer *Renderer
	sender   Sender
}

func NewWorker(renderer *Renderer, sender Sender) *Worker {
	return &Worker{renderer: renderer, sender: sender}
}

// Process renders and sends one queued message. Malformed messages are dropped; SMTP failures
// are retried through the queue.
func (w *Worker) Process(body []byte) Disposition {
	rendered, err := w.renderer.Render(body)
	if err != nil {
		slog.Error("cannot render mail", slog.String("error", err.Error()))
		metrics.IncMailProcessed("unknown", "dropped")
		return Drop
	}

	msg, err := w.renderer.Build(rendered)
	if err != nil {
		slog.Error("cannot build mail", slog.String("type", rendered.Type), slog.String("error", err.Error()))
		metrics.IncMailProcessed(rendered.Type, "dropped")
		return Drop
	}

	if err := w.sender.DialAndSend(msg); err != nil {
		slog.Error("mail delivery failed", slog.String("type", rendered.Type), slog.String("error", err.Error()))
		metrics.IncMailProcessed(rendered.Type, "requeued")
		return Requeue
	}

	slog.Info("mail sent", slog.String("type", rendered.Type), slog.String("to", rendered.To))
	metrics.IncMailProcessed(rendered.Type, "sent")
	return Ack
}
