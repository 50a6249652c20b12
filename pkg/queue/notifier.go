package queue

import (
	"context"

	"github.com/kryptapp/krypt/pkg/krypt"
)

// Notifier queues one message per target so that callers never wait on delivery
// and a failing target is retried on its own
type Notifier struct {
	q       *Service
	targets []krypt.Notifier
}

func NewNotifier(q *Service, targets ...krypt.Notifier) *Notifier {
	return &Notifier{q: q, targets: targets}
}

func (n *Notifier) enqueue(level Level, text string, err error) {
	for _, t := range n.targets {
		n.q.Enqueue(NewMessage(t, level, text, err))
	}
}

func (n *Notifier) Notify(ctx context.Context, message string) error {
	n.enqueue(LevelInfo, message, nil)
	return nil
}

func (n *Notifier) NotifyWarning(ctx context.Context, err error) error {
	n.enqueue(LevelWarning, err.Error(), err)
	return nil
}

func (n *Notifier) NotifyError(ctx context.Context, err error) error {
	n.enqueue(LevelError, err.Error(), err)
	return nil
}

// Deliverer processes queued messages by handing them to their target
type Deliverer struct{}

func NewDeliverer() *Deliverer {
	return &Deliverer{}
}

func (d *Deliverer) Process(ctx context.Context, m Message) error {
	if m.Target == nil {
		return nil
	}

	switch m.Level {
	case LevelWarning:
		return m.Target.NotifyWarning(ctx, m.Err)
	case LevelError:
		return m.Target.NotifyError(ctx, m.Err)
	}

	return m.Target.Notify(ctx, m.Text)
}
