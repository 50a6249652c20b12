package report

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/kryptapp/krypt/pkg/krypt"
)

// Sentry reports notices to the sentry hub attached to ctx, or the current hub
type Sentry struct{}

func NewSentry() *Sentry {
	return &Sentry{}
}

func hub(ctx context.Context) *sentry.Hub {
	if h := sentry.GetHubFromContext(ctx); h != nil {
		return h
	}

	return sentry.CurrentHub()
}

func (s *Sentry) Notify(ctx context.Context, message string) error {
	hub(ctx).CaptureMessage(message)
	return nil
}

func (s *Sentry) NotifyWarning(ctx context.Context, err error) error {
	s.capture(ctx, sentry.LevelWarning, err)
	return nil
}

func (s *Sentry) NotifyError(ctx context.Context, err error) error {
	s.capture(ctx, sentry.LevelError, err)
	return nil
}

func (s *Sentry) capture(ctx context.Context, level sentry.Level, err error) {
	h := hub(ctx)
	h.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		if kind := krypt.KindOf(err); kind != krypt.ErrorKindUnknown {
			scope.SetTag("kind", string(kind))
		}
		h.CaptureException(err)
	})
}
