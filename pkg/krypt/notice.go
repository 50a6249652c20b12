package krypt

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type NoticeLevel string

const (
	NoticeLevelInfo  NoticeLevel = "info"
	NoticeLevelError NoticeLevel = "error"
)

// Notice is a user facing message produced by the store
type Notice struct {
	ID        string      `json:"id"`
	Level     NoticeLevel `json:"level"`
	Kind      ErrorKind   `json:"kind,omitempty"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewNotice(level NoticeLevel, kind ErrorKind, message string) Notice {
	return Notice{
		ID:        uuid.NewString(),
		Level:     level,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// NoticeFromError builds an error notice using the kind and message carried by err
func NoticeFromError(err error) Notice {
	var e *Error
	if errors.As(err, &e) {
		return NewNotice(NoticeLevelError, e.Kind, e.Message)
	}

	return NewNotice(NoticeLevelError, ErrorKindUnknown, err.Error())
}

// Notifier forwards notices outside of the process
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyWarning(ctx context.Context, err error) error
	NotifyError(ctx context.Context, err error) error
}
