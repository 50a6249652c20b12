package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kryptapp/krypt/pkg/krypt"
)

type Message struct {
	Content string `json:"content"`
}

// Messager posts notices to a Discord compatible webhook
type Messager struct {
	BaseURL string
	AppName string

	notify bool
}

func NewMessager(baseURL, appName string, notify bool) krypt.Notifier {
	return &Messager{
		BaseURL: baseURL,
		AppName: appName,
		notify:  notify,
	}
}

func (b *Messager) Notify(ctx context.Context, message string) error {
	return b.send(ctx, message)
}

func (b *Messager) NotifyWarning(ctx context.Context, errorMessage error) error {
	return b.send(ctx, fmt.Sprintf("warning: %s", errorMessage.Error()))
}

func (b *Messager) NotifyError(ctx context.Context, errorMessage error) error {
	return b.send(ctx, fmt.Sprintf("error: %s", errorMessage.Error()))
}

func (b *Messager) send(ctx context.Context, content string) error {
	if !b.notify {
		return nil
	}

	data, err := json.Marshal(Message{Content: fmt.Sprintf("[%s] %s", b.AppName, content)})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL, bytes.NewReader(data))
	if err != nil {
		return err
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	// discord answers 204 on success
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errors.New("error sending message")
	}

	return nil
}
