package queue

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kryptapp/krypt/pkg/krypt"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is a notice waiting to be delivered to a single notifier
type Message struct {
	ID         string
	CreatedAt  time.Time
	RetryCount int
	Level      Level
	Text       string
	Err        error
	Target     krypt.Notifier
}

func NewMessage(target krypt.Notifier, level Level, text string, err error) Message {
	return Message{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now(),
		RetryCount: 0,
		Level:      level,
		Text:       text,
		Err:        err,
		Target:     target,
	}
}

type Service struct {
	queue      chan Message
	quit       chan bool
	maxRetries int

	ctx context.Context
}

type Processor interface {
	Process(context.Context, Message) error
}

func NewService(maxRetries, bufferSize int, ctx context.Context) *Service {
	return &Service{
		queue:      make(chan Message, bufferSize),
		quit:       make(chan bool),
		maxRetries: maxRetries,
		ctx:        ctx,
	}
}

// Enqueue adds a message without blocking, a full queue drops it
func (s *Service) Enqueue(message Message) bool {
	select {
	case s.queue <- message:
		return true
	default:
		log.Default().Println("queue is full, dropping message: ", message.ID)
		return false
	}
}

func (s *Service) Close() {
	s.quit <- true
}

func (s *Service) Start(p Processor) error {
	for {
		select {
		case message := <-s.queue:
			// process an item in the queue
			err := p.Process(s.ctx, message)
			if err != nil {
				// if there is an error, requeue the message
				if message.RetryCount < s.maxRetries {
					message.RetryCount++
					if len(s.queue) == 0 {
						// if the queue was empty, we need to wait a bit
						// to avoid a busy loop
						extraWait := time.Duration(message.RetryCount) * 100 * time.Millisecond
						time.Sleep(extraWait)
					}
					s.Enqueue(message)
					continue
				}

				log.Default().Printf("giving up on message %s after %d retries: %s", message.ID, message.RetryCount, err)
			}
		case <-s.quit:
			// quit the service
			return nil
		}
	}
}
