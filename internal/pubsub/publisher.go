package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"studio/internal/config"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Publisher defines an interface for publishing messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// CourseEvent is emitted on the course topic after a successful save or
// enrollment.
type CourseEvent struct {
	Type       string    `json:"type"`
	CourseID   string    `json:"course_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	EventCourseSaved    = "course.saved"
	EventCourseEnrolled = "course.enrolled"
)

// PublishEvent encodes ev as JSON and publishes it on topic.
func PublishEvent(ctx context.Context, p Publisher, topic string, ev CourseEvent) (string, error) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s event: %w", ev.Type, err)
	}
	return p.Publish(ctx, topic, payload)
}

// PubSubPublisher is an implementation of Publisher using Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client
}

// NewPublisher creates a new PubSubPublisher using the GCP project from config.
// When an emulator host is configured the client connects to it without auth.
func NewPublisher(ctx context.Context, cfg *config.Config) (*PubSubPublisher, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP Project ID is not set")
	}

	var opts []option.ClientOption
	if cfg.PubSubEmulatorHost != "" {
		opts = append(opts, option.WithEndpoint(cfg.PubSubEmulatorHost), option.WithoutAuthentication())
	}

	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client}, nil
}

// Publish sends the payload to the given Pub/Sub topic and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	t := p.client.Topic(topic)
	result := t.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}

func (p *PubSubPublisher) Close() error {
	return p.client.Close()
}

// MemoryPublisher records published messages in memory. It backs local runs
// without a GCP project and serves as a test double.
type MemoryPublisher struct {
	mu       sync.Mutex
	seq      int
	Messages []Message
}

type Message struct {
	Topic   string
	Payload []byte
}

func (m *MemoryPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.Messages = append(m.Messages, Message{Topic: topic, Payload: append([]byte(nil), payload...)})
	return fmt.Sprintf("mem-%d", m.seq), nil
}

// Events decodes every recorded message as a CourseEvent.
func (m *MemoryPublisher) Events() []CourseEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CourseEvent, 0, len(m.Messages))
	for _, msg := range m.Messages {
		var ev CourseEvent
		if err := json.Unmarshal(msg.Payload, &ev); err == nil {
			out = append(out, ev)
		}
	}
	return out
}
