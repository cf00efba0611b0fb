package pubsub

import (
	"context"
	"os"
	"testing"
	"time"

	"studio/internal/config"

	ps "cloud.google.com/go/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisherInvalidProject(t *testing.T) {
	cfg := &config.Config{GCPProjectID: ""}
	if _, err := NewPublisher(context.Background(), cfg); err == nil {
		t.Fatal("expected error when project ID is empty")
	}
}

func TestPublishEventEncodesJSON(t *testing.T) {
	pub := &MemoryPublisher{}
	id, err := PublishEvent(context.Background(), pub, "course-events", CourseEvent{
		Type:     EventCourseSaved,
		CourseID: "c1",
		UserID:   "u1",
		Status:   "published",
	})
	require.NoError(t, err)
	assert.Equal(t, "mem-1", id)

	require.Len(t, pub.Messages, 1)
	assert.Equal(t, "course-events", pub.Messages[0].Topic)

	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventCourseSaved, events[0].Type)
	assert.Equal(t, "c1", events[0].CourseID)
	assert.False(t, events[0].OccurredAt.IsZero())
}

func TestPublishWithEmulator(t *testing.T) {
	emulator := os.Getenv("PUBSUB_EMULATOR_HOST")
	if emulator == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator integration test")
	}

	ctx := context.Background()
	cfg := &config.Config{GCPProjectID: "test-project", PubSubEmulatorHost: emulator}
	pub, err := NewPublisher(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create PubSubPublisher: %v", err)
	}
	defer pub.Close()

	topicName := "test-course-events-" + time.Now().Format("150405")
	topic, err := pub.client.CreateTopic(ctx, topicName)
	if err != nil {
		t.Fatalf("failed to create topic: %v", err)
	}
	sub, err := pub.client.CreateSubscription(ctx, topicName+"-sub", ps.SubscriptionConfig{Topic: topic})
	if err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}

	msgID, err := PublishEvent(ctx, pub, topicName, CourseEvent{Type: EventCourseSaved, CourseID: "c1"})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if msgID == "" {
		t.Fatal("expected non-empty message ID")
	}

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c := make(chan []byte, 1)
	go func() {
		sub.Receive(recvCtx, func(ctx context.Context, m *ps.Message) {
			c <- m.Data
			m.Ack()
			cancel()
		})
	}()

	select {
	case data := <-c:
		assert.Contains(t, string(data), `"course_id":"c1"`)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message from emulator subscription")
	}
}
