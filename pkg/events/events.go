// Package events publishes changes of landmarks.
//
// Events are notifications for other systems. Publishing is best effort:
// failures are logged by callers, and never revert changes.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	apilandmarks "github.com/opst/landmarks/pkg/api/types/landmarks"
	"github.com/segmentio/kafka-go"
)

type Type string

const (
	Created       Type = "landmark.created"
	Updated       Type = "landmark.updated"
	Deleted       Type = "landmark.deleted"
	ImageUploaded Type = "landmark.image_uploaded"
)

// Event is a change of a landmark.
type Event struct {
	Type       Type      `json:"type"`
	LandmarkId int64     `json:"landmark_id"`
	Owner      *int64    `json:"owner"`
	At         time.Time `json:"at"`

	// landmark after the change. nil for Deleted.
	Landmark *apilandmarks.Detail `json:"landmark,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// MessageWriter is a subset of *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	w       MessageWriter
	timeout time.Duration
}

// publishing settings
const (
	// a batch is flushed after this, even if it is not full.
	BatchTimeout = 10 * time.Millisecond

	// Publish gives up after this by default.
	DefaultPublishTimeout = 3 * time.Second
)

type Option func(*kafkaPublisher) *kafkaPublisher

// WithTimeout bounds each Publish.
func WithTimeout(d time.Duration) Option {
	return func(k *kafkaPublisher) *kafkaPublisher {
		k.timeout = d
		return k
	}
}

// Kafka publishes events to the topic.
//
// Messages are keyed by landmark id, so events of a landmark are in order.
func Kafka(brokers []string, topic string, options ...Option) Publisher {
	return WithWriter(newWriter(brokers, topic), options...)
}

// newWriter creates a synchronous writer.
//
// kafka-go waits 1s for a batch to be filled by default, which delays every request publishing events.
func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           BatchTimeout,
		AllowAutoTopicCreation: true,
	}
}

// WithWriter publishes events with w.
func WithWriter(w MessageWriter, options ...Option) Publisher {
	k := &kafkaPublisher{w: w, timeout: DefaultPublishTimeout}
	for _, opt := range options {
		k = opt(k)
	}
	return k
}

func (k *kafkaPublisher) Publish(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if 0 < k.timeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}
	return k.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.LandmarkId, 10)),
		Value: value,
		Time:  ev.At,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	})
}

func (k *kafkaPublisher) Close() error {
	return k.w.Close()
}

type null struct{}

// Null discards events.
func Null() Publisher {
	return null{}
}

func (null) Publish(context.Context, Event) error { return nil }
func (null) Close() error                        { return nil }
