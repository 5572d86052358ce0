package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/imirazimi/shortlink/internal/app/model"
	"github.com/nats-io/nats.go"
)

// ClickPublisher publishes click events to NATS JetStream. It implements
// ClickRecorder; storage happens asynchronously in the click consumer.
type ClickPublisher struct {
	js nats.JetStreamContext
}

// NewClickPublisher creates a new click event publisher.
func NewClickPublisher(js nats.JetStreamContext) *ClickPublisher {
	return &ClickPublisher{js: js}
}

// Record publishes a click event to the stream. The country field is left
// empty here; the consumer enriches events before storing them.
func (p *ClickPublisher) Record(_ context.Context, link *model.Link, meta ClickMeta) error {
	event := model.ClickEvent{
		ID:        uuid.New().String(),
		LinkID:    link.ID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Referer:   meta.Referer,
		ClickedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.ClickStreamSubject, data)
	return err
}

var _ ClickRecorder = (*ClickPublisher)(nil)
