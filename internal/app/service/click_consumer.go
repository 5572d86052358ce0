package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/imirazimi/shortlink/internal/app/model"
	"github.com/imirazimi/shortlink/internal/app/repository"
	"github.com/imirazimi/shortlink/internal/geo"
	"github.com/mssola/useragent"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// ClickConsumer consumes click events from NATS JetStream, enriches them
// with geo and user-agent data, and stores them in Postgres.
type ClickConsumer struct {
	js     nats.JetStreamContext
	logger *zap.Logger
	repo   repository.ClickEventRepository
	geo    *geo.Reader
}

// NewClickConsumer creates a new click event consumer. geoReader may be a
// no-op reader when no MaxMind database is configured.
func NewClickConsumer(js nats.JetStreamContext, logger *zap.Logger, repo repository.ClickEventRepository, geoReader *geo.Reader) *ClickConsumer {
	return &ClickConsumer{js: js, logger: logger, repo: repo, geo: geoReader}
}

// Start ensures the stream and durable consumer exist, then begins consuming.
func (c *ClickConsumer) Start() error {
	_, err := c.js.StreamInfo(model.ClickStreamName)
	if err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:     model.ClickStreamName,
			Subjects: []string{model.ClickStreamSubject},
			MaxBytes: model.ClickStreamMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	_, err = c.js.ConsumerInfo(model.ClickStreamName, model.ClickConsumerName)
	if err != nil {
		_, err = c.js.AddConsumer(model.ClickStreamName, &nats.ConsumerConfig{
			Durable:   model.ClickConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(model.ClickStreamSubject, model.ClickConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(sub)
	return nil
}

func (c *ClickConsumer) consume(sub *nats.Subscription) {
	ctx := context.Background()
	for {
		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && err != nats.ErrTimeout {
			c.logger.Error("failed to fetch messages", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var event model.ClickEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				c.logger.Error("failed to unmarshal click event", zap.Error(err))
				msg.Nak()
				continue
			}

			c.enrich(&event)

			if err := c.repo.Create(ctx, &event); err != nil {
				c.logger.Error("failed to store click event",
					zap.String("id", event.ID),
					zap.String("link_id", event.LinkID),
					zap.Error(err))
				msg.Nak()
				continue
			}

			c.logger.Debug("click event stored",
				zap.String("id", event.ID),
				zap.String("link_id", event.LinkID),
				zap.String("country", event.Country),
				zap.Time("clicked_at", event.ClickedAt),
			)

			msg.Ack()
		}
	}
}

// enrich fills in the derived fields before the event is persisted. The
// captured request metadata itself is never rewritten.
func (c *ClickConsumer) enrich(event *model.ClickEvent) {
	if event.Country == "" && event.IPAddress != "" {
		event.Country = c.geo.Country(event.IPAddress)
	}

	if event.UserAgent != "" {
		ua := useragent.New(event.UserAgent)
		name, version := ua.Browser()
		if name != "" {
			event.Browser = strings.TrimSpace(name + " " + version)
		}
		event.Bot = ua.Bot()
	}
}
