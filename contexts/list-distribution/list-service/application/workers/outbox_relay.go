package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "agentlists/contexts/list-distribution/list-service/application"
	"agentlists/contexts/list-distribution/list-service/ports"
)

const DefaultTopic = "agentlists.lists"

// OutboxRelay publishes pending outbox rows and marks them published.
// A failed publish stops the cycle so ordering within the outbox is kept.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("list outbox list pending failed",
			"event", "list_outbox_list_failed",
			"module", "list-distribution/list-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}

	published := 0
	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("list outbox payload decode failed",
				"event", "list_outbox_decode_failed",
				"module", "list-distribution/list-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return published, err
		}

		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("list outbox publish failed",
				"event", "list_outbox_publish_failed",
				"module", "list-distribution/list-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_id", envelope.EventID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return published, err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, message.OutboxID, r.now()); err != nil {
			logger.Error("list outbox mark published failed",
				"event", "list_outbox_mark_published_failed",
				"module", "list-distribution/list-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return published, err
		}
		published++
	}

	if published > 0 {
		logger.Info("list outbox relay cycle completed",
			"event", "list_outbox_relay_completed",
			"module", "list-distribution/list-service",
			"layer", "worker",
			"published_count", published,
		)
	}
	return published, nil
}

func (r OutboxRelay) now() time.Time {
	if r.Clock == nil {
		return time.Now().UTC()
	}
	return r.Clock.Now().UTC()
}
