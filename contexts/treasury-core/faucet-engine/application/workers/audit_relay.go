package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"faucet/contexts/treasury-core/faucet-engine/application"
	"faucet/contexts/treasury-core/faucet-engine/ports"
)

// AuditRelay drains pending audit events from the outbox and publishes them
// to the audit topic. Events are marked published only after a successful
// publish, so a crashed relay re-delivers rather than drops.
type AuditRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.AuditPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r AuditRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("audit outbox list failed",
			"event", "faucet_audit_outbox_list_failed",
			"module", "treasury-core/faucet-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			return err
		}
		if err := r.Publisher.Publish(ctx, r.Topic, envelope); err != nil {
			logger.Error("audit outbox publish failed",
				"event", "faucet_audit_outbox_publish_failed",
				"module", "treasury-core/faucet-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			return err
		}
	}
	return nil
}
