package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "lifepath/pkg/platform/audit"
)

// Fetcher is the subset of *kgo.Client the consumer needs.
type Fetcher interface {
	PollFetches(ctx context.Context) kgo.Fetches
}

// Consumer polls records, decodes them as audit events and hands them to a
// Handler. Undecodable records and handler errors are logged and skipped.
type Consumer struct {
	fetcher Fetcher
	handler Handler
	logger  *slog.Logger
}

func New(fetcher Fetcher, handler Handler, logger *slog.Logger) *Consumer {
	return &Consumer{fetcher: fetcher, handler: handler, logger: logger}
}

// Decode parses a record produced by the kafka audit store.
func Decode(record *kgo.Record) (audit.Event, error) {
	var event audit.Event
	if err := json.Unmarshal(record.Value, &event); err != nil {
		return audit.Event{}, fmt.Errorf("decode audit event at %s/%d@%d: %w",
			record.Topic, record.Partition, record.Offset, err)
	}
	return event, nil
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.fetcher.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if fetches.IsClientClosed() {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.WarnContext(ctx, "fetch failed",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			event, err := Decode(record)
			if err != nil {
				c.logger.WarnContext(ctx, "skipping undecodable record", "error", err)
				return
			}
			if err := c.handler.Handle(ctx, event); err != nil {
				c.logger.WarnContext(ctx, "event handler failed",
					"action", event.Action,
					"request_id", event.RequestID,
					"error", err,
				)
			}
		})
	}
}
