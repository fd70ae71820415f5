package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "lifepath/pkg/platform/audit"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func TestStore_Append(t *testing.T) {
	producer := &fakeProducer{}
	store := New(producer, "lifepath.events")
	ts := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

	err := store.Append(context.Background(), audit.Event{
		ID:        "evt-1",
		Action:    audit.EventReportGenerated,
		Category:  audit.CategoryBilling,
		Timestamp: ts,
		Subject:   "rpt_123",
		Attrs:     map[string]string{"model": "gemini-2.5-pro"},
	})
	require.NoError(t, err)
	require.Len(t, producer.records, 1)

	rec := producer.records[0]
	assert.Equal(t, "lifepath.events", rec.Topic)
	assert.Equal(t, []byte("rpt_123"), rec.Key)
	assert.Equal(t, ts, rec.Timestamp)
	assert.Contains(t, rec.Headers, kgo.RecordHeader{Key: "action", Value: []byte("report_generated")})

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, "evt-1", decoded.ID)
	assert.Equal(t, "gemini-2.5-pro", decoded.Attrs["model"])
}

func TestStore_AppendProduceError(t *testing.T) {
	boom := errors.New("NOT_LEADER_FOR_PARTITION")
	store := New(&fakeProducer{err: boom}, "")

	err := store.Append(context.Background(), audit.Event{Action: audit.EventReportFailed})
	assert.ErrorIs(t, err, boom)
}
