package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	audit "lifepath/pkg/platform/audit"
	"lifepath/pkg/platform/audit/store/memory"
	"lifepath/pkg/requestcontext"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Event{
		Subject: "rpt_1",
		Action:  audit.EventReportGenerated,
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "rpt_1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventReportGenerated, events[0].Action)
	assert.Equal(t, audit.CategoryBilling, events[0].Category)
	assert.NotEmpty(t, events[0].ID)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for range 10 {
		err := pub.Emit(context.Background(), audit.Event{
			Subject: "fp_abc",
			Action:  audit.EventNumerologyCalculated,
		})
		require.NoError(t, err)
	}

	pub.Close()

	events, err := store.ListBySubject(context.Background(), "fp_abc")
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_EmitAfterClose(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore(), WithAsyncBuffer(1))
	pub.Close()
	pub.Close()

	err := pub.Emit(context.Background(), audit.Event{Action: audit.EventReportShared})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPublisher_BufferFull(t *testing.T) {
	blocking := &blockingStore{release: make(chan struct{})}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	pub := NewPublisher(blocking, WithAsyncBuffer(1), WithMetrics(m))

	// First event is picked up by the worker and blocks; second fills the buffer.
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: audit.EventReportFailed}))
	require.Eventually(t, func() bool { return blocking.started() }, time.Second, 5*time.Millisecond)
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: audit.EventReportFailed}))

	err := pub.Emit(context.Background(), audit.Event{Action: audit.EventReportFailed})
	assert.ErrorIs(t, err, ErrBufferFull)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dropped))

	close(blocking.release)
	pub.Close()
	assert.Equal(t, 2, blocking.count())
}

func TestPublisher_ContextCancellation(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore(), WithAsyncBuffer(1))
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pub.Emit(ctx, audit.Event{Action: audit.EventReportShared})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	pub := NewPublisher(store, WithClock(func() time.Time { return fixed }))
	defer pub.Close()

	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "a", Action: audit.EventReportShared}))

	custom := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "a", Action: audit.EventReportShared, Timestamp: custom}))

	events, err := pub.List(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, fixed, events[0].Timestamp)
	assert.Equal(t, custom, events[1].Timestamp, "existing timestamp is preserved")
}

func TestPublisher_EnrichesFromContext(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	traceID := trace.TraceID{0x0a, 0x0b, 0x0c, 0x0d, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x10, 0x11, 0x12}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = requestcontext.WithRequestID(ctx, "req-42")

	require.NoError(t, pub.Emit(ctx, audit.Event{
		Subject:  "198.51.100.0/24",
		Action:   audit.EventRateLimitExceeded,
		Category: audit.CategoryOperations, // overridden from the action
	}))

	events, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "req-42", events[0].RequestID)
	assert.Equal(t, traceID.String(), events[0].TraceID)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
}

func TestPublisher_SyncReturnsStoreError(t *testing.T) {
	boom := errors.New("broker unreachable")
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	pub := NewPublisher(failingStore{err: boom}, WithMetrics(m))
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Event{Action: audit.EventReportGenerated})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailure))
}

func TestPublisher_ListUnsupported(t *testing.T) {
	pub := NewPublisher(failingStore{})
	defer pub.Close()

	_, err := pub.List(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotListable)
	_, err = pub.Recent(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNotListable)
}

func TestPublisher_Sampling(t *testing.T) {
	store := memory.NewInMemoryStore()
	sampler := NewSampler(0)
	pub := NewPublisher(store, WithSampler(sampler))
	defer pub.Close()

	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "s", Action: audit.EventNumerologyCalculated}))
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "s", Action: audit.EventShareRejected}))
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "s", Action: audit.EventReportGenerated}))

	events, err := pub.List(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, events, 2, "operations events sampled out, security and billing kept")
	assert.Equal(t, audit.EventShareRejected, events[0].Action)
	assert.Equal(t, audit.EventReportGenerated, events[1].Action)
}

func TestSampler_Rates(t *testing.T) {
	s := NewSampler(2)
	ops := audit.Event{Action: audit.EventNumerologyCalculated, Category: audit.CategoryOperations}
	assert.True(t, s.Keep(ops), "rate clamps to 1")

	s.SetRate(audit.EventNumerologyCalculated, -1)
	assert.False(t, s.Keep(ops), "rate clamps to 0")

	s.SetRate(audit.EventNumerologyCalculated, 0.5)
	s.draw = func() float64 { return 0.49 }
	assert.True(t, s.Keep(ops))
	s.draw = func() float64 { return 0.5 }
	assert.False(t, s.Keep(ops))
}

func TestPublisher_ConcurrentEmit(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(200))

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pub.Emit(context.Background(), audit.Event{Subject: "c", Action: audit.EventReportServedCached})
		}()
	}
	wg.Wait()
	pub.Close()

	events, err := store.ListBySubject(context.Background(), "c")
	require.NoError(t, err)
	assert.Len(t, events, 50)
}

type failingStore struct{ err error }

func (f failingStore) Append(context.Context, audit.Event) error { return f.err }

type blockingStore struct {
	mu      sync.Mutex
	n       int
	begun   bool
	release chan struct{}
}

func (b *blockingStore) Append(context.Context, audit.Event) error {
	b.mu.Lock()
	b.begun = true
	b.mu.Unlock()
	<-b.release
	b.mu.Lock()
	b.n++
	b.mu.Unlock()
	return nil
}

func (b *blockingStore) started() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.begun
}

func (b *blockingStore) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}
