package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "lifepath/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	for _, e := range []audit.Event{
		{Subject: "report-1", Action: audit.EventReportGenerated},
		{Subject: "203.0.113.0", Action: audit.EventRateLimitExceeded},
		{Subject: "report-1", Action: audit.EventReportShared},
	} {
		require.NoError(t, s.Append(ctx, e))
	}

	bySubject, err := s.ListBySubject(ctx, "report-1")
	require.NoError(t, err)
	require.Len(t, bySubject, 2)
	assert.Equal(t, audit.EventReportShared, bySubject[1].Action)

	none, err := s.ListBySubject(ctx, "report-2")
	require.NoError(t, err)
	assert.Empty(t, none)

	recent, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, audit.EventRateLimitExceeded, recent[0].Action)

	all, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	empty, err := NewInMemoryStore().ListRecent(ctx, 5)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
