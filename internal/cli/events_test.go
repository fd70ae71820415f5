package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "lifepath/pkg/platform/audit"
)

func TestEventPrinter(t *testing.T) {
	var buf bytes.Buffer
	p, err := eventPrinter(&buf, []string{"security"})
	require.NoError(t, err)
	assert.Nil(t, p.fallback)
	assert.Equal(t, []audit.EventCategory{audit.CategorySecurity}, p.categories)

	require.NoError(t, p.print(context.Background(), audit.Event{Action: audit.EventRateLimitExceeded, Subject: "203.0.113.0/24"}))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), `"subject":"203.0.113.0/24"`)
}

func TestEventPrinter_NoFilterPrintsEverything(t *testing.T) {
	p, err := eventPrinter(&bytes.Buffer{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, p.fallback)
	assert.Empty(t, p.categories)
}

func TestEvents_UsageErrors(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	_, _, code := execute(t, []string{"events"})
	assert.Equal(t, ExitUsage, code, "no brokers")

	_, err := eventPrinter(&bytes.Buffer{}, []string{"audit"})
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestEventPrinter_FoldsCategories(t *testing.T) {
	p, err := eventPrinter(&bytes.Buffer{}, []string{"Billing", " billing", "SECURITY"})
	require.NoError(t, err)
	assert.Equal(t, []audit.EventCategory{audit.CategoryBilling, audit.CategorySecurity}, p.categories)
}
