package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditEventCategory(t *testing.T) {
	assert.Equal(t, CategoryBilling, EventReportGenerated.Category())
	assert.Equal(t, CategorySecurity, EventRateLimitExceeded.Category())
	assert.Equal(t, CategoryOperations, EventNumerologyCalculated.Category())
	assert.Equal(t, CategoryOperations, AuditEvent("something_new").Category())
}

func TestNopEmitter(t *testing.T) {
	assert.NoError(t, NopEmitter{}.Emit(context.Background(), Event{}))
}
