package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lifepath/internal/ratelimit/models"
)

func TestGetIPLimit(t *testing.T) {
	cfg := DefaultConfig()

	n, window, ok := cfg.GetIPLimit(models.ClassGenerate)
	assert.True(t, ok)
	assert.Equal(t, 5, n)
	assert.Equal(t, time.Minute, window)

	n, _, ok = cfg.GetIPLimit(models.ClassRead)
	assert.True(t, ok)
	assert.Equal(t, 60, n)

	_, _, ok = cfg.GetIPLimit(models.EndpointClass("admin"))
	assert.False(t, ok)

	_, _, ok = New(0, 10, time.Minute).GetIPLimit(models.ClassGenerate)
	assert.False(t, ok, "zero requests means unconfigured")
}
