package ratelimit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GetLastResponseStatus() int
	GetLastResponseHeader(name string) string
}

// RegisterSteps registers rate-limiting step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I calculate numerology for "([^"]*)" (\d+) times$`, steps.calculateNTimes)
	ctx.Step(`^all of those requests should succeed$`, steps.allShouldSucceed)
	ctx.Step(`^the next calculation should be rate limited$`, steps.nextShouldBeLimited)
	ctx.Step(`^the response should carry a Retry-After header$`, steps.shouldCarryRetryAfter)
}

type ratelimitSteps struct {
	tc       TestContext
	birthday string
	statuses []int
}

func (s *ratelimitSteps) calculateNTimes(ctx context.Context, birthday string, n int) error {
	s.birthday = birthday
	s.statuses = s.statuses[:0]
	for range n {
		if err := s.tc.POST("/api/numerology", map[string]any{"birthday": birthday}); err != nil {
			return err
		}
		s.statuses = append(s.statuses, s.tc.GetLastResponseStatus())
	}
	return nil
}

func (s *ratelimitSteps) allShouldSucceed(ctx context.Context) error {
	for i, status := range s.statuses {
		if status != 200 {
			return fmt.Errorf("request %d returned %d", i+1, status)
		}
	}
	return nil
}

func (s *ratelimitSteps) nextShouldBeLimited(ctx context.Context) error {
	if err := s.tc.POST("/api/numerology", map[string]any{"birthday": s.birthday}); err != nil {
		return err
	}
	if got := s.tc.GetLastResponseStatus(); got != 429 {
		return fmt.Errorf("expected 429, got %d", got)
	}
	return nil
}

func (s *ratelimitSteps) shouldCarryRetryAfter(ctx context.Context) error {
	value := s.tc.GetLastResponseHeader("Retry-After")
	if n, err := strconv.Atoi(value); err != nil || n < 1 {
		return fmt.Errorf("invalid Retry-After header %q", value)
	}
	return nil
}
