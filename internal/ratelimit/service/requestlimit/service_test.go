package requestlimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lifepath/internal/ratelimit/config"
	"lifepath/internal/ratelimit/models"
	"lifepath/internal/ratelimit/store/allowlist"
	"lifepath/internal/ratelimit/store/bucket"
	dErrors "lifepath/pkg/domain-errors"
	audit "lifepath/pkg/platform/audit"
	"lifepath/pkg/requestcontext"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func (p *recordingPublisher) Emit(_ context.Context, e audit.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type failingBuckets struct{}

func (failingBuckets) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("connection refused")
}

func (failingBuckets) AllowN(context.Context, string, int, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("connection refused")
}

func (failingBuckets) Reset(context.Context, string) error { return nil }

func (failingBuckets) GetCurrentCount(context.Context, string) (int, error) { return 0, nil }

type RequestLimitSuite struct {
	suite.Suite
	publisher *recordingPublisher
	service   *Service
	ctx       context.Context
}

func TestRequestLimitSuite(t *testing.T) {
	suite.Run(t, new(RequestLimitSuite))
}

func (s *RequestLimitSuite) SetupTest() {
	allow, err := allowlist.NewStaticStore([]string{"198.51.100.0/24"})
	s.Require().NoError(err)
	s.publisher = &recordingPublisher{}
	s.service, err = New(bucket.NewInMemoryBucketStore(), allow,
		WithConfig(config.New(2, 5, time.Minute)),
		WithAuditPublisher(s.publisher),
	)
	s.Require().NoError(err)
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

func (s *RequestLimitSuite) TestCheckIP() {
	s.Run("allows up to the class limit then denies", func() {
		for range 2 {
			res, err := s.service.CheckIP(s.ctx, "203.0.113.7", models.ClassGenerate)
			s.Require().NoError(err)
			s.True(res.Allowed)
		}
		res, err := s.service.CheckIP(s.ctx, "203.0.113.7", models.ClassGenerate)
		s.Require().NoError(err)
		s.False(res.Allowed)
		s.Positive(res.RetryAfter)

		s.Require().Len(s.publisher.events, 1)
		e := s.publisher.events[0]
		s.Equal(audit.EventRateLimitExceeded, e.Action)
		s.Equal("203.0.113.0/24", e.Subject)
		s.Equal("generate", e.Attrs["endpoint_class"])
	})

	s.Run("classes are counted separately", func() {
		res, err := s.service.CheckIP(s.ctx, "203.0.113.7", models.ClassRead)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(4, res.Remaining)
	})

	s.Run("allowlisted network bypasses", func() {
		for range 5 {
			res, err := s.service.CheckIP(s.ctx, "198.51.100.9", models.ClassGenerate)
			s.Require().NoError(err)
			s.True(res.Allowed)
			s.True(res.Bypassed)
		}
	})
}

func (s *RequestLimitSuite) TestUnconfiguredClassIsDenied() {
	res, err := s.service.CheckIP(s.ctx, "203.0.113.7", models.EndpointClass("admin"))

	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(retryUnconfigured, res.RetryAfter)
}

func (s *RequestLimitSuite) TestBucketErrorIsReturned() {
	allow, err := allowlist.NewStaticStore(nil)
	s.Require().NoError(err)
	svc, err := New(failingBuckets{}, allow)
	s.Require().NoError(err)

	_, err = svc.CheckIP(s.ctx, "203.0.113.7", models.ClassRead)

	s.True(dErrors.Is(err, dErrors.CodeInternal))
}

func (s *RequestLimitSuite) TestNewRequiresStores() {
	_, err := New(nil, nil)
	s.Error(err)
}
