//go:build integration

package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lifepath/pkg/testutil/containers"
)

type RedisBucketStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisBucketStore
	now   time.Time
}

func TestRedisBucketStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBucketStoreSuite))
}

func (s *RedisBucketStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisBucketStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.now = time.Now().Truncate(time.Millisecond)
	s.store = NewRedisBucketStore(s.redis.Client)
	s.store.now = func() time.Time { return s.now }
}

func (s *RedisBucketStoreSuite) TestAllowUntilLimit() {
	ctx := context.Background()
	for i := range 3 {
		res, err := s.store.Allow(ctx, "ip:a:generate", 3, time.Minute)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(2-i, res.Remaining)
	}

	s.now = s.now.Add(15 * time.Second)
	res, err := s.store.Allow(ctx, "ip:a:generate", 3, time.Minute)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(45, res.RetryAfter)

	count, err := s.store.GetCurrentCount(ctx, "ip:a:generate")
	s.Require().NoError(err)
	s.Equal(3, count, "denied requests are not counted")
}

func (s *RedisBucketStoreSuite) TestWindowSlides() {
	ctx := context.Background()
	for range 2 {
		_, err := s.store.Allow(ctx, "ip:b:generate", 2, time.Minute)
		s.Require().NoError(err)
	}
	s.now = s.now.Add(time.Minute + time.Millisecond)

	res, err := s.store.Allow(ctx, "ip:b:generate", 2, time.Minute)
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Equal(1, res.Remaining)
}

func (s *RedisBucketStoreSuite) TestReset() {
	ctx := context.Background()
	_, err := s.store.AllowN(ctx, "ip:c:read", 5, 5, time.Minute)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Reset(ctx, "ip:c:read"))

	res, err := s.store.Allow(ctx, "ip:c:read", 5, time.Minute)
	s.Require().NoError(err)
	s.Equal(4, res.Remaining)
}

func (s *RedisBucketStoreSuite) TestConcurrentAdmitsExactlyLimit() {
	ctx := context.Background()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 50 {
		wg.Go(func() {
			res, err := s.store.Allow(ctx, "ip:d:generate", 20, time.Minute)
			if err != nil || !res.Allowed {
				return
			}
			mu.Lock()
			allowed++
			mu.Unlock()
		})
	}
	wg.Wait()
	s.Equal(20, allowed)
}
