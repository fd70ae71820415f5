//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lifepath/internal/report"
	"lifepath/internal/report/cache"
	"lifepath/pkg/platform/sentinel"
	"lifepath/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = cache.NewRedis(s.redis.Client, time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestSetGet() {
	ctx := context.Background()
	rec := report.Record{
		ID:          "0b9f7a3e-8d0c-4d1e-9c43-1f2a7b5e6d10",
		Fingerprint: "fp-redis",
		BirthYear:   2018,
		Report:      &report.Report{Conclusion: "完"},
		Cost:        report.Cost{Amount: 0.23, Currency: "MYR"},
	}
	s.Require().NoError(s.cache.Set(ctx, rec))

	got, err := s.cache.Get(ctx, "fp-redis")
	s.Require().NoError(err)
	s.Equal(rec.ID, got.ID)
	s.Equal("完", got.Report.Conclusion)

	ttl, err := s.redis.Client.TTL(ctx, "lifepath:report:fp-redis").Result()
	s.Require().NoError(err)
	s.Greater(ttl, 50*time.Second)
}

func (s *RedisCacheSuite) TestMissAndCorruptEntry() {
	ctx := context.Background()

	_, err := s.cache.Get(ctx, "absent")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.redis.Client.Set(ctx, "lifepath:report:bad", "{not json", time.Minute).Err())
	_, err = s.cache.Get(ctx, "bad")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
