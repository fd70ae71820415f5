//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lifepath/internal/report/store"
	"lifepath/pkg/platform/sentinel"
	"lifepath/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
	s.Require().NoError(s.store.Migrate(context.Background()), "migrations are idempotent")
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "reports"))
}

func (s *PostgresStoreSuite) TestSaveAndFindRoundTrip() {
	ctx := context.Background()
	rec := newRecord("fp-roundtrip", time.Now())

	s.Require().NoError(s.store.Save(ctx, rec))

	got, err := s.store.FindByID(ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(rec.ID, got.ID)
	s.Equal(rec.Calculations, got.Calculations)
	s.Equal(rec.Usage, got.Usage)
	s.Equal(rec.Cost, got.Cost)
	s.Equal(rec.Report, got.Report)
	s.True(rec.CreatedAt.Equal(got.CreatedAt))
}

func (s *PostgresStoreSuite) TestSaveIsUpsert() {
	ctx := context.Background()
	rec := newRecord("fp-upsert", time.Now())
	s.Require().NoError(s.store.Save(ctx, rec))

	rec.Model = "gemini-2.5-flash"
	s.Require().NoError(s.store.Save(ctx, rec))

	got, err := s.store.FindByID(ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal("gemini-2.5-flash", got.Model)
}

func (s *PostgresStoreSuite) TestFindLatestByFingerprint() {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	older := newRecord("fp-latest", base)
	newer := newRecord("fp-latest", base.Add(30*time.Minute))
	s.Require().NoError(s.store.Save(ctx, newer))
	s.Require().NoError(s.store.Save(ctx, older))

	got, err := s.store.FindLatestByFingerprint(ctx, "fp-latest")
	s.Require().NoError(err)
	s.Equal(newer.ID, got.ID)
}

func (s *PostgresStoreSuite) TestNotFound() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, uuid.NewString())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByID(ctx, "not-a-uuid")
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindLatestByFingerprint(ctx, "nope")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
