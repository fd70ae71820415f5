package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/google/uuid"

	"lifepath/internal/report"
	"lifepath/pkg/platform/sentinel"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// PostgresStore persists records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies the embedded schema files in name order. Files are idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	names, err := fs.Glob(schemaFS, "schema/*.sql")
	if err != nil {
		return fmt.Errorf("list schema files: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		stmt, err := schemaFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

const upsertRecord = `
	INSERT INTO reports (
		id, fingerprint, birth_year, gender, language, model,
		report, calculations, usage, cost_amount, cost_currency, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO UPDATE SET
		fingerprint   = EXCLUDED.fingerprint,
		birth_year    = EXCLUDED.birth_year,
		gender        = EXCLUDED.gender,
		language      = EXCLUDED.language,
		model         = EXCLUDED.model,
		report        = EXCLUDED.report,
		calculations  = EXCLUDED.calculations,
		usage         = EXCLUDED.usage,
		cost_amount   = EXCLUDED.cost_amount,
		cost_currency = EXCLUDED.cost_currency,
		created_at    = EXCLUDED.created_at
`

const selectRecord = `
	SELECT id, fingerprint, birth_year, gender, language, model,
	       report, calculations, usage, cost_amount, cost_currency, created_at
	FROM reports
`

func (s *PostgresStore) Save(ctx context.Context, rec report.Record) error {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	reportJSON, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	calcJSON, err := json.Marshal(rec.Calculations)
	if err != nil {
		return fmt.Errorf("marshal calculations: %w", err)
	}
	usageJSON, err := json.Marshal(rec.Usage)
	if err != nil {
		return fmt.Errorf("marshal usage: %w", err)
	}

	_, err = s.db.ExecContext(ctx, upsertRecord,
		id,
		rec.Fingerprint,
		rec.BirthYear,
		rec.Gender,
		rec.Language,
		rec.Model,
		reportJSON,
		calcJSON,
		usageJSON,
		rec.Cost.Amount,
		rec.Cost.Currency,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save report record: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (report.Record, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		// Malformed IDs cannot exist in the table.
		return report.Record{}, sentinel.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, selectRecord+" WHERE id = $1", parsed)
	return scanRecord(row)
}

// FindLatestByFingerprint returns the newest record generated for a fingerprint.
func (s *PostgresStore) FindLatestByFingerprint(ctx context.Context, fingerprint string) (report.Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+" WHERE fingerprint = $1 ORDER BY created_at DESC LIMIT 1", fingerprint)
	return scanRecord(row)
}

func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanRecord(row *sql.Row) (report.Record, error) {
	var (
		rec                         report.Record
		id                          uuid.UUID
		reportJSON, calcJSON, usage []byte
	)
	err := row.Scan(
		&id,
		&rec.Fingerprint,
		&rec.BirthYear,
		&rec.Gender,
		&rec.Language,
		&rec.Model,
		&reportJSON,
		&calcJSON,
		&usage,
		&rec.Cost.Amount,
		&rec.Cost.Currency,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return report.Record{}, sentinel.ErrNotFound
		}
		return report.Record{}, fmt.Errorf("scan report record: %w", err)
	}
	rec.ID = id.String()

	rec.Report = &report.Report{}
	if err := json.Unmarshal(reportJSON, rec.Report); err != nil {
		return report.Record{}, fmt.Errorf("unmarshal report: %w", err)
	}
	if err := json.Unmarshal(calcJSON, &rec.Calculations); err != nil {
		return report.Record{}, fmt.Errorf("unmarshal calculations: %w", err)
	}
	if err := json.Unmarshal(usage, &rec.Usage); err != nil {
		return report.Record{}, fmt.Errorf("unmarshal usage: %w", err)
	}
	return rec, nil
}
