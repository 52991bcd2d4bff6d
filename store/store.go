// Package store persists analyses and the client registry in Postgres. It is
// the only stateful collaborator of the parsing core: one row per analysis,
// unique per (client, period, document type).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/contabhub/sped"
	"github.com/contabhub/sped/container"
	"github.com/contabhub/sped/period"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no stored analysis.
var ErrNotFound = errors.New("analysis not found")

const schema = `
CREATE TABLE IF NOT EXISTS clients (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tenant_id   TEXT NOT NULL,
	tax_id      TEXT NOT NULL,
	legal_name  TEXT NOT NULL DEFAULT '',
	region      TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (tenant_id, tax_id)
);

CREATE TABLE IF NOT EXISTS analyses (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	client_id     UUID NOT NULL REFERENCES clients(id),
	tax_id        TEXT NOT NULL,
	filename      TEXT NOT NULL,
	document_type TEXT NOT NULL,
	month         INT NOT NULL CHECK (month BETWEEN 1 AND 12),
	year          INT NOT NULL CHECK (year >= 2000),
	summary       JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (client_id, month, year, document_type)
);
`

// DB is the Postgres-backed persistence collaborator.
type DB struct {
	pool *pgxpool.Pool
}

// static check: DB satisfies the walker's Store contract.
var _ container.Store = (*DB)(nil)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close releases the connection pool.
func (db *DB) Close() { db.pool.Close() }

// Migrate creates the tables when they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// FindOrCreateClient upserts a client keyed by tenant and tax id, refreshing
// the legal name when the submission carries a non-empty one.
func (db *DB) FindOrCreateClient(ctx context.Context, tenantID, taxID, legalName, defaultRegion string) (string, error) {
	const q = `
		INSERT INTO clients (tenant_id, tax_id, legal_name, region)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, tax_id) DO UPDATE
		SET legal_name = COALESCE(NULLIF(EXCLUDED.legal_name, ''), clients.legal_name)
		RETURNING id`
	var id string
	if err := db.pool.QueryRow(ctx, q, tenantID, taxID, legalName, defaultRegion).Scan(&id); err != nil {
		return "", fmt.Errorf("upsert client %s: %w", taxID, err)
	}
	return id, nil
}

// CreateAnalysis stores one analysis. A second analysis for the same client,
// period and document type violates the uniqueness invariant and is reported
// as container.ErrDuplicateAnalysis, distinguishable from generic failures.
func (db *DB) CreateAnalysis(ctx context.Context, clientID, taxID, filename string, docType sped.DocumentType, p period.Period, summary any) (string, error) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	const q = `
		INSERT INTO analyses (client_id, tax_id, filename, document_type, month, year, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	var id string
	err = db.pool.QueryRow(ctx, q, clientID, taxID, filename, string(docType), int(p.Month()), p.Year(), payload).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", container.ErrDuplicateAnalysis
		}
		return "", fmt.Errorf("insert analysis: %w", err)
	}
	return id, nil
}

// StoredAnalysis is one persisted analysis row.
type StoredAnalysis struct {
	ID       string
	Filename string
	DocType  sped.DocumentType
	Period   period.Period
	Summary  json.RawMessage
}

// GetAnalysis fetches the stored analysis of a tenant's client for one period
// and document type.
func (db *DB) GetAnalysis(ctx context.Context, tenantID, taxID string, p period.Period, docType sped.DocumentType) (*StoredAnalysis, error) {
	const q = `
		SELECT a.id, a.filename, a.summary
		FROM analyses a
		JOIN clients c ON c.id = a.client_id
		WHERE c.tenant_id = $1 AND a.tax_id = $2
		  AND a.month = $3 AND a.year = $4 AND a.document_type = $5`
	var s StoredAnalysis
	s.DocType = docType
	s.Period = p
	err := db.pool.QueryRow(ctx, q, tenantID, taxID, int(p.Month()), p.Year(), string(docType)).
		Scan(&s.ID, &s.Filename, &s.Summary)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch analysis: %w", err)
	}
	return &s, nil
}

// isUniqueViolation reports whether err is Postgres error 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
