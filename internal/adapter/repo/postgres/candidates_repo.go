package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool used by CandidateRepo.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// CandidateRepo reads and replaces the roster table. It implements
// domain.CandidateSource.
type CandidateRepo struct {
	Pool  PgxPool
	table string
}

// NewCandidateRepo returns a repo over table, which may be schema-qualified.
func NewCandidateRepo(p PgxPool, table string) *CandidateRepo {
	if strings.TrimSpace(table) == "" {
		table = "candidates"
	}
	return &CandidateRepo{Pool: p, table: quoteTable(table)}
}

func quoteTable(t string) string {
	return pgx.Identifier(strings.Split(t, ".")).Sanitize()
}

const candidateColumns = `name, title, skills, experience, location, summary, email, phone,
	linkedin, education, projects, certifications, availability, expected_salary`

// EnsureSchema creates the roster table when missing.
func (r *CandidateRepo) EnsureSchema(ctx domain.Context) error {
	q := `CREATE TABLE IF NOT EXISTS ` + r.table + ` (
		ordinal         integer NOT NULL,
		name            text PRIMARY KEY,
		title           text NOT NULL DEFAULT '',
		skills          text[] NOT NULL DEFAULT '{}',
		experience      text NOT NULL DEFAULT '',
		location        text NOT NULL DEFAULT '',
		summary         text NOT NULL DEFAULT '',
		email           text NOT NULL DEFAULT '',
		phone           text NOT NULL DEFAULT '',
		linkedin        text NOT NULL DEFAULT '',
		education       text NOT NULL DEFAULT '',
		projects        text[] NOT NULL DEFAULT '{}',
		certifications  text[] NOT NULL DEFAULT '{}',
		availability    text NOT NULL DEFAULT '',
		expected_salary text NOT NULL DEFAULT ''
	)`
	if _, err := r.Pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("op=candidates.ensure_schema: %w", err)
	}
	return nil
}

// LoadAll returns the roster ordered by ordinal. An empty table is invalid.
func (r *CandidateRepo) LoadAll(ctx domain.Context) ([]domain.Candidate, error) {
	ctx, span := otel.Tracer("repo.candidates").Start(ctx, "candidates.LoadAll")
	defer span.End()

	rows, err := r.Pool.Query(ctx, `SELECT `+candidateColumns+` FROM `+r.table+` ORDER BY ordinal, name`)
	if err != nil {
		return nil, fmt.Errorf("op=candidates.load_all: %w", err)
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(&c.Name, &c.Title, &c.Skills, &c.Experience, &c.Location, &c.Summary,
			&c.Email, &c.Phone, &c.LinkedIn, &c.Education, &c.Projects, &c.Certifications,
			&c.Availability, &c.ExpectedSalary); err != nil {
			return nil, fmt.Errorf("op=candidates.load_all scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=candidates.load_all rows: %w", err)
	}
	span.SetAttributes(attribute.Int("candidates.count", len(out)))
	if len(out) == 0 {
		return nil, fmt.Errorf("op=candidates.load_all: %w: table %s is empty", domain.ErrInvalidArgument, r.table)
	}
	return out, nil
}

// ReplaceAll swaps the table contents for cs in one transaction, keeping
// slice order as ordinal.
func (r *CandidateRepo) ReplaceAll(ctx domain.Context, cs []domain.Candidate) (err error) {
	ctx, span := otel.Tracer("repo.candidates").Start(ctx, "candidates.ReplaceAll")
	defer span.End()

	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("op=candidates.replace_all begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM `+r.table); err != nil {
		return fmt.Errorf("op=candidates.replace_all delete: %w", err)
	}
	q := `INSERT INTO ` + r.table + ` (ordinal, ` + candidateColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	for i, c := range cs {
		if _, err = tx.Exec(ctx, q, i, c.Name, c.Title, nonNil(c.Skills), c.Experience, c.Location, c.Summary,
			c.Email, c.Phone, c.LinkedIn, c.Education, nonNil(c.Projects), nonNil(c.Certifications),
			c.Availability, c.ExpectedSalary); err != nil {
			return fmt.Errorf("op=candidates.replace_all insert %q: %w", c.Name, err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("op=candidates.replace_all commit: %w", err)
	}
	span.SetAttributes(attribute.Int("candidates.count", len(cs)))
	return nil
}

// nonNil keeps NOT NULL array columns satisfied.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
