package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/MananiDennis/alumniSystem/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const pgProfileColumns = `id, full_name, graduation_year, location, industry, linkedin_url,
	confidence, work_history, education_history, provenance, last_updated`

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hottest store operations.
var preparedStatements = map[string]string{
	"insert_profile": `INSERT INTO profiles (` + pgProfileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
	"get_profile":          `SELECT ` + pgProfileColumns + ` FROM profiles WHERE id = $1`,
	"find_profile_by_name": `SELECT ` + pgProfileColumns + ` FROM profiles WHERE lower(full_name) = lower($1)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Tests use this with pgxmock.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS profiles (
	id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	full_name         TEXT NOT NULL,
	graduation_year   INTEGER,
	location          TEXT NOT NULL DEFAULT '',
	industry          TEXT NOT NULL DEFAULT '',
	linkedin_url      TEXT NOT NULL DEFAULT '',
	confidence        DOUBLE PRECISION NOT NULL DEFAULT 0,
	work_history      JSONB,
	education_history JSONB,
	provenance        JSONB,
	last_updated      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_full_name ON profiles(lower(full_name));
CREATE INDEX IF NOT EXISTS idx_profiles_industry ON profiles(industry);
CREATE INDEX IF NOT EXISTS idx_profiles_graduation_year ON profiles(graduation_year);
CREATE INDEX IF NOT EXISTS idx_profiles_last_updated ON profiles(last_updated);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, p *model.AlumniProfile) (*model.AlumniProfile, error) {
	out := *p
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.LastUpdated.IsZero() {
		out.LastUpdated = time.Now().UTC()
	}

	work, edu, prov, err := marshalHistories(&out)
	if err != nil {
		return nil, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO profiles (`+pgProfileColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		out.ID, out.FullName, nullableYear(out.GraduationYear), out.Location, string(out.Industry),
		out.LinkedInURL, out.ConfidenceScore, work, edu, prov, out.LastUpdated.UTC(),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert profile %s", out.FullName)
	}
	return &out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*model.AlumniProfile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgProfileColumns+` FROM profiles WHERE id = $1`, id)
	return scanPgProfile(row)
}

func (s *PostgresStore) FindByName(ctx context.Context, fullName string) (*model.AlumniProfile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgProfileColumns+` FROM profiles WHERE lower(full_name) = lower($1)`, fullName)
	return scanPgProfile(row)
}

func (s *PostgresStore) ApplyMerge(ctx context.Context, id string, up MergeUpdate) (*model.AlumniProfile, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin merge")
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+pgProfileColumns+` FROM profiles WHERE id = $1 FOR UPDATE`, id)
	p, err := scanPgProfile(row)
	if err != nil {
		return nil, err
	}

	applyUpdate(p, up)

	work, edu, prov, err := marshalHistories(p)
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE profiles SET graduation_year = $1, location = $2, industry = $3, linkedin_url = $4,
		 confidence = $5, work_history = $6, education_history = $7, provenance = $8, last_updated = $9
		 WHERE id = $10`,
		nullableYear(p.GraduationYear), p.Location, string(p.Industry), p.LinkedInURL,
		p.ConfidenceScore, work, edu, prov, p.LastUpdated.UTC(), id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: merge profile %s", id)
	}
	if tag.RowsAffected() == 0 {
		return nil, eris.Wrapf(ErrNotFound, "id %s", id)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres: commit merge")
	}
	return p, nil
}

func (s *PostgresStore) ListAll(ctx context.Context, f Filter) ([]*model.AlumniProfile, error) {
	query := `SELECT ` + pgProfileColumns + ` FROM profiles WHERE true`
	args := []any{}
	argIdx := 1

	if f.Name != "" {
		query += fmt.Sprintf(` AND full_name ILIKE $%d`, argIdx)
		args = append(args, "%"+f.Name+"%")
		argIdx++
	}
	if f.Location != "" {
		query += fmt.Sprintf(` AND location ILIKE $%d`, argIdx)
		args = append(args, "%"+f.Location+"%")
		argIdx++
	}
	if f.Industry != "" {
		query += fmt.Sprintf(` AND industry = $%d`, argIdx)
		args = append(args, string(f.Industry))
		argIdx++
	}
	if f.GraduationYear != 0 {
		query += fmt.Sprintf(` AND graduation_year = $%d`, argIdx)
		args = append(args, f.GraduationYear)
		argIdx++
	}
	if f.MinConfidence > 0 {
		query += fmt.Sprintf(` AND confidence >= $%d`, argIdx)
		args = append(args, f.MinConfidence)
		argIdx++
	}
	query += ` ORDER BY last_updated DESC`

	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, argIdx)
		args = append(args, f.Limit)
		argIdx++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, f.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list profiles")
	}
	defer rows.Close()

	var profiles []*model.AlumniProfile
	for rows.Next() {
		p, err := scanPgProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, eris.Wrap(rows.Err(), "postgres: list profiles iterate")
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete profile %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	return nil
}

func scanPgProfile(row pgx.Row) (*model.AlumniProfile, error) {
	var (
		p        model.AlumniProfile
		gradYear *int
		work     []byte
		edu      []byte
		prov     []byte
	)
	err := row.Scan(&p.ID, &p.FullName, &gradYear, &p.Location, &p.Industry, &p.LinkedInURL,
		&p.ConfidenceScore, &work, &edu, &prov, &p.LastUpdated)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan profile")
	}

	if gradYear != nil {
		p.GraduationYear = *gradYear
	}
	if len(work) > 0 {
		var entries []model.WorkExperience
		if err := json.Unmarshal(work, &entries); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal work history")
		}
		p.SetWorkHistory(entries)
	}
	if len(edu) > 0 {
		if err := json.Unmarshal(edu, &p.EducationHistory); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal education history")
		}
	}
	if len(prov) > 0 {
		if err := json.Unmarshal(prov, &p.Provenance); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal provenance")
		}
	}
	return &p, nil
}
