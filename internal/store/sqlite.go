package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/MananiDennis/alumniSystem/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS profiles (
	id                TEXT PRIMARY KEY,
	full_name         TEXT NOT NULL COLLATE NOCASE,
	graduation_year   INTEGER,
	location          TEXT NOT NULL DEFAULT '',
	industry          TEXT NOT NULL DEFAULT '',
	linkedin_url      TEXT NOT NULL DEFAULT '',
	confidence        REAL NOT NULL DEFAULT 0,
	work_history      TEXT,
	education_history TEXT,
	provenance        TEXT,
	last_updated      DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_full_name ON profiles(full_name);
CREATE INDEX IF NOT EXISTS idx_profiles_industry ON profiles(industry);
CREATE INDEX IF NOT EXISTS idx_profiles_graduation_year ON profiles(graduation_year);
CREATE INDEX IF NOT EXISTS idx_profiles_last_updated ON profiles(last_updated);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteProfileColumns = `id, full_name, graduation_year, location, industry, linkedin_url,
	confidence, work_history, education_history, provenance, last_updated`

func (s *SQLiteStore) Create(ctx context.Context, p *model.AlumniProfile) (*model.AlumniProfile, error) {
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

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (`+sqliteProfileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.FullName, nullableYear(out.GraduationYear), out.Location, string(out.Industry),
		out.LinkedInURL, out.ConfidenceScore, work, edu, prov, out.LastUpdated.UTC(),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert profile %s", out.FullName)
	}
	return &out, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.AlumniProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteProfileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

func (s *SQLiteStore) FindByName(ctx context.Context, fullName string) (*model.AlumniProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteProfileColumns+` FROM profiles WHERE full_name = ?`, fullName)
	return scanProfile(row)
}

func (s *SQLiteStore) ApplyMerge(ctx context.Context, id string, up MergeUpdate) (*model.AlumniProfile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin merge")
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+sqliteProfileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err != nil {
		return nil, err
	}

	applyUpdate(p, up)

	work, edu, prov, err := marshalHistories(p)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE profiles SET graduation_year = ?, location = ?, industry = ?, linkedin_url = ?,
		 confidence = ?, work_history = ?, education_history = ?, provenance = ?, last_updated = ?
		 WHERE id = ?`,
		nullableYear(p.GraduationYear), p.Location, string(p.Industry), p.LinkedInURL,
		p.ConfidenceScore, work, edu, prov, p.LastUpdated.UTC(), id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: merge profile %s", id)
	}
	if err := checkRowsAffected(res, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit merge")
	}
	return p, nil
}

func (s *SQLiteStore) ListAll(ctx context.Context, f Filter) ([]*model.AlumniProfile, error) {
	query := `SELECT ` + sqliteProfileColumns + ` FROM profiles WHERE 1=1`
	var args []any

	if f.Name != "" {
		query += ` AND full_name LIKE ?`
		args = append(args, "%"+f.Name+"%")
	}
	if f.Location != "" {
		query += ` AND location LIKE ?`
		args = append(args, "%"+f.Location+"%")
	}
	if f.Industry != "" {
		query += ` AND industry = ?`
		args = append(args, string(f.Industry))
	}
	if f.GraduationYear != 0 {
		query += ` AND graduation_year = ?`
		args = append(args, f.GraduationYear)
	}
	if f.MinConfidence > 0 {
		query += ` AND confidence >= ?`
		args = append(args, f.MinConfidence)
	}
	query += ` ORDER BY last_updated DESC`

	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	} else if f.Offset > 0 {
		// OFFSET requires a LIMIT clause; -1 means unlimited.
		query += ` LIMIT -1`
	}
	if f.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list profiles")
	}
	defer rows.Close()

	var profiles []*model.AlumniProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, eris.Wrap(rows.Err(), "sqlite: list profiles iterate")
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete profile %s", id)
	}
	return checkRowsAffected(res, id)
}

// helpers

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	return nil
}

func nullableYear(year int) any {
	if year == 0 {
		return nil
	}
	return year
}

func marshalHistories(p *model.AlumniProfile) (work, edu, prov []byte, err error) {
	if work, err = json.Marshal(p.WorkHistory); err != nil {
		return nil, nil, nil, eris.Wrap(err, "store: marshal work history")
	}
	if edu, err = json.Marshal(p.EducationHistory); err != nil {
		return nil, nil, nil, eris.Wrap(err, "store: marshal education history")
	}
	if prov, err = json.Marshal(p.Provenance); err != nil {
		return nil, nil, nil, eris.Wrap(err, "store: marshal provenance")
	}
	return work, edu, prov, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanProfile(row scannable) (*model.AlumniProfile, error) {
	var (
		p        model.AlumniProfile
		gradYear sql.NullInt64
		work     sql.NullString
		edu      sql.NullString
		prov     sql.NullString
	)
	err := row.Scan(&p.ID, &p.FullName, &gradYear, &p.Location, &p.Industry, &p.LinkedInURL,
		&p.ConfidenceScore, &work, &edu, &prov, &p.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan profile")
	}

	if gradYear.Valid {
		p.GraduationYear = int(gradYear.Int64)
	}
	if work.Valid && work.String != "" {
		var entries []model.WorkExperience
		if err := json.Unmarshal([]byte(work.String), &entries); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal work history")
		}
		p.SetWorkHistory(entries)
	}
	if edu.Valid && edu.String != "" {
		if err := json.Unmarshal([]byte(edu.String), &p.EducationHistory); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal education history")
		}
	}
	if prov.Valid && prov.String != "" {
		if err := json.Unmarshal([]byte(prov.String), &p.Provenance); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal provenance")
		}
	}
	return &p, nil
}
