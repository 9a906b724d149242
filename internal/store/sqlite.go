package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mirror12k/catwalk-apigen/pkg/types"
)

type SQLiteStore struct {
	db *sql.DB
	// mu serializes id allocation with the insert.
	mu sync.Mutex
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.Init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Init() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			target TEXT NOT NULL,
			endpoint_url TEXT NOT NULL,
			auth_tokens INTEGER NOT NULL DEFAULT 0,
			endpoint_count INTEGER NOT NULL DEFAULT 0,
			definition TEXT NOT NULL,
			source TEXT NOT NULL,
			digest TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_target ON runs(target);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateRun assigns run.ID and run.CreatedAt and inserts the row.
func (s *SQLiteStore) CreateRun(run *types.GenerationRun) error {
	if run == nil {
		return errors.New("run is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	id, err := s.nextRunID(run.CreatedAt)
	if err != nil {
		return err
	}
	run.ID = id
	return s.insert(run)
}

func (s *SQLiteStore) insert(run *types.GenerationRun) error {
	_, err := s.db.Exec(`INSERT INTO runs(id,target,endpoint_url,auth_tokens,endpoint_count,definition,source,digest,created_at) VALUES(?,?,?,?,?,?,?,?,?)`,
		run.ID, run.Target, run.EndpointURL, run.AuthTokens, run.EndpointCount, run.Definition, run.Source, run.Digest, run.CreatedAt)
	return err
}

func (s *SQLiteStore) nextRunID(now time.Time) (string, error) {
	prefix := fmt.Sprintf("run_%s_", now.Format("20060102"))
	rows, err := s.db.Query(`SELECT id FROM runs WHERE id LIKE ?`, prefix+"%")
	if err != nil {
		return "", err
	}
	defer rows.Close()
	maxN := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil {
			continue
		}
		if n > maxN {
			maxN = n
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, maxN+1), nil
}

func (s *SQLiteStore) GetRun(id string) (*types.GenerationRun, error) {
	row := s.db.QueryRow(`SELECT id,target,endpoint_url,auth_tokens,endpoint_count,definition,source,digest,created_at FROM runs WHERE id=?`, id)
	var out types.GenerationRun
	if err := row.Scan(&out.ID, &out.Target, &out.EndpointURL, &out.AuthTokens, &out.EndpointCount, &out.Definition, &out.Source, &out.Digest, &out.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &out, nil
}

// ListRuns returns run summaries newest first; definition and source are left empty.
func (s *SQLiteStore) ListRuns(filter RunFilter) ([]types.GenerationRun, error) {
	query := &strings.Builder{}
	query.WriteString(`SELECT id,target,endpoint_url,auth_tokens,endpoint_count,digest,created_at FROM runs`)
	var args []any
	if filter.Target != "" {
		query.WriteString(` WHERE target=?`)
		args = append(args, filter.Target)
	}
	query.WriteString(` ORDER BY created_at DESC, id DESC`)
	if filter.Limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]types.GenerationRun, 0)
	for rows.Next() {
		var r types.GenerationRun
		if err := rows.Scan(&r.ID, &r.Target, &r.EndpointURL, &r.AuthTokens, &r.EndpointCount, &r.Digest, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteRun(id string) error {
	res, err := s.db.Exec(`DELETE FROM runs WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return errors.New("store is nil")
	}
	return s.db.Close()
}
