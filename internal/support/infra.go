package support

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

var _ Store = (*repo)(nil)

type repo struct {
	db *sql.DB
}

// NewRepo returns the postgres session store. Rows hold live session state
// only and are removed on End or by PurgeIdle.
func NewRepo(db *sql.DB) *repo {
	return &repo{db: db}
}

func (r *repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS support_sessions (
			id         TEXT PRIMARY KEY,
			state      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (r *repo) Create(ctx context.Context, s *Session) error {
	state, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO support_sessions (id, state, updated_at)
		VALUES ($1, $2, $3)
	`,
		s.ID,
		state,
		s.UpdatedAt,
	)
	return err
}

func (r *repo) Get(ctx context.Context, id string) (*Session, error) {
	var state []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT state
		FROM support_sessions
		WHERE id = $1
	`, id).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(state, &s); err != nil {
		return nil, err
	}
	normalize(&s)
	return &s, nil
}

func (r *repo) Save(ctx context.Context, s *Session) error {
	state, err := json.Marshal(s)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE support_sessions
		SET state = $2, updated_at = $3
		WHERE id = $1
	`,
		s.ID,
		state,
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM support_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// PurgeIdle removes sessions untouched for longer than ttl.
func (r *repo) PurgeIdle(ctx context.Context, ttl time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM support_sessions
		WHERE updated_at < $1
	`, time.Now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
