// Package postgres provides a pgx-backed session.Store for deployments
// where conversation history must survive restarts.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumabay/storechat/internal/model/chat"
	"github.com/lumabay/storechat/internal/session"
)

// Store persists sessions and turns in Postgres.
type Store struct {
	db *pgxpool.Pool
}

// NewStore wraps an existing connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// CreateSchema creates the chat tables if they do not exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chat_sessions (
			id         TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS chat_turns (
			id         TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES chat_sessions(id),
			seq        INT NOT NULL,
			role       TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (session_id, seq)
		);
	`)
	if err != nil {
		return fmt.Errorf("session: create schema: %w", err)
	}
	return nil
}

// GetOrCreate inserts the session row if it is new and returns it either way.
func (s *Store) GetOrCreate(ctx context.Context, id string) (chat.Session, error) {
	if id == "" {
		id = uuid.NewString()
	}

	sess := chat.Session{ID: id}
	err := s.db.QueryRow(ctx,
		`INSERT INTO chat_sessions (id, created_at)
		 VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		 RETURNING created_at`,
		id, time.Now().UTC(),
	).Scan(&sess.CreatedAt)
	if err != nil {
		return chat.Session{}, fmt.Errorf("session: get or create: %w", err)
	}

	return sess, nil
}

// Turns returns the session history ordered by seq.
func (s *Store) Turns(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	if err := s.exists(ctx, sessionID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT role, content, created_at
		 FROM chat_turns WHERE session_id = $1 ORDER BY seq ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("session: list turns: %w", err)
	}
	defer rows.Close()

	turns := make([]chat.Turn, 0, 16)
	for rows.Next() {
		var turn chat.Turn
		if err := rows.Scan(&turn.Role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("session: scan turn: %w", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session: list turns: %w", err)
	}

	return turns, nil
}

// AppendTurn appends a turn with an auto-incremented seq.
func (s *Store) AppendTurn(ctx context.Context, sessionID string, turn chat.Turn) error {
	if err := s.exists(ctx, sessionID); err != nil {
		return err
	}

	createdAt := turn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO chat_turns (id, session_id, seq, role, content, created_at)
		 VALUES ($1, $2, COALESCE((SELECT MAX(seq) FROM chat_turns WHERE session_id = $2), 0) + 1, $3, $4, $5)`,
		uuid.NewString(), sessionID, turn.Role, turn.Content, createdAt,
	)
	if err != nil {
		return fmt.Errorf("session: append turn: %w", err)
	}

	return nil
}

func (s *Store) exists(ctx context.Context, sessionID string) error {
	var id string
	err := s.db.QueryRow(ctx,
		`SELECT id FROM chat_sessions WHERE id = $1`, sessionID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("session: lookup: %w", err)
	}
	return nil
}

var _ session.Store = (*Store)(nil)
