package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SQLiteStore saves the progress document in the kv table and the per-round
// log in round_history. Both tables come from the embedded migrations.
type SQLiteStore struct{ db *sql.DB }

// NewSQLiteStore wraps an opened, migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore { return &SQLiteStore{db: db} }

func (s *SQLiteStore) Load(ctx context.Context) (Progress, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, Key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("load progress: %w", err)
	}
	p, err := decode([]byte(doc))
	if err != nil {
		return Default(), fmt.Errorf("decode progress: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) Save(ctx context.Context, p Progress) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
        ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		Key, string(b),
	)
	return err
}

// Reset removes the progress document and the round log.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key=?`, Key); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM round_history`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) AppendRound(ctx context.Context, r Round) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO round_history
            (category, game_mode, correct, skipped, max_streak, play_seconds, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Category, r.GameMode, r.CorrectCount, r.SkippedCount, r.MaxStreak, r.PlayTime, r.FinishedAt,
	)
	return err
}

// RecentRounds returns up to limit rounds, newest first.
// limit is clamped to MaxHistoryLimit; zero or negative means DefaultHistoryLimit.
func (s *SQLiteStore) RecentRounds(ctx context.Context, limit int) ([]Round, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT category, game_mode, correct, skipped, max_streak, play_seconds, finished_at
        FROM round_history
        ORDER BY finished_at DESC, id DESC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Round{}
	for rows.Next() {
		var r Round
		if err := rows.Scan(&r.Category, &r.GameMode, &r.CorrectCount, &r.SkippedCount,
			&r.MaxStreak, &r.PlayTime, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
