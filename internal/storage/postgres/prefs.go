package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kamga/mokolo/internal/prefs"
)

const (
	getPrefsSQL = `SELECT snapshot FROM user_prefs WHERE user_id = $1`

	upsertPrefsSQL = `INSERT INTO user_prefs (user_id, snapshot, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = now()`
)

var _ prefs.Store = (*PrefsStore)(nil)

// PrefsStore persists client snapshots as one JSONB row per user.
type PrefsStore struct {
	pool *pgxpool.Pool
}

// NewPrefsStore returns a PrefsStore that uses the given pool.
func NewPrefsStore(pool *pgxpool.Pool) *PrefsStore {
	return &PrefsStore{pool: pool}
}

// Get returns the user's stored snapshot.
func (s *PrefsStore) Get(ctx context.Context, userID string) (*prefs.Snapshot, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, getPrefsSQL, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, prefs.ErrNotFound
		}
		return nil, fmt.Errorf("getting prefs for %q: %w", userID, err)
	}

	var snap prefs.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decoding prefs for %q: %w", userID, err)
	}
	return &snap, nil
}

// Put stores the snapshot, replacing any previous one.
func (s *PrefsStore) Put(ctx context.Context, userID string, snap prefs.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding prefs for %q: %w", userID, err)
	}
	if _, err := s.pool.Exec(ctx, upsertPrefsSQL, userID, raw); err != nil {
		return fmt.Errorf("storing prefs for %q: %w", userID, err)
	}
	return nil
}
