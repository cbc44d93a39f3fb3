package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kamga/mokolo/internal/domain/reward"
)

const (
	listRewardsByUserSQL = `SELECT id, user_id, type, title, description, points, claimed, expires_at, created_at
		FROM user_rewards WHERE user_id = $1 ORDER BY created_at DESC`

	insertRewardSQL = `INSERT INTO user_rewards (id, user_id, type, title, description, points, claimed, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	setRewardClaimedSQL = `UPDATE user_rewards SET claimed = $2 WHERE id = $1`
)

var _ reward.Repository = (*RewardRepository)(nil)

// RewardRepository implements reward.Repository backed by PostgreSQL.
type RewardRepository struct {
	pool *pgxpool.Pool
}

// NewRewardRepository returns a RewardRepository that uses the given pool.
func NewRewardRepository(pool *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{pool: pool}
}

// ListByUser returns the user's reward ledger, newest first.
func (r *RewardRepository) ListByUser(ctx context.Context, userID string) ([]reward.UserReward, error) {
	rows, err := r.pool.Query(ctx, listRewardsByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing rewards for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (reward.UserReward, error) {
		var (
			rw  reward.UserReward
			typ string
		)
		err := row.Scan(&rw.ID, &rw.UserID, &typ, &rw.Title, &rw.Description,
			&rw.Points, &rw.Claimed, &rw.ExpiresAt, &rw.CreatedAt)
		rw.Type = reward.Type(typ)
		return rw, err
	})
}

// Create inserts a new ledger entry.
func (r *RewardRepository) Create(ctx context.Context, rw *reward.UserReward) error {
	_, err := r.pool.Exec(ctx, insertRewardSQL,
		rw.ID, rw.UserID, string(rw.Type), rw.Title, rw.Description,
		rw.Points, rw.Claimed, rw.ExpiresAt, rw.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating reward %q: %w", rw.ID, err)
	}
	return nil
}

// SetClaimed flips the claimed flag on a ledger entry.
func (r *RewardRepository) SetClaimed(ctx context.Context, rewardID string, claimed bool) error {
	tag, err := r.pool.Exec(ctx, setRewardClaimedSQL, rewardID, claimed)
	if err != nil {
		return fmt.Errorf("claiming reward %q: %w", rewardID, err)
	}
	if tag.RowsAffected() == 0 {
		return reward.ErrNotFound
	}
	return nil
}
