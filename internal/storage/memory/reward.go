package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kamga/mokolo/internal/domain/reward"
)

var _ reward.Repository = (*RewardRepository)(nil)

// RewardRepository is an in-memory reward.Repository.
type RewardRepository struct {
	mu      sync.RWMutex
	rewards map[string]reward.UserReward
}

// NewRewardRepository returns an empty in-memory reward ledger.
func NewRewardRepository() *RewardRepository {
	return &RewardRepository{rewards: make(map[string]reward.UserReward)}
}

// ListByUser returns the user's ledger, newest first.
func (r *RewardRepository) ListByUser(_ context.Context, userID string) ([]reward.UserReward, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reward.UserReward, 0, 4)
	for _, rw := range r.rewards {
		if rw.UserID == userID {
			out = append(out, rw)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Create inserts a new ledger entry.
func (r *RewardRepository) Create(_ context.Context, rw *reward.UserReward) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rw.CreatedAt.IsZero() {
		rw.CreatedAt = time.Now()
	}
	r.rewards[rw.ID] = *rw
	return nil
}

// SetClaimed flips the claimed flag on a ledger entry.
func (r *RewardRepository) SetClaimed(_ context.Context, rewardID string, claimed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rw, ok := r.rewards[rewardID]
	if !ok {
		return reward.ErrNotFound
	}
	rw.Claimed = claimed
	r.rewards[rewardID] = rw
	return nil
}
