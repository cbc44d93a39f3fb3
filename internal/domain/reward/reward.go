// Package reward implements the gamification ledger: reward records with
// claimed state, point totals, and the loyalty tier derivation.
package reward

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested reward does not exist.
var ErrNotFound = errors.New("reward not found")

// Type enumerates reward-granting events.
type Type string

const (
	TypeDailyLogin    Type = "daily_login"
	TypeFirstPurchase Type = "first_purchase"
	TypeLoyaltyPoints Type = "loyalty_points"
	TypeSurpriseGift  Type = "surprise_gift"
	TypeAchievement   Type = "achievement"
)

// UserReward is one ledger entry. Entries are created by reward events,
// flipped to claimed by explicit user action, and never deleted.
type UserReward struct {
	ID          string
	UserID      string
	Type        Type
	Title       string
	Description string
	Points      int
	Claimed     bool
	ExpiresAt   *time.Time
	CreatedAt   time.Time
}

// Repository defines persistence operations for the reward ledger.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]UserReward, error)
	Create(ctx context.Context, r *UserReward) error
	SetClaimed(ctx context.Context, rewardID string, claimed bool) error
}

// Level names the loyalty tiers in ascending order.
type Level string

const (
	LevelBronze  Level = "Bronze"
	LevelSilver  Level = "Silver"
	LevelGold    Level = "Gold"
	LevelDiamond Level = "Diamond"
)

// LevelForPoints maps a cumulative point total to its loyalty tier. Pure
// threshold function, no hysteresis; callers recompute on every read.
func LevelForPoints(points int) Level {
	switch {
	case points >= 10000:
		return LevelDiamond
	case points >= 5000:
		return LevelGold
	case points >= 2000:
		return LevelSilver
	default:
		return LevelBronze
	}
}

// Unclaimed filters the ledger down to unclaimed entries.
func Unclaimed(rewards []UserReward) []UserReward {
	out := make([]UserReward, 0, len(rewards))
	for _, r := range rewards {
		if !r.Claimed {
			out = append(out, r)
		}
	}
	return out
}
