// Package profile defines user account data and its persistence contract.
// Authentication itself is handled by the external identity provider; this
// package only owns the profile rows it writes.
package profile

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/kamga/mokolo/internal/domain/reward"
)

// ErrNotFound is returned when a requested profile does not exist.
var ErrNotFound = errors.New("profile not found")

// Profile is a user account. Level is derived from LoyaltyPoints on read,
// never stored.
type Profile struct {
	ID            string
	Email         string
	IsAdmin       bool
	FullName      string
	Phone         string
	Address       string
	LoyaltyPoints int
	LastLogin     *time.Time
	LoginStreak   int
}

// Level returns the loyalty tier for the profile's point total.
func (p Profile) Level() reward.Level {
	return reward.LevelForPoints(p.LoyaltyPoints)
}

// Update carries the mutable contact fields for profile updates. Nil fields
// are left unchanged.
type Update struct {
	FullName *string
	Phone    *string
	Address  *string
}

// Repository defines persistence operations for profiles.
type Repository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, userID string, u Update) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	AddPoints(ctx context.Context, userID string, points int) error
	RecordLogin(ctx context.Context, userID string, at time.Time) error
}
