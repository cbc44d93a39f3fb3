package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kamga/mokolo/internal/domain/profile"
)

var _ profile.Repository = (*ProfileRepository)(nil)

// ProfileRepository is an in-memory profile.Repository.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]profile.Profile
}

// NewProfileRepository returns an empty in-memory profile store.
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]profile.Profile)}
}

// Get returns a profile by user id.
func (r *ProfileRepository) Get(_ context.Context, userID string) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, profile.ErrNotFound
	}
	return &p, nil
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(_ context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = *p
	return nil
}

// Update changes the contact fields present in u.
func (r *ProfileRepository) Update(_ context.Context, userID string, u profile.Update) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, profile.ErrNotFound
	}
	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Address != nil {
		p.Address = *u.Address
	}
	r.profiles[userID] = p
	return &p, nil
}

// AddPoints increments the loyalty point total.
func (r *ProfileRepository) AddPoints(_ context.Context, userID string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return profile.ErrNotFound
	}
	p.LoyaltyPoints += points
	r.profiles[userID] = p
	return nil
}

// RecordLogin updates last_login and the login streak. The streak counts
// consecutive days, not logins: repeat logins on the same day leave it
// untouched, and a gap longer than 48 hours resets it, matching the
// postgres implementation.
func (r *ProfileRepository) RecordLogin(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return profile.ErrNotFound
	}
	switch {
	case p.LastLogin == nil || at.Sub(*p.LastLogin) > 48*time.Hour:
		p.LoginStreak = 1
	case sameDay(*p.LastLogin, at):
		// streak unchanged
	default:
		p.LoginStreak++
	}
	p.LastLogin = &at
	r.profiles[userID] = p
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
