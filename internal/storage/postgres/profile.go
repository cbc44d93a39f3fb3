package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kamga/mokolo/internal/domain/profile"
)

const (
	profileColumns = `id, email, is_admin, full_name, phone, address, loyalty_points, last_login, login_streak`

	getProfileSQL = `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	insertProfileSQL = `INSERT INTO profiles (id, email, is_admin, full_name, phone, address, loyalty_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateProfileSQL = `UPDATE profiles SET
		full_name = COALESCE($2, full_name),
		phone     = COALESCE($3, phone),
		address   = COALESCE($4, address)
		WHERE id = $1
		RETURNING ` + profileColumns

	addPointsSQL = `UPDATE profiles SET loyalty_points = loyalty_points + $2 WHERE id = $1`

	// The streak counts consecutive days, not logins: a repeat login on
	// the same day is a no-op, a login within 48 hours extends the streak,
	// any longer gap resets it to 1.
	recordLoginSQL = `UPDATE profiles SET
		login_streak = CASE
			WHEN last_login IS NULL OR $2 - last_login > INTERVAL '48 hours' THEN 1
			WHEN last_login::date = ($2)::date THEN login_streak
			ELSE login_streak + 1 END,
		last_login = $2
		WHERE id = $1`
)

var _ profile.Repository = (*ProfileRepository)(nil)

// ProfileRepository implements profile.Repository backed by PostgreSQL.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a ProfileRepository that uses the given pool.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Get returns a profile by user id.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	rows, err := r.pool.Query(ctx, getProfileSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("getting profile %q: %w", userID, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProfile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrNotFound
		}
		return nil, fmt.Errorf("getting profile %q: %w", userID, err)
	}
	return &p, nil
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	_, err := r.pool.Exec(ctx, insertProfileSQL,
		p.ID, p.Email, p.IsAdmin, p.FullName, p.Phone, p.Address, p.LoyaltyPoints,
	)
	if err != nil {
		return fmt.Errorf("creating profile %q: %w", p.ID, err)
	}
	return nil
}

// Update changes the contact fields present in u and returns the updated
// profile.
func (r *ProfileRepository) Update(ctx context.Context, userID string, u profile.Update) (*profile.Profile, error) {
	rows, err := r.pool.Query(ctx, updateProfileSQL, userID, u.FullName, u.Phone, u.Address)
	if err != nil {
		return nil, fmt.Errorf("updating profile %q: %w", userID, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProfile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrNotFound
		}
		return nil, fmt.Errorf("updating profile %q: %w", userID, err)
	}
	return &p, nil
}

// AddPoints increments the loyalty point total.
func (r *ProfileRepository) AddPoints(ctx context.Context, userID string, points int) error {
	tag, err := r.pool.Exec(ctx, addPointsSQL, userID, points)
	if err != nil {
		return fmt.Errorf("adding points to profile %q: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

// RecordLogin updates last_login and the login streak.
func (r *ProfileRepository) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, recordLoginSQL, userID, at)
	if err != nil {
		return fmt.Errorf("recording login for profile %q: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.CollectableRow) (profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.IsAdmin, &p.FullName, &p.Phone, &p.Address,
		&p.LoyaltyPoints, &p.LastLogin, &p.LoginStreak,
	)
	return p, err
}
