package reward

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kamga/mokolo/internal/notify"
)

const (
	dailyLoginPoints = 50

	// surpriseDelay is how long after a daily-login grant the surprise
	// notification is published, mirroring the storefront's delayed modal.
	surpriseDelay = 2 * time.Second
)

// Service grants and claims rewards. Claims are optimistic: the local ledger
// view is updated first and rolled back if the repository write fails.
type Service struct {
	repo     Repository
	notifier *notify.Hub

	now   func() time.Time
	after func(time.Duration, func()) // injectable time.AfterFunc

	// mu guards the local claimed-state overlay used for optimistic claims.
	mu      sync.Mutex
	claimed map[string]bool
}

// NewService creates a reward Service.
func NewService(repo Repository, notifier *notify.Hub) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		claimed: make(map[string]bool),
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithAfter overrides the delayed-execution hook. Test hook.
func (s *Service) WithAfter(after func(time.Duration, func())) *Service {
	s.after = after
	return s
}

// ListByUser returns the user's ledger with the optimistic claim overlay
// applied.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]UserReward, error) {
	rewards, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list rewards")
	}

	s.mu.Lock()
	for i := range rewards {
		if s.claimed[rewards[i].ID] {
			rewards[i].Claimed = true
		}
	}
	s.mu.Unlock()

	return rewards, nil
}

// CheckDailyLogin grants the daily login reward if the user has none dated
// today, then schedules the surprise notification. Granting is idempotent
// per calendar day.
func (s *Service) CheckDailyLogin(ctx context.Context, userID string) (*UserReward, error) {
	rewards, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list rewards")
	}

	today := s.now()
	for _, r := range rewards {
		if r.Type == TypeDailyLogin && sameDay(r.CreatedAt, today) {
			return nil, nil
		}
	}

	granted := &UserReward{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        TypeDailyLogin,
		Title:       "Daily Login Bonus!",
		Description: "Welcome back! Here are your daily points.",
		Points:      dailyLoginPoints,
		CreatedAt:   today,
	}
	if err := s.repo.Create(ctx, granted); err != nil {
		return nil, errors.Wrap(err, "create daily login reward")
	}

	lg := zctx.From(ctx)
	lg.Info("Daily login reward granted",
		zap.String("user_id", userID),
		zap.Int("points", granted.Points),
	)

	s.after(surpriseDelay, func() {
		s.notifier.Publish(notify.Event{
			Kind:   notify.KindRewardGranted,
			UserID: userID,
			ID:     granted.ID,
		})
	})

	return granted, nil
}

// Claim marks a reward claimed. The local overlay is set before the
// repository write; on error the overlay entry is rolled back so reads
// return to the prior state.
func (s *Service) Claim(ctx context.Context, rewardID string) error {
	s.mu.Lock()
	prior, hadPrior := s.claimed[rewardID]
	s.claimed[rewardID] = true
	s.mu.Unlock()

	if err := s.repo.SetClaimed(ctx, rewardID, true); err != nil {
		s.mu.Lock()
		if hadPrior {
			s.claimed[rewardID] = prior
		} else {
			delete(s.claimed, rewardID)
		}
		s.mu.Unlock()
		return errors.Wrap(err, "claim reward")
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
