package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/kamga/mokolo/internal/domain/profile"
	"github.com/kamga/mokolo/internal/domain/reward"
)

type rewardView struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Points      int        `json:"points"`
	Claimed     bool       `json:"claimed"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toRewardView(r reward.UserReward) rewardView {
	return rewardView{
		ID:          r.ID,
		Type:        string(r.Type),
		Title:       r.Title,
		Description: r.Description,
		Points:      r.Points,
		Claimed:     r.Claimed,
		ExpiresAt:   r.ExpiresAt,
		CreatedAt:   r.CreatedAt,
	}
}

func (h *Handler) listRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.rewards.ListByUser(r.Context(), userID(r))
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if r.URL.Query().Get("unclaimed") == "true" {
		rewards = reward.Unclaimed(rewards)
	}

	views := make([]rewardView, len(rewards))
	for i, rw := range rewards {
		views[i] = toRewardView(rw)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) claimReward(w http.ResponseWriter, r *http.Request) {
	if err := h.rewards.Claim(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"claimed": true})
}

type loginEventResponse struct {
	Granted *rewardView `json:"granted,omitempty"`
}

// loginEvent records a login for the user's profile and runs the daily
// reward check. Granted points land on the profile immediately; claiming
// only acknowledges the notification.
func (h *Handler) loginEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := userID(r)

	if _, err := h.profiles.Get(ctx, uid); err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			h.internalError(w, r, err)
			return
		}
		if err := h.profiles.Create(ctx, &profile.Profile{ID: uid}); err != nil {
			h.internalError(w, r, err)
			return
		}
	}
	if err := h.profiles.RecordLogin(ctx, uid, time.Now()); err != nil {
		h.internalError(w, r, err)
		return
	}

	granted, err := h.rewards.CheckDailyLogin(ctx, uid)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	resp := loginEventResponse{}
	if granted != nil {
		if err := h.profiles.AddPoints(ctx, uid, granted.Points); err != nil {
			h.internalError(w, r, err)
			return
		}
		view := toRewardView(*granted)
		resp.Granted = &view
	}
	writeJSON(w, http.StatusOK, resp)
}
