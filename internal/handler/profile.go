package handler

import (
	"net/http"
	"time"

	"github.com/kamga/mokolo/internal/domain/profile"
)

type profileView struct {
	ID            string     `json:"id"`
	Email         string     `json:"email,omitempty"`
	FullName      string     `json:"full_name,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Address       string     `json:"address,omitempty"`
	LoyaltyPoints int        `json:"loyalty_points"`
	LoyaltyLevel  string     `json:"loyalty_level"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	LoginStreak   int        `json:"login_streak"`
	IsAdmin       bool       `json:"is_admin,omitempty"`
}

func toProfileView(p profile.Profile) profileView {
	return profileView{
		ID:            p.ID,
		Email:         p.Email,
		FullName:      p.FullName,
		Phone:         p.Phone,
		Address:       p.Address,
		LoyaltyPoints: p.LoyaltyPoints,
		LoyaltyLevel:  string(p.Level()),
		LastLogin:     p.LastLogin,
		LoginStreak:   p.LoginStreak,
		IsAdmin:       p.IsAdmin,
	}
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context(), userID(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileView(*p))
}

type updateProfileRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.profiles.Update(r.Context(), userID(r), profile.Update{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileView(*p))
}
