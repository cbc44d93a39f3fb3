package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/kamga/mokolo/internal/prefs"
)

type prefsView struct {
	prefs.Snapshot
	Theme prefs.ThemeConfig `json:"theme"`
}

func toPrefsView(s prefs.Snapshot) prefsView {
	return prefsView{Snapshot: s, Theme: s.ColorTheme.Config()}
}

func (h *Handler) getPrefs(w http.ResponseWriter, r *http.Request) {
	snap, err := h.prefs.Get(r.Context(), userID(r))
	if err != nil {
		if errors.Is(err, prefs.ErrNotFound) {
			writeJSON(w, http.StatusOK, toPrefsView(prefs.DefaultSnapshot()))
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPrefsView(*snap))
}

// putPrefs stores the client snapshot and rehydrates the server-side cart
// from it. Snapshot lines referencing products no longer in the catalog are
// dropped during restore.
func (h *Handler) putPrefs(w http.ResponseWriter, r *http.Request) {
	var snap prefs.Snapshot
	if err := decodeBody(r, &snap); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if snap.Language == "" {
		snap.Language = prefs.LangEN
	}
	if snap.ViewMode == "" {
		snap.ViewMode = prefs.View3D
	}
	if snap.ColorTheme == "" {
		snap.ColorTheme = prefs.ThemeGreen
	}
	if snap.Cart == nil {
		snap.Cart = []prefs.CartLine{}
	}

	uid := userID(r)
	if err := h.prefs.Put(r.Context(), uid, snap); err != nil {
		h.internalError(w, r, err)
		return
	}

	items, err := h.refreshCartProducts(r, prefs.ToCart(snap.Cart))
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.carts.Restore(uid, items)

	writeJSON(w, http.StatusOK, toPrefsView(snap))
}
