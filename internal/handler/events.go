package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

type eventView struct {
	Kind string    `json:"kind"`
	ID   string    `json:"id"`
	At   time.Time `json:"at"`
}

// events streams the user's notifications as server-sent events. Events for
// other users are filtered out; the stream ends when the client disconnects.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	uid := userID(r)
	ch := h.notifier.Subscribe(r.Context())
	for ev := range ch {
		if ev.UserID != uid {
			continue
		}
		payload, err := json.Marshal(eventView{
			Kind: string(ev.Kind),
			ID:   ev.ID,
			At:   ev.At,
		})
		if err != nil {
			continue
		}
		if _, err := w.Write([]byte("event: " + string(ev.Kind) + "\ndata: " + string(payload) + "\n\n")); err != nil {
			return
		}
		flusher.Flush()
	}
}
