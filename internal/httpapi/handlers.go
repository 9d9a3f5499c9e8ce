package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/breach-party/backend/internal/hub"
	"github.com/breach-party/backend/internal/session"
)

type createSessionRequest struct {
	HostID          string `json:"host_id"`
	HostDisplayName string `json:"host_display_name"`
	SessionName     string `json:"session_name"`
}

type createSessionResponse struct {
	SessionID   string `json:"session_id"`
	SessionURL  string `json:"session_url"`
	SessionName string `json:"session_name"`
}

// CreateSession makes a new session with the caller seeded as host. The host
// still connects over /ws afterwards; that join is treated as a reconnect.
func CreateSession(h *hub.Hub, frontendURL string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.HostID == "" || req.HostDisplayName == "" {
			http.Error(w, "host_id and host_display_name are required", http.StatusBadRequest)
			return
		}
		name := req.SessionName
		if name == "" {
			name = "Default Session"
		}

		id := uuid.NewString()
		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.CreateSession{
			ID:       id,
			Name:     name,
			HostID:   req.HostID,
			HostName: req.HostDisplayName,
			Reply:    reply,
		}
		if <-reply == nil {
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			return
		}
		log.Info("session created over http", zap.String("session_id", id))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(createSessionResponse{
			SessionID:   id,
			SessionURL:  fmt.Sprintf("%s/game/%s", frontendURL, id),
			SessionName: name,
		})
	}
}

func fetchState(h *hub.Hub, id string) (session.StateView, bool) {
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.GetSession{ID: id, Reply: reply}
	sess := <-reply
	if sess == nil {
		return session.StateView{}, false
	}
	stateReply := make(chan session.StateView, 1)
	sess.Inbox() <- session.GetState{Reply: stateReply}
	select {
	case view := <-stateReply:
		return view, true
	case <-time.After(2 * time.Second):
		return session.StateView{}, false
	}
}

// GetSession returns the roster view, for initial page load and reconnect.
func GetSession(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		view, ok := fetchState(h, id)
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(session.SessionView{
			ID:           id,
			Name:         view.Name,
			HostID:       view.HostID,
			Participants: view.Participants,
		})
	}
}

// GetGame returns the game view filtered for the requesting participant.
// An id outside the roster gets the non-lead view, never unrevealed owners.
func GetGame(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID := r.URL.Query().Get("participant_id")
		if participantID == "" {
			http.Error(w, "participant_id query parameter is required", http.StatusBadRequest)
			return
		}
		view, ok := fetchState(h, chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		if view.Game == nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		teamLead := false
		for _, p := range view.Participants {
			if p.ID == participantID {
				teamLead = p.TeamLead
				break
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(view.Game.ViewFor(teamLead))
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
