package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/breach-party/backend/internal/hub"
	"github.com/breach-party/backend/internal/session"
	"github.com/breach-party/backend/internal/types"
)

// Handler upgrades the connection and pipes it into the session actor: one
// writer goroutine draining the per-client outbox, one reader loop turning
// client messages into intents. Closing the outbox (session side) ends the
// writer; a read error ends the handler and detaches the connection.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session")
		participantID := r.URL.Query().Get("participant")
		displayName := r.URL.Query().Get("name")
		if sessionID == "" || participantID == "" {
			http.Error(w, "missing session or participant", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{ID: sessionID, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Envelope, 8)
		joined := make(chan error, 1)
		sess.Inbox() <- session.Join{
			ParticipantID: participantID,
			DisplayName:   displayName,
			Outbox:        out,
			Reply:         joined,
		}
		if err := <-joined; err != nil {
			payload, _ := json.Marshal(types.ServerMessage{Type: "error", Code: types.CodeOf(err), Error: err.Error()})
			_ = conn.Write(r.Context(), websocket.MessageText, payload)
			return
		}
		defer func() {
			sess.Inbox() <- session.Detach{ParticipantID: participantID, Outbox: out}
		}()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for env := range out {
				msg := types.ServerMessage{Type: "session_snapshot", Snapshot: env.Snapshot}
				if env.Err != nil {
					msg = types.ServerMessage{Type: "error", Code: types.CodeOf(env.Err), Error: env.Err.Error()}
				}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","code":"invalid_argument","error":"bad json"}`))
				continue
			}

			intent, ok := toIntent(participantID, cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","code":"invalid_argument","error":"unknown type"}`))
				continue
			}
			log.Debug("intent received",
				zap.String("session_id", sessionID),
				zap.String("participant_id", participantID),
				zap.String("intent", cm.Type))
			sess.Inbox() <- intent
		}
	}
}

func toIntent(participantID string, m types.ClientMessage) (session.Intent, bool) {
	kind := session.IntentKind(m.Type)
	switch kind {
	case session.IntentLeave, session.IntentToggleReady, session.IntentSetDisplayName,
		session.IntentChangeTeam, session.IntentClaimLead, session.IntentDemoteLead,
		session.IntentStartGame, session.IntentForceStart, session.IntentEndGame,
		session.IntentSubmitClue, session.IntentToggleSelection, session.IntentSubmitGuess:
	default:
		return session.Intent{}, false
	}
	return session.Intent{
		From:    participantID,
		Kind:    kind,
		Name:    m.Name,
		Team:    m.Team,
		Word:    m.Word,
		Count:   m.Count,
		CardID:  m.CardID,
		CardIDs: m.CardIDs,
	}, true
}
