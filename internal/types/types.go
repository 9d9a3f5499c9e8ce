package types

import (
	"errors"

	"github.com/breach-party/backend/internal/engine"
	"github.com/breach-party/backend/internal/roster"
	"github.com/breach-party/backend/internal/session"
)

// ClientMessage is one intent over the wire; Type matches the intent name.
type ClientMessage struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Team    string `json:"team,omitempty"`
	Word    string `json:"word,omitempty"`
	Count   int    `json:"count,omitempty"`
	CardID  int    `json:"card_id,omitempty"`
	CardIDs []int  `json:"card_ids,omitempty"`
}

type ServerMessage struct {
	Type     string            `json:"type"` // "session_snapshot" | "error"
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Code     string            `json:"code,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// CodeOf flattens the error taxonomy into wire codes.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, roster.ErrDuplicateParticipant):
		return "duplicate_participant"
	case errors.Is(err, roster.ErrNotFound):
		return "not_found"
	case errors.Is(err, roster.ErrInvalidArgument), errors.Is(err, engine.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, engine.ErrCardNotFound):
		return "not_found"
	case errors.Is(err, engine.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, session.ErrForbidden):
		return "forbidden"
	case errors.Is(err, session.ErrConflict):
		return "conflict"
	case errors.Is(err, session.ErrNotParticipant):
		return "not_participant"
	default:
		return "internal"
	}
}
