package session

import (
	"github.com/breach-party/backend/internal/engine"
	"github.com/breach-party/backend/internal/policy"
	"github.com/breach-party/backend/internal/roster"
)

type Msg interface{ isSessionMsg() }

// Join attaches a connection. A known participant id is a reconnect: the
// roster entry survives intact and the new outbox replaces the old one.
type Join struct {
	ParticipantID string
	DisplayName   string
	Outbox        chan Envelope
	Reply         chan error
}

func (Join) isSessionMsg() {}

// Detach reports a dropped connection. The roster entry is kept; a grace
// timer decides whether the participant eventually counts as gone. Outbox
// identifies the connection so a reconnect that already replaced it is not
// torn down by the stale close.
type Detach struct {
	ParticipantID string
	Outbox        chan Envelope
}

func (Detach) isSessionMsg() {}

type IntentKind string

const (
	IntentLeave           IntentKind = "leave"
	IntentToggleReady     IntentKind = "toggle_ready"
	IntentSetDisplayName  IntentKind = "set_display_name"
	IntentChangeTeam      IntentKind = "change_team"
	IntentClaimLead       IntentKind = "claim_team_lead"
	IntentDemoteLead      IntentKind = "demote_team_lead"
	IntentStartGame       IntentKind = "start_game"
	IntentForceStart      IntentKind = "force_start_game"
	IntentEndGame         IntentKind = "end_game"
	IntentSubmitClue      IntentKind = "submit_clue"
	IntentToggleSelection IntentKind = "toggle_card_selection"
	IntentSubmitGuess     IntentKind = "submit_guess"
)

// Intent is one mutating call from a participant. Unused fields stay zero.
type Intent struct {
	From    string
	Kind    IntentKind
	Name    string
	Team    string
	Word    string
	Count   int
	CardID  int
	CardIDs []int
}

func (Intent) isSessionMsg() {}

type GetState struct {
	Reply chan StateView
}

func (GetState) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// turnTimerFired ends the reveal phase. Generation-stamped so a fire armed
// for an earlier turn is dropped.
type turnTimerFired struct{ gen int }

func (turnTimerFired) isSessionMsg() {}

// graceExpired removes a participant whose connection never came back.
type graceExpired struct {
	participantID string
	gen           int
}

func (graceExpired) isSessionMsg() {}

type SessionView struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	HostID       string               `json:"host_id"`
	Participants []roster.Participant `json:"participants"`
}

// Snapshot is the per-viewer state pushed after every accepted mutation.
type Snapshot struct {
	Version       int                  `json:"version"`
	Session       SessionView          `json:"session"`
	Game          *engine.View         `json:"game,omitempty"`
	StartCriteria policy.StartCriteria `json:"start_criteria"`
}

// Envelope is what a connection receives: a snapshot, or an error addressed
// only to the caller whose intent was rejected.
type Envelope struct {
	Snapshot *Snapshot
	Err      error
}

// StateView reflects internal state without data races; it serves the
// read-only HTTP endpoints and tests. Game is a value copy and must be
// treated as read-only.
type StateView struct {
	Version      int
	NumClients   int
	Name         string
	HostID       string
	Participants []roster.Participant
	Game         *engine.State
}
