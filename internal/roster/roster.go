package roster

import (
	"errors"
	"strings"

	"github.com/breach-party/backend/internal/engine"
)

var ErrDuplicateParticipant = errors.New("duplicate participant")
var ErrNotFound = errors.New("participant not found")
var ErrInvalidArgument = errors.New("invalid argument")

type Participant struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	Team        engine.Team `json:"team,omitempty"`
	TeamLead    bool        `json:"is_team_lead"`
	Host        bool        `json:"is_host"`
	Ready       bool        `json:"ready"`
}

// Roster is the authoritative participant list of one session. It preserves
// join order, which doubles as the host succession order. Not safe for
// concurrent use; the session actor serializes access.
type Roster struct {
	participants []*Participant
}

func New() *Roster {
	return &Roster{}
}

func (r *Roster) find(id string) *Participant {
	for _, p := range r.participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Add inserts a participant with no team, not ready, not lead. The first
// participant ever added becomes the host.
func (r *Roster) Add(id, displayName string) error {
	if r.find(id) != nil {
		return ErrDuplicateParticipant
	}
	name := strings.TrimSpace(displayName)
	if id == "" || name == "" {
		return ErrInvalidArgument
	}
	r.participants = append(r.participants, &Participant{
		ID:          id,
		DisplayName: name,
		Host:        len(r.participants) == 0,
	})
	return nil
}

// Remove drops the participant. A departing lead leaves the slot vacant; a
// departing host hands the flag to the earliest remaining joiner.
func (r *Roster) Remove(id string) error {
	p := r.find(id)
	if p == nil {
		return ErrNotFound
	}
	wasHost := p.Host
	kept := r.participants[:0]
	for _, q := range r.participants {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	r.participants = kept
	if wasHost && len(r.participants) > 0 {
		r.participants[0].Host = true
	}
	return nil
}

// SetTeam moves the participant. A lead who switches teams loses leadership,
// and the move resets their ready flag.
func (r *Roster) SetTeam(id string, team engine.Team) error {
	p := r.find(id)
	if p == nil {
		return ErrNotFound
	}
	if p.Team == team {
		return nil
	}
	p.Team = team
	p.TeamLead = false
	p.Ready = false
	return nil
}

func (r *Roster) SetReady(id string, ready bool) error {
	p := r.find(id)
	if p == nil {
		return ErrNotFound
	}
	p.Ready = ready
	return nil
}

// ToggleReady flips the flag and returns the new value.
func (r *Roster) ToggleReady(id string) (bool, error) {
	p := r.find(id)
	if p == nil {
		return false, ErrNotFound
	}
	p.Ready = !p.Ready
	return p.Ready, nil
}

// ResetReady clears everyone's ready flag, e.g. when a game ends.
func (r *Roster) ResetReady() {
	for _, p := range r.participants {
		p.Ready = false
	}
}

func (r *Roster) SetDisplayName(id, displayName string) error {
	p := r.find(id)
	if p == nil {
		return ErrNotFound
	}
	name := strings.TrimSpace(displayName)
	if name == "" {
		return ErrInvalidArgument
	}
	p.DisplayName = name
	return nil
}

// SetTeamLead sets or clears the lead flag. Taking or giving up the slot
// resets the participant's ready flag. Slot-vacancy rules live in the policy
// package; this is plain mutation.
func (r *Roster) SetTeamLead(id string, lead bool) error {
	p := r.find(id)
	if p == nil {
		return ErrNotFound
	}
	if p.TeamLead == lead {
		return nil
	}
	p.TeamLead = lead
	p.Ready = false
	return nil
}

func (r *Roster) Get(id string) (Participant, bool) {
	if p := r.find(id); p != nil {
		return *p, true
	}
	return Participant{}, false
}

func (r *Roster) ByTeam(team engine.Team) []Participant {
	var out []Participant
	for _, p := range r.participants {
		if p.Team == team {
			out = append(out, *p)
		}
	}
	return out
}

func (r *Roster) TeamLeadOf(team engine.Team) (Participant, bool) {
	for _, p := range r.participants {
		if p.Team == team && p.TeamLead {
			return *p, true
		}
	}
	return Participant{}, false
}

func (r *Roster) Host() (Participant, bool) {
	for _, p := range r.participants {
		if p.Host {
			return *p, true
		}
	}
	return Participant{}, false
}

func (r *Roster) AllReady() bool {
	for _, p := range r.participants {
		if !p.Ready {
			return false
		}
	}
	return true
}

func (r *Roster) Len() int {
	return len(r.participants)
}

// Participants returns value copies in join order.
func (r *Roster) Participants() []Participant {
	out := make([]Participant, len(r.participants))
	for i, p := range r.participants {
		out[i] = *p
	}
	return out
}

// AutoTeam picks the smaller team for a fresh joiner, team one on ties.
func (r *Roster) AutoTeam() engine.Team {
	one, two := 0, 0
	for _, p := range r.participants {
		switch p.Team {
		case engine.TeamOne:
			one++
		case engine.TeamTwo:
			two++
		}
	}
	if one <= two {
		return engine.TeamOne
	}
	return engine.TeamTwo
}
