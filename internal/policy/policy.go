// Package policy holds the pure role rules. Every function reads a roster
// and returns a verdict; nothing here mutates state, the session coordinator
// re-checks and commits atomically.
package policy

import (
	"fmt"

	"github.com/breach-party/backend/internal/engine"
	"github.com/breach-party/backend/internal/roster"
)

const minTeamSize = 2

// CanClaimLead reports whether the participant may take their team's lead
// slot: they must have a team and the slot must be vacant.
func CanClaimLead(r *roster.Roster, participantID string) bool {
	p, ok := r.Get(participantID)
	if !ok || p.Team == "" {
		return false
	}
	if lead, taken := r.TeamLeadOf(p.Team); taken && lead.ID != participantID {
		return false
	}
	return true
}

type StartCriteria struct {
	Met        bool     `json:"met"`
	Violations []string `json:"violations"`
}

// EvaluateStart checks the lobby against the start conditions. Each unmet
// condition contributes one violation. Team-size imbalance is reported as an
// extra violation but never blocks the start on its own.
func EvaluateStart(r *roster.Roster) StartCriteria {
	var violations []string
	met := true

	sizes := map[engine.Team]int{}
	for _, team := range []engine.Team{engine.TeamOne, engine.TeamTwo} {
		sizes[team] = len(r.ByTeam(team))
		if sizes[team] < minTeamSize {
			violations = append(violations, fmt.Sprintf("%s needs at least %d members", team, minTeamSize))
			met = false
		}
		if _, ok := r.TeamLeadOf(team); !ok {
			violations = append(violations, fmt.Sprintf("%s has no team lead", team))
			met = false
		}
	}
	if !r.AllReady() {
		violations = append(violations, "not all participants are ready")
		met = false
	}
	if sizes[engine.TeamOne] != sizes[engine.TeamTwo] {
		violations = append(violations, "teams are uneven")
	}

	return StartCriteria{Met: met, Violations: violations}
}

// CanForceStart reports whether the caller may start the game ignoring the
// start criteria. Force-start exists precisely to bypass them, so the host
// always may; surfacing the violations first is the coordinator's job.
func CanForceStart(r *roster.Roster, participantID string) bool {
	p, ok := r.Get(participantID)
	return ok && p.Host
}
