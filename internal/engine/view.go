package engine

import "slices"

type CardView struct {
	ID       int       `json:"id"`
	Word     string    `json:"word"`
	Owner    OwnerType `json:"owner_type,omitempty"`
	Revealed bool      `json:"revealed"`
}

type TeamStatus struct {
	RemainingCards int `json:"remaining_cards"`
}

// View is the role-filtered game state sent to one participant.
type View struct {
	ActiveTeam Team                `json:"active_team"`
	Phase      Phase               `json:"phase"`
	Round      int                 `json:"round_number"`
	Board      []CardView          `json:"board"`
	ActiveClue *Clue               `json:"active_clue,omitempty"`
	TeamData   map[Team]TeamStatus `json:"team_data"`
	Selections map[string][]int    `json:"selected_cards"`
	GameOver   bool                `json:"game_over"`
	Winner     Team                `json:"winner,omitempty"`
}

// ViewFor builds the snapshot the given viewer may see. Team leads see every
// card's owner; everyone else sees owners of revealed cards only. The view is
// computed fresh on every call and shares no memory with the State.
func (s State) ViewFor(teamLead bool) View {
	board := make([]CardView, len(s.Board))
	for i, c := range s.Board {
		cv := CardView{ID: c.ID, Word: c.Word, Revealed: c.Revealed}
		if teamLead || c.Revealed {
			cv.Owner = c.Owner
		}
		board[i] = cv
	}

	selections := make(map[string][]int, len(s.Selections))
	for id, picks := range s.Selections {
		selections[id] = slices.Clone(picks)
	}

	v := View{
		ActiveTeam: s.ActiveTeam,
		Phase:      s.Phase,
		Round:      s.Round,
		Board:      board,
		TeamData: map[Team]TeamStatus{
			TeamOne: {RemainingCards: s.Remaining(TeamOne)},
			TeamTwo: {RemainingCards: s.Remaining(TeamTwo)},
		},
		Selections: selections,
		GameOver:   s.Phase == PhaseGameOver,
		Winner:     s.Winner,
	}
	if s.ActiveClue != nil {
		clue := *s.ActiveClue
		v.ActiveClue = &clue
	}
	return v
}
