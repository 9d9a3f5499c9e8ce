package engine

import (
	"errors"
	"slices"
	"strings"
)

var ErrInvalidTransition = errors.New("invalid transition")
var ErrInvalidArgument = errors.New("invalid argument")
var ErrCardNotFound = errors.New("card not found")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Team string

const (
	TeamOne Team = "team1"
	TeamTwo Team = "team2"
)

func (t Team) Opponent() Team {
	if t == TeamOne {
		return TeamTwo
	}
	return TeamOne
}

func ParseTeam(team string) (Team, bool) {
	switch team {
	case "team1":
		return TeamOne, true
	case "team2":
		return TeamTwo, true
	default:
		return "", false
	}
}

type Phase string

const (
	PhaseClueEntry Phase = "clue_entry"
	PhaseGuessing  Phase = "guessing"
	PhaseReveal    Phase = "reveal"
	PhaseTurnEnd   Phase = "turn_end"
	PhaseGameOver  Phase = "game_over"
)

type OwnerType string

const (
	OwnerTeamOne OwnerType = "team1"
	OwnerTeamTwo OwnerType = "team2"
	OwnerNeutral OwnerType = "neutral"
	OwnerPenalty OwnerType = "penalty"
)

// OwnedBy reports whether cards of this owner type count toward the team's
// remaining total.
func (o OwnerType) OwnedBy(t Team) bool {
	return (o == OwnerTeamOne && t == TeamOne) || (o == OwnerTeamTwo && t == TeamTwo)
}

type Card struct {
	ID       int
	Word     string
	Owner    OwnerType
	Revealed bool
}

type Clue struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
	Team  Team   `json:"team"`
}

// State is one game in progress. It is a value: Apply never mutates its
// input, it returns a fresh State so snapshots handed out earlier stay valid.
type State struct {
	ActiveTeam Team
	Phase      Phase
	Round      int
	Board      []Card
	ActiveClue *Clue
	Selections map[string][]int // participant id -> tentatively marked card ids
	Winner     Team
}

func NewState(board []Card) State {
	return State{
		ActiveTeam: TeamOne,
		Phase:      PhaseClueEntry,
		Round:      1,
		Board:      board,
		Selections: map[string][]int{},
	}
}

func (s State) clone() State {
	ns := s
	ns.Board = slices.Clone(s.Board)
	ns.Selections = make(map[string][]int, len(s.Selections))
	for id, picks := range s.Selections {
		ns.Selections[id] = slices.Clone(picks)
	}
	if s.ActiveClue != nil {
		clue := *s.ActiveClue
		ns.ActiveClue = &clue
	}
	return ns
}

// Remaining counts the team's unrevealed cards.
func (s State) Remaining(t Team) int {
	n := 0
	for _, c := range s.Board {
		if !c.Revealed && c.Owner.OwnedBy(t) {
			n++
		}
	}
	return n
}

func (s State) RemainingCards() map[Team]int {
	return map[Team]int{
		TeamOne: s.Remaining(TeamOne),
		TeamTwo: s.Remaining(TeamTwo),
	}
}

func (s State) card(id int) (int, bool) {
	for i, c := range s.Board {
		if c.ID == id {
			return i, true
		}
	}
	return 0, false
}

type CommandType string

const (
	CmdSubmitClue      CommandType = "SubmitClue"
	CmdSubmitGuess     CommandType = "SubmitGuess"
	CmdToggleSelection CommandType = "ToggleSelection"
	CmdEndTurn         CommandType = "EndTurn"
)

// Command carries the caller's roster facts (team, lead flag) so the engine
// stays roster-free. The coordinator fills them in before calling Apply.
type Command struct {
	Type          CommandType
	ParticipantID string
	Team          Team
	TeamLead      bool
	Word          string
	Count         int
	CardID        int
	CardIDs       []int
}

type EventType string

const (
	EvtClueSubmitted    EventType = "ClueSubmitted"
	EvtCardsRevealed    EventType = "CardsRevealed"
	EvtPenaltyTriggered EventType = "PenaltyTriggered"
	EvtGameWon          EventType = "GameWon"
	EvtTurnEnded        EventType = "TurnEnded"
	EvtSelectionChanged EventType = "SelectionChanged"
)

type Event struct {
	Type    EventType
	Team    Team
	CardIDs []int
}

func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdSubmitClue:
		if s.Phase != PhaseClueEntry || cmd.Team != s.ActiveTeam || !cmd.TeamLead {
			return nil, s, ErrInvalidTransition
		}
		if s.ActiveClue != nil {
			return nil, s, ErrInvalidTransition
		}
		word := strings.TrimSpace(cmd.Word)
		if word == "" || cmd.Count < 1 {
			return nil, s, ErrInvalidArgument
		}
		remaining := s.Remaining(s.ActiveTeam)
		if remaining == 0 {
			return nil, s, ErrInvalidTransition
		}
		if cmd.Count > remaining {
			return nil, s, ErrInvalidArgument
		}

		ns := s.clone()
		ns.ActiveClue = &Clue{Word: word, Count: cmd.Count, Team: cmd.Team}
		ns.Phase = PhaseGuessing
		return []Event{{Type: EvtClueSubmitted, Team: cmd.Team}}, ns, nil

	case CmdSubmitGuess:
		if s.Phase != PhaseGuessing || s.ActiveClue == nil {
			return nil, s, ErrInvalidTransition
		}
		if cmd.Team != s.ActiveTeam || cmd.TeamLead {
			return nil, s, ErrInvalidTransition
		}

		// Unknown and already-revealed ids are skipped rather than rejected.
		guessed := make([]int, 0, len(cmd.CardIDs))
		for _, id := range cmd.CardIDs {
			if slices.Contains(guessed, id) {
				continue
			}
			if i, ok := s.card(id); ok && !s.Board[i].Revealed {
				guessed = append(guessed, id)
			}
		}
		if len(guessed) == 0 || len(guessed) > s.ActiveClue.Count {
			return nil, s, ErrInvalidArgument
		}

		ns := s.clone()
		events := []Event{{Type: EvtCardsRevealed, Team: cmd.Team, CardIDs: guessed}}
		penalty := false
		for _, id := range guessed {
			i, _ := ns.card(id)
			ns.Board[i].Revealed = true
			if ns.Board[i].Owner == OwnerPenalty {
				penalty = true
			}
		}
		if penalty {
			events = append(events, Event{Type: EvtPenaltyTriggered, Team: cmd.Team})
		}
		// The active team is checked first: if one guess empties both sides
		// somehow, the guessing team takes the win.
		for _, t := range []Team{ns.ActiveTeam, ns.ActiveTeam.Opponent()} {
			if ns.Remaining(t) == 0 {
				ns.Winner = t
				events = append(events, Event{Type: EvtGameWon, Team: t})
				break
			}
		}
		ns.Phase = PhaseReveal
		return events, ns, nil

	case CmdToggleSelection:
		if s.Phase != PhaseGuessing || cmd.Team != s.ActiveTeam || cmd.TeamLead {
			return nil, s, ErrInvalidTransition
		}
		i, ok := s.card(cmd.CardID)
		if !ok {
			return nil, s, ErrCardNotFound
		}
		if s.Board[i].Revealed {
			return nil, s, ErrInvalidTransition
		}

		ns := s.clone()
		picks := ns.Selections[cmd.ParticipantID]
		if j := slices.Index(picks, cmd.CardID); j >= 0 {
			picks = slices.Delete(picks, j, j+1)
		} else {
			picks = append(picks, cmd.CardID)
		}
		if len(picks) == 0 {
			delete(ns.Selections, cmd.ParticipantID)
		} else {
			ns.Selections[cmd.ParticipantID] = picks
		}
		return []Event{{Type: EvtSelectionChanged, Team: cmd.Team}}, ns, nil

	case CmdEndTurn:
		if s.Phase != PhaseReveal {
			return nil, s, ErrInvalidTransition
		}
		ns := s.clone()
		ns.Phase = PhaseTurnEnd
		ns.ActiveClue = nil
		ns.Selections = map[string][]int{}
		if ns.Winner != "" {
			ns.Phase = PhaseGameOver
			return []Event{{Type: EvtTurnEnded, Team: ns.ActiveTeam}}, ns, nil
		}
		ns.ActiveTeam = ns.ActiveTeam.Opponent()
		ns.Round++
		ns.Phase = PhaseClueEntry
		return []Event{{Type: EvtTurnEnded, Team: ns.ActiveTeam}}, ns, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// DropSelections returns a state without the participant's tentative marks,
// for when they leave mid-guess. The receiver is untouched.
func (s State) DropSelections(participantID string) State {
	if _, ok := s.Selections[participantID]; !ok {
		return s
	}
	ns := s.clone()
	delete(ns.Selections, participantID)
	return ns
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
