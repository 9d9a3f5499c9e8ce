package engine

import "testing"

func TestViewFor_RoleFiltering(t *testing.T) {
	s := guessingState(t, 2)
	_, s, err := Apply(s, Command{Type: CmdSubmitGuess, Team: TeamOne, CardIDs: []int{1, 10}})
	if err != nil {
		t.Fatalf("guess: %v", err)
	}

	lead := s.ViewFor(true)
	for _, c := range lead.Board {
		if c.Owner == "" {
			t.Fatalf("lead view hides owner of card %d", c.ID)
		}
	}

	member := s.ViewFor(false)
	for _, c := range member.Board {
		if c.Revealed && c.Owner == "" {
			t.Fatalf("member view hides owner of revealed card %d", c.ID)
		}
		if !c.Revealed && c.Owner != "" {
			t.Fatalf("member view leaks owner of unrevealed card %d", c.ID)
		}
	}

	if member.TeamData[TeamOne].RemainingCards != TeamOneCardCount-1 {
		t.Fatalf("want %d remaining, got %d", TeamOneCardCount-1, member.TeamData[TeamOne].RemainingCards)
	}
	if member.ActiveClue == nil || member.ActiveClue.Word != "network" {
		t.Fatalf("clue missing from view: %+v", member.ActiveClue)
	}
}

func TestViewFor_SharesNoMemory(t *testing.T) {
	s := guessingState(t, 2)
	_, s, _ = Apply(s, Command{Type: CmdToggleSelection, Team: TeamOne, ParticipantID: "p1", CardID: 4})

	v := s.ViewFor(false)
	v.Board[0].Revealed = true
	v.Selections["p1"][0] = 99
	v.ActiveClue.Word = "tampered"

	if s.Board[0].Revealed {
		t.Fatalf("view mutation reached the state board")
	}
	if s.Selections["p1"][0] != 4 {
		t.Fatalf("view mutation reached the selection map")
	}
	if s.ActiveClue.Word != "network" {
		t.Fatalf("view mutation reached the clue")
	}
}
