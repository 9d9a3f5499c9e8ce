package engine

import (
	"fmt"
	"math/rand"
)

const (
	TeamOneCardCount = 9
	TeamTwoCardCount = 8
	PenaltyCardCount = 1
	NeutralCardCount = 7
	BoardSize        = TeamOneCardCount + TeamTwoCardCount + PenaltyCardCount + NeutralCardCount
)

// NewBoard deals a full board from the given word deck: words are sampled
// without replacement, owner types laid out in the fixed distribution, then
// the whole board is shuffled. Card ids are stable for the life of the board.
func NewBoard(words []string) ([]Card, error) {
	if len(words) < BoardSize {
		return nil, fmt.Errorf("%w: deck has %d words, need %d", ErrInvalidArgument, len(words), BoardSize)
	}

	owners := make([]OwnerType, 0, BoardSize)
	for i := 0; i < TeamOneCardCount; i++ {
		owners = append(owners, OwnerTeamOne)
	}
	for i := 0; i < TeamTwoCardCount; i++ {
		owners = append(owners, OwnerTeamTwo)
	}
	for i := 0; i < PenaltyCardCount; i++ {
		owners = append(owners, OwnerPenalty)
	}
	for i := 0; i < NeutralCardCount; i++ {
		owners = append(owners, OwnerNeutral)
	}

	sample := rand.Perm(len(words))
	cards := make([]Card, BoardSize)
	for i, owner := range owners {
		cards[i] = Card{ID: i + 1, Word: words[sample[i]], Owner: owner}
	}
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards, nil
}
