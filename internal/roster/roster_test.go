package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breach-party/backend/internal/engine"
)

func TestAdd_FirstJoinerIsHost(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("a", "Alice"))
	require.NoError(t, r.Add("b", "Bob"))

	a, ok := r.Get("a")
	require.True(t, ok)
	assert.True(t, a.Host)
	assert.Equal(t, engine.Team(""), a.Team)
	assert.False(t, a.Ready)
	assert.False(t, a.TeamLead)

	b, _ := r.Get("b")
	assert.False(t, b.Host)
}

func TestAdd_Validation(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("a", "Alice"))
	assert.ErrorIs(t, r.Add("a", "Alice Again"), ErrDuplicateParticipant)
	assert.ErrorIs(t, r.Add("b", "   "), ErrInvalidArgument)
	assert.ErrorIs(t, r.Add("", "Nameless"), ErrInvalidArgument)
}

func TestRemove_HostSuccession(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("a", "Alice"))
	require.NoError(t, r.Add("b", "Bob"))
	require.NoError(t, r.Add("c", "Carol"))

	require.NoError(t, r.Remove("a"))

	b, _ := r.Get("b")
	assert.True(t, b.Host, "earliest remaining joiner takes the host flag")
	c, _ := r.Get("c")
	assert.False(t, c.Host)

	assert.ErrorIs(t, r.Remove("zz"), ErrNotFound)
}

func TestRemove_LeadLeavesSlotVacant(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("a", "Alice"))
	require.NoError(t, r.Add("b", "Bob"))
	require.NoError(t, r.SetTeam("a", engine.TeamOne))
	require.NoError(t, r.SetTeam("b", engine.TeamOne))
	require.NoError(t, r.SetTeamLead("a", true))

	require.NoError(t, r.Remove("a"))

	_, taken := r.TeamLeadOf(engine.TeamOne)
	assert.False(t, taken, "no auto-promotion into the vacant slot")
}

func TestSetTeam_ClearsLeadAndReady(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("a", "Alice"))
	require.NoError(t, r.SetTeam("a", engine.TeamOne))
	require.NoError(t, r.SetTeamLead("a", true))
	require.NoError(t, r.SetReady("a", true))

	require.NoError(t, r.SetTeam("a", engine.TeamTwo))

	a, _ := r.Get("a")
	assert.Equal(t, engine.TeamTwo, a.Team)
	assert.False(t, a.TeamLead, "a lead who switches teams loses leadership")
	assert.False(t, a.Ready)
}

func TestSetDisplayName(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("a", "Alice"))

	require.NoError(t, r.SetDisplayName("a", "  Alicia  "))
	a, _ := r.Get("a")
	assert.Equal(t, "Alicia", a.DisplayName)

	assert.ErrorIs(t, r.SetDisplayName("a", "   "), ErrInvalidArgument)
	assert.ErrorIs(t, r.SetDisplayName("zz", "X"), ErrNotFound)
}

func TestToggleReady(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("a", "Alice"))

	ready, err := r.ToggleReady("a")
	require.NoError(t, err)
	assert.True(t, ready)

	ready, err = r.ToggleReady("a")
	require.NoError(t, err)
	assert.False(t, ready)

	_, err = r.ToggleReady("zz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAllReadyAndReset(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("a", "Alice"))
	require.NoError(t, r.Add("b", "Bob"))
	require.NoError(t, r.SetReady("a", true))
	assert.False(t, r.AllReady())

	require.NoError(t, r.SetReady("b", true))
	assert.True(t, r.AllReady())

	r.ResetReady()
	assert.False(t, r.AllReady())
}

func TestAutoTeam_BalancesTeams(t *testing.T) {
	r := New()
	assert.Equal(t, engine.TeamOne, r.AutoTeam(), "empty roster defaults to team one")

	require.NoError(t, r.Add("a", "Alice"))
	require.NoError(t, r.SetTeam("a", engine.TeamOne))
	assert.Equal(t, engine.TeamTwo, r.AutoTeam())

	require.NoError(t, r.Add("b", "Bob"))
	require.NoError(t, r.SetTeam("b", engine.TeamTwo))
	assert.Equal(t, engine.TeamOne, r.AutoTeam(), "ties go to team one")
}

func TestByTeamAndLeadQueries(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("a", "Alice"))
	require.NoError(t, r.Add("b", "Bob"))
	require.NoError(t, r.Add("c", "Carol"))
	require.NoError(t, r.SetTeam("a", engine.TeamOne))
	require.NoError(t, r.SetTeam("b", engine.TeamOne))
	require.NoError(t, r.SetTeam("c", engine.TeamTwo))
	require.NoError(t, r.SetTeamLead("b", true))

	assert.Len(t, r.ByTeam(engine.TeamOne), 2)
	assert.Len(t, r.ByTeam(engine.TeamTwo), 1)

	lead, ok := r.TeamLeadOf(engine.TeamOne)
	require.True(t, ok)
	assert.Equal(t, "b", lead.ID)

	_, ok = r.TeamLeadOf(engine.TeamTwo)
	assert.False(t, ok)
}
