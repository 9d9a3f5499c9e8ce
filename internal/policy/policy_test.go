package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breach-party/backend/internal/engine"
	"github.com/breach-party/backend/internal/roster"
)

func fullLobby(t *testing.T) *roster.Roster {
	t.Helper()
	r := roster.New()
	for _, p := range []struct {
		id   string
		team engine.Team
		lead bool
	}{
		{"a", engine.TeamOne, true},
		{"b", engine.TeamOne, false},
		{"c", engine.TeamTwo, true},
		{"d", engine.TeamTwo, false},
	} {
		require.NoError(t, r.Add(p.id, p.id))
		require.NoError(t, r.SetTeam(p.id, p.team))
		if p.lead {
			require.NoError(t, r.SetTeamLead(p.id, true))
		}
		require.NoError(t, r.SetReady(p.id, true))
	}
	return r
}

func TestCanClaimLead(t *testing.T) {
	r := roster.New()
	require.NoError(t, r.Add("a", "Alice"))
	require.NoError(t, r.Add("b", "Bob"))

	assert.False(t, CanClaimLead(r, "a"), "no team yet")

	require.NoError(t, r.SetTeam("a", engine.TeamOne))
	require.NoError(t, r.SetTeam("b", engine.TeamOne))
	assert.True(t, CanClaimLead(r, "a"))

	require.NoError(t, r.SetTeamLead("a", true))
	assert.False(t, CanClaimLead(r, "b"), "slot taken")
	assert.True(t, CanClaimLead(r, "a"), "claiming your own slot is a no-op")

	assert.False(t, CanClaimLead(r, "zz"), "unknown participant")
}

func TestEvaluateStart_Met(t *testing.T) {
	criteria := EvaluateStart(fullLobby(t))
	assert.True(t, criteria.Met)
	assert.Empty(t, criteria.Violations)
}

func TestEvaluateStart_Violations(t *testing.T) {
	r := fullLobby(t)
	require.NoError(t, r.Remove("b"))             // team one down to 1 member, uneven
	require.NoError(t, r.SetTeamLead("c", false)) // team two lead vacant
	_, err := r.ToggleReady("d")
	require.NoError(t, err)

	criteria := EvaluateStart(r)
	assert.False(t, criteria.Met)
	assert.Len(t, criteria.Violations, 4, "size, lead, ready and imbalance each reported once")
}

func TestEvaluateStart_ImbalanceIsInformationalOnly(t *testing.T) {
	r := fullLobby(t)
	require.NoError(t, r.Add("e", "Eve"))
	require.NoError(t, r.SetTeam("e", engine.TeamOne))
	require.NoError(t, r.SetReady("e", true))

	criteria := EvaluateStart(r)
	assert.True(t, criteria.Met, "uneven teams alone never block the start")
	assert.Equal(t, []string{"teams are uneven"}, criteria.Violations)
}

func TestCanForceStart(t *testing.T) {
	r := roster.New()
	require.NoError(t, r.Add("host", "Host"))
	require.NoError(t, r.Add("guest", "Guest"))

	assert.True(t, CanForceStart(r, "host"), "the host may always force, criteria or not")
	assert.False(t, CanForceStart(r, "guest"))
	assert.False(t, CanForceStart(r, "zz"))
}
