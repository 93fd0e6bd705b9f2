package league

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoTeamFixture() ([]Match, []TeamRound) {
	matches := []Match{
		{Round: 1, HomeTeam: "A", AwayTeam: "B", HomeWin: true, Draw: false, Date: "10/08/2023 - 15:00"},
	}
	rows := []TeamRound{
		{TeamID: "A", Round: 1},
		{TeamID: "B", Round: 1},
	}
	return matches, rows
}

func TestMatchIndexLookup(t *testing.T) {
	matches := []Match{
		{Round: 1, HomeTeam: "A", AwayTeam: "B"},
		{Round: 1, HomeTeam: "C", AwayTeam: "A"},
		{Round: 2, HomeTeam: "D", AwayTeam: "D"},
		{Round: 2, HomeTeam: "B", AwayTeam: "C"},
	}
	ix := NewMatchIndex(matches)
	assert.Equal(t, 4, ix.Len())

	tests := []struct {
		name     string
		round    int
		team     string
		opponent string
		fixtures int
	}{
		{name: "single fixture", round: 2, team: "C", opponent: "B"},
		{name: "team in two fixtures", round: 1, team: "A", fixtures: 2},
		{name: "team without fixture", round: 3, team: "A", fixtures: 0},
		{name: "team on both sides", round: 2, team: "D", fixtures: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ix.Lookup(tt.round, tt.team)
			if tt.opponent != "" {
				require.NoError(t, err)
				assert.Equal(t, tt.opponent, m.Opponent(tt.team))
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrLookupCardinality))
			var lerr *LookupError
			require.True(t, errors.As(err, &lerr))
			assert.Equal(t, tt.fixtures, lerr.Fixtures)
			assert.Equal(t, tt.round, lerr.Round)
			assert.Equal(t, tt.team, lerr.TeamID)
		})
	}
}

func TestApplyGetOpponent(t *testing.T) {
	matches, rows := twoTeamFixture()
	require.NoError(t, ApplyGetOpponent(rows, NewMatchIndex(matches)))
	assert.Equal(t, "B", rows[0].OpponentID)
	assert.Equal(t, "A", rows[1].OpponentID)
}

func TestApplyGetOpponentMalformed(t *testing.T) {
	tests := []struct {
		name    string
		matches []Match
	}{
		{
			name:    "no fixture for the round",
			matches: []Match{{Round: 2, HomeTeam: "A", AwayTeam: "B"}},
		},
		{
			name: "team listed twice in the round",
			matches: []Match{
				{Round: 1, HomeTeam: "A", AwayTeam: "B"},
				{Round: 1, HomeTeam: "C", AwayTeam: "A"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []TeamRound{{TeamID: "A", Round: 1}}
			err := ApplyGetOpponent(rows, NewMatchIndex(tt.matches))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrLookupCardinality)
			assert.Empty(t, rows[0].OpponentID)
		})
	}
}

func TestApplyCheckHome(t *testing.T) {
	matches, rows := twoTeamFixture()
	require.NoError(t, ApplyCheckHome(rows, NewMatchIndex(matches)))
	assert.True(t, rows[0].WasHomeTeam)
	assert.False(t, rows[1].WasHomeTeam)

	missing := []TeamRound{{TeamID: "Z", Round: 1}}
	assert.ErrorIs(t, ApplyCheckHome(missing, NewMatchIndex(matches)), ErrLookupCardinality)
}

func TestApplyWinnerCheck(t *testing.T) {
	tests := []struct {
		name     string
		homeWin  bool
		draw     bool
		homeWon  bool
		awayWon  bool
		homeDraw bool
	}{
		{name: "home win", homeWin: true, homeWon: true},
		{name: "away win", homeWin: false, awayWon: true},
		{name: "draw", draw: true, homeDraw: true},
		{name: "draw wins over home flag", homeWin: true, draw: true, homeDraw: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := []Match{{Round: 1, HomeTeam: "A", AwayTeam: "B", HomeWin: tt.homeWin, Draw: tt.draw}}
			rows := []TeamRound{{TeamID: "A", Round: 1}, {TeamID: "B", Round: 1}}
			ix := NewMatchIndex(matches)

			require.NoError(t, ApplyCheckHome(rows, ix))
			require.NoError(t, ApplyCheckDraw(rows, ix))
			require.NoError(t, ApplyWinnerCheck(rows, ix))

			assert.Equal(t, tt.homeWon, rows[0].HasWon)
			assert.Equal(t, tt.awayWon, rows[1].HasWon)
			assert.Equal(t, tt.homeDraw, rows[0].WasDraw)
			assert.Equal(t, tt.homeDraw, rows[1].WasDraw)
		})
	}
}

func TestApplyMatchPoints(t *testing.T) {
	rows := []TeamRound{
		{TeamID: "A", HasWon: true},
		{TeamID: "B", WasDraw: true},
		{TeamID: "C"},
	}
	ApplyMatchPoints(rows)
	assert.Equal(t, 3, rows[0].MatchPoints)
	assert.Equal(t, 1, rows[1].MatchPoints)
	assert.Equal(t, 0, rows[2].MatchPoints)
}

func TestApplyChampionshipScore(t *testing.T) {
	// Out of round order on purpose.
	rows := []TeamRound{
		{TeamID: "A", Round: 3, MatchPoints: 1},
		{TeamID: "B", Round: 1, MatchPoints: 0},
		{TeamID: "A", Round: 1, MatchPoints: 3},
		{TeamID: "B", Round: 2, MatchPoints: 3},
		{TeamID: "A", Round: 2, MatchPoints: 0},
		{TeamID: "B", Round: 3, MatchPoints: 1},
	}
	ApplyChampionshipScore(rows)

	want := map[string][]int{"A": {3, 3, 4}, "B": {0, 3, 4}}
	for _, r := range rows {
		assert.Equal(t, want[r.TeamID][r.Round-1], r.ChampionshipScore, "team %s round %d", r.TeamID, r.Round)
	}
}

func TestCalculateChampionshipPositionTieBreak(t *testing.T) {
	rows := []TeamRound{
		{TeamID: "C", Round: 1, ChampionshipScore: 1},
		{TeamID: "B", Round: 1, ChampionshipScore: 1},
		{TeamID: "D", Round: 1, ChampionshipScore: 3},
		{TeamID: "A", Round: 1, ChampionshipScore: 0},
		{TeamID: "A", Round: 2, ChampionshipScore: 3},
		{TeamID: "B", Round: 2, ChampionshipScore: 3},
	}
	CalculateChampionshipPosition(rows)

	got := map[string]int{}
	for _, r := range rows {
		if r.Round == 1 {
			got[r.TeamID] = r.ChampionshipPosition
		}
	}
	assert.Equal(t, map[string]int{"D": 1, "B": 2, "C": 3, "A": 4}, got)
	assert.Equal(t, 1, rows[4].ChampionshipPosition)
	assert.Equal(t, 2, rows[5].ChampionshipPosition)
}

func TestProcessDateColumns(t *testing.T) {
	matches, rows := twoTeamFixture()
	require.NoError(t, ProcessDateColumns(rows, NewMatchIndex(matches), "", nil))

	want := time.Date(2023, time.August, 10, 15, 0, 0, 0, time.UTC)
	for _, r := range rows {
		assert.True(t, want.Equal(r.Date))
		assert.Equal(t, int64(1691679600), r.Timestamp)
		assert.Equal(t, 3, r.WeekDay)
	}
}

func TestProcessDateColumnsLocation(t *testing.T) {
	matches, rows := twoTeamFixture()
	loc := time.FixedZone("BRT", -3*60*60)
	require.NoError(t, ProcessDateColumns(rows, NewMatchIndex(matches), DefaultDateLayout, loc))
	assert.Equal(t, int64(1691679600+3*60*60), rows[0].Timestamp)
}

func TestProcessDateColumnsBadFormat(t *testing.T) {
	matches, rows := twoTeamFixture()
	matches[0].Date = "2023-08-10 15:00"

	err := ProcessDateColumns(rows, NewMatchIndex(matches), DefaultDateLayout, time.UTC)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDateFormat)

	var derr *DateError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "2023-08-10 15:00", derr.Value)
	var perr *time.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, 0, isoWeekday(time.Monday))
	assert.Equal(t, 5, isoWeekday(time.Saturday))
	assert.Equal(t, 6, isoWeekday(time.Sunday))
}

func TestPrintStandings(t *testing.T) {
	table := []TeamRound{
		{TeamID: "A", OpponentID: "B", WasHomeTeam: true, HasWon: true, MatchPoints: 3, ChampionshipScore: 3, ChampionshipPosition: 1},
		{TeamID: "B", OpponentID: "A", MatchPoints: 0, ChampionshipScore: 0, ChampionshipPosition: 2},
	}
	var buf bytes.Buffer
	PrintStandings(&buf, "Round 1", table)

	out := buf.String()
	assert.Contains(t, out, "Round 1\n")
	assert.Contains(t, out, "  1 A          B            H   W   3     3")
	assert.Contains(t, out, "  2 B          A            A   L   0     0")
}
