package league

type fixtureKey struct {
	round int
	team  string
}

// MatchIndex maps (round, team) to the fixtures that team plays in.
type MatchIndex struct {
	matches []Match
	byTeam  map[fixtureKey][]int
}

// NewMatchIndex indexes every fixture under both participants. Duplicate
// entries are kept so that Lookup can report them; a team listed on both
// sides of one fixture counts twice.
func NewMatchIndex(matches []Match) *MatchIndex {
	ix := &MatchIndex{
		matches: matches,
		byTeam:  make(map[fixtureKey][]int, len(matches)*2),
	}
	for i, m := range matches {
		home := fixtureKey{round: m.Round, team: m.HomeTeam}
		away := fixtureKey{round: m.Round, team: m.AwayTeam}
		ix.byTeam[home] = append(ix.byTeam[home], i)
		ix.byTeam[away] = append(ix.byTeam[away], i)
	}
	return ix
}

// Lookup returns the single fixture the team played in the round.
func (ix *MatchIndex) Lookup(round int, team string) (*Match, error) {
	found := ix.byTeam[fixtureKey{round: round, team: team}]
	if len(found) != 1 {
		return nil, &LookupError{Round: round, TeamID: team, Fixtures: len(found)}
	}
	return &ix.matches[found[0]], nil
}

// Len is the number of indexed fixtures.
func (ix *MatchIndex) Len() int { return len(ix.matches) }

// Opponent returns the other participant of the fixture.
func (m *Match) Opponent(team string) string {
	if m.HomeTeam == team {
		return m.AwayTeam
	}
	return m.HomeTeam
}
