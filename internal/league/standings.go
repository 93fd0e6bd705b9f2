package league

import (
	"fmt"
	"io"
	"sort"
)

// Rounds returns the distinct rounds present in rows, ascending.
func Rounds(rows []TeamRound) []int {
	seen := make(map[int]struct{})
	var rounds []int
	for _, r := range rows {
		if _, ok := seen[r.Round]; ok {
			continue
		}
		seen[r.Round] = struct{}{}
		rounds = append(rounds, r.Round)
	}
	sort.Ints(rounds)
	return rounds
}

// Standings returns a copy of the rows of one round ordered by position.
func Standings(rows []TeamRound, round int) []TeamRound {
	var table []TeamRound
	for _, r := range rows {
		if r.Round == round {
			table = append(table, r)
		}
	}
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].ChampionshipPosition < table[j].ChampionshipPosition
	})
	return table
}

// TeamHistory returns a copy of one team's rows ordered by round.
func TeamHistory(rows []TeamRound, team string) []TeamRound {
	var history []TeamRound
	for _, r := range rows {
		if r.TeamID == team {
			history = append(history, r)
		}
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].Round < history[j].Round })
	return history
}

func PrintStandings(w io.Writer, label string, table []TeamRound) {
	fmt.Fprintln(w, label)
	fmt.Fprintf(w, "%3s %-10s %-10s %3s %3s %3s %5s",
		"Pos", "Team", "Opponent", "H/A", "Res", "Pts", "Score")
	for _, entry := range table {
		fmt.Fprintf(w, "\n%3d %-10s %-10s %3s %3s %3d %5d",
			entry.ChampionshipPosition,
			entry.TeamID,
			entry.OpponentID,
			venue(entry),
			result(entry),
			entry.MatchPoints,
			entry.ChampionshipScore,
		)
	}
	fmt.Fprintln(w)
}

func venue(r TeamRound) string {
	if r.WasHomeTeam {
		return "H"
	}
	return "A"
}

func result(r TeamRound) string {
	switch {
	case r.HasWon:
		return "W"
	case r.WasDraw:
		return "D"
	default:
		return "L"
	}
}
