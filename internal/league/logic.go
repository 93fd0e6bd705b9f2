// internal/league/logic.go
package league

import (
	"sort"
	"time"
)

// DefaultDateLayout matches dates like "10/08/2023 - 15:00" (day/month/year).
const DefaultDateLayout = "2/1/2006 - 15:04"

// ApplyGetOpponent sets OpponentID from the team's fixture in each round.
func ApplyGetOpponent(rows []TeamRound, ix *MatchIndex) error {
	for i := range rows {
		m, err := ix.Lookup(rows[i].Round, rows[i].TeamID)
		if err != nil {
			return err
		}
		rows[i].OpponentID = m.Opponent(rows[i].TeamID)
	}
	return nil
}

// ApplyCheckHome sets WasHomeTeam when the team is listed as the home side.
func ApplyCheckHome(rows []TeamRound, ix *MatchIndex) error {
	for i := range rows {
		m, err := ix.Lookup(rows[i].Round, rows[i].TeamID)
		if err != nil {
			return err
		}
		rows[i].WasHomeTeam = m.HomeTeam == rows[i].TeamID
	}
	return nil
}

// ApplyCheckDraw copies the fixture's draw flag into WasDraw.
func ApplyCheckDraw(rows []TeamRound, ix *MatchIndex) error {
	for i := range rows {
		m, err := ix.Lookup(rows[i].Round, rows[i].TeamID)
		if err != nil {
			return err
		}
		rows[i].WasDraw = m.Draw
	}
	return nil
}

// ApplyWinnerCheck sets HasWon. It reads WasHomeTeam, so ApplyCheckHome must
// run first.
func ApplyWinnerCheck(rows []TeamRound, ix *MatchIndex) error {
	for i := range rows {
		m, err := ix.Lookup(rows[i].Round, rows[i].TeamID)
		if err != nil {
			return err
		}
		if m.Draw {
			rows[i].HasWon = false
			continue
		}
		rows[i].HasWon = rows[i].WasHomeTeam == m.HomeWin
	}
	return nil
}

// ApplyMatchPoints awards 3 points for a win, 1 for a draw, 0 otherwise.
func ApplyMatchPoints(rows []TeamRound) {
	for i := range rows {
		switch {
		case rows[i].HasWon:
			rows[i].MatchPoints = WinPoints
		case rows[i].WasDraw:
			rows[i].MatchPoints = DrawPoints
		default:
			rows[i].MatchPoints = LossPoints
		}
	}
}

// ApplyChampionshipScore sets each row's running points total for its team,
// counting every row of that team up to and including the row's round.
func ApplyChampionshipScore(rows []TeamRound) {
	type played struct {
		round, points int
	}
	byTeam := make(map[string][]played)
	for _, r := range rows {
		byTeam[r.TeamID] = append(byTeam[r.TeamID], played{r.Round, r.MatchPoints})
	}

	// prefix[team][k] = points over the first k rounds in round order
	prefix := make(map[string][]int, len(byTeam))
	for team, games := range byTeam {
		sort.SliceStable(games, func(i, j int) bool { return games[i].round < games[j].round })
		sums := make([]int, len(games)+1)
		for k, g := range games {
			sums[k+1] = sums[k] + g.points
		}
		prefix[team] = sums
	}

	for i := range rows {
		games := byTeam[rows[i].TeamID]
		n := sort.Search(len(games), func(k int) bool { return games[k].round > rows[i].Round })
		rows[i].ChampionshipScore = prefix[rows[i].TeamID][n]
	}
}

// CalculateChampionshipPosition ranks the rows of every round by
// ChampionshipScore, highest first. Equal scores are ordered by TeamID.
func CalculateChampionshipPosition(rows []TeamRound) {
	byRound := make(map[int][]int)
	for i, r := range rows {
		byRound[r.Round] = append(byRound[r.Round], i)
	}

	for _, idx := range byRound {
		sort.Slice(idx, func(a, b int) bool {
			ra, rb := rows[idx[a]], rows[idx[b]]
			if ra.ChampionshipScore != rb.ChampionshipScore {
				return ra.ChampionshipScore > rb.ChampionshipScore
			}
			if ra.TeamID != rb.TeamID {
				return ra.TeamID < rb.TeamID
			}
			return idx[a] < idx[b]
		})
		for pos, i := range idx {
			rows[i].ChampionshipPosition = pos + 1
		}
	}
}

// ProcessDateColumns parses the fixture date of every row with layout in loc
// and fills Date, Timestamp (Unix seconds) and WeekDay (0=Monday..6=Sunday).
func ProcessDateColumns(rows []TeamRound, ix *MatchIndex, layout string, loc *time.Location) error {
	if layout == "" {
		layout = DefaultDateLayout
	}
	if loc == nil {
		loc = time.UTC
	}
	for i := range rows {
		m, err := ix.Lookup(rows[i].Round, rows[i].TeamID)
		if err != nil {
			return err
		}
		date, err := time.ParseInLocation(layout, m.Date, loc)
		if err != nil {
			return &DateError{Round: rows[i].Round, TeamID: rows[i].TeamID, Value: m.Date, Err: err}
		}
		rows[i].Date = date
		rows[i].Timestamp = date.Unix()
		rows[i].WeekDay = isoWeekday(date.Weekday())
	}
	return nil
}

// isoWeekday shifts time.Weekday (Sunday=0) so Monday is 0.
func isoWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}
