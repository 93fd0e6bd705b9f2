// Package dataset reads and writes the league tables as CSV.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/utakatalp/league-stats/internal/league"
)

// DateFormat is how the enriched date column is written.
const DateFormat = "2006-01-02 15:04:05"

var matchColumns = []string{"round", "home_team", "away_team", "home_win", "draw", "date"}

var teamColumns = []string{"id_team", "round"}

// EnrichedColumns is the header written by WriteTeamRounds.
var EnrichedColumns = []string{
	"id_team", "round", "id_opponent_team", "was_home_team", "was_draw", "has_won",
	"match_points", "championship_score", "championship_position",
	"date", "timestamp", "week_day",
}

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing column")

// record gives access to a CSV row by column name.
type record struct {
	line   int
	fields []string
	cols   map[string]int
}

func (r record) str(name string) string {
	return strings.TrimSpace(r.fields[r.cols[name]])
}

func (r record) atoi(name string) (int, error) {
	v, err := strconv.Atoi(r.str(name))
	if err != nil {
		return 0, fmt.Errorf("line %d column %s: %w", r.line, name, err)
	}
	return v, nil
}

func (r record) parseBool(name string) (bool, error) {
	v, err := strconv.ParseBool(r.str(name))
	if err != nil {
		return false, fmt.Errorf("line %d column %s: %w", r.line, name, err)
	}
	return v, nil
}

// readTable reads the header, checks the required columns and calls fn for
// every data row.
func readTable(rd io.Reader, required []string, fn func(record) error) error {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	line := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("reading line %d: %w", line, err)
		}
		if len(fields) < len(header) {
			return fmt.Errorf("line %d: %d fields, want %d", line, len(fields), len(header))
		}
		if err := fn(record{line: line, fields: fields, cols: cols}); err != nil {
			return err
		}
	}
}

// ReadMatches parses a match table. Columns are located by header name and
// extra columns are ignored.
func ReadMatches(rd io.Reader) ([]league.Match, error) {
	var matches []league.Match
	err := readTable(rd, matchColumns, func(r record) error {
		round, err := r.atoi("round")
		if err != nil {
			return err
		}
		homeWin, err := r.parseBool("home_win")
		if err != nil {
			return err
		}
		draw, err := r.parseBool("draw")
		if err != nil {
			return err
		}
		matches = append(matches, league.Match{
			Round:    round,
			HomeTeam: r.str("home_team"),
			AwayTeam: r.str("away_team"),
			HomeWin:  homeWin,
			Draw:     draw,
			Date:     r.str("date"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading matches: %w", err)
	}
	return matches, nil
}

// ReadTeamRounds parses the bare team-round table (id_team, round).
func ReadTeamRounds(rd io.Reader) ([]league.TeamRound, error) {
	var rows []league.TeamRound
	err := readTable(rd, teamColumns, func(r record) error {
		round, err := r.atoi("round")
		if err != nil {
			return err
		}
		rows = append(rows, league.TeamRound{TeamID: r.str("id_team"), Round: round})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading team rounds: %w", err)
	}
	return rows, nil
}

// WriteTeamRounds writes the enriched team-round table with EnrichedColumns.
func WriteTeamRounds(w io.Writer, rows []league.TeamRound) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EnrichedColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rows {
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format(DateFormat)
		}
		rec := []string{
			r.TeamID,
			strconv.Itoa(r.Round),
			r.OpponentID,
			strconv.FormatBool(r.WasHomeTeam),
			strconv.FormatBool(r.WasDraw),
			strconv.FormatBool(r.HasWon),
			strconv.Itoa(r.MatchPoints),
			strconv.Itoa(r.ChampionshipScore),
			strconv.Itoa(r.ChampionshipPosition),
			date,
			strconv.FormatInt(r.Timestamp, 10),
			strconv.Itoa(r.WeekDay),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing team %s round %d: %w", r.TeamID, r.Round, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
