package league

import (
	"errors"
	"fmt"
	"time"
)

// Points awarded per match outcome.
const (
	WinPoints  = 3
	DrawPoints = 1
	LossPoints = 0
)

// Match represents a fixture between two teams in a given round.
type Match struct {
	Round    int    `json:"round"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	HomeWin  bool   `json:"home_win"`
	Draw     bool   `json:"draw"`
	Date     string `json:"date"`
}

// TeamRound holds one team's row for one round. Everything after Round is
// filled in by the enrichment steps.
type TeamRound struct {
	TeamID               string    `json:"id_team"`
	Round                int       `json:"round"`
	OpponentID           string    `json:"id_opponent_team"`
	WasHomeTeam          bool      `json:"was_home_team"`
	WasDraw              bool      `json:"was_draw"`
	HasWon               bool      `json:"has_won"`
	MatchPoints          int       `json:"match_points"`
	ChampionshipScore    int       `json:"championship_score"`
	ChampionshipPosition int       `json:"championship_position"`
	Date                 time.Time `json:"date"`
	Timestamp            int64     `json:"timestamp"`
	WeekDay              int       `json:"week_day"`
}

var (
	// ErrLookupCardinality is returned when a (round, team) pair does not
	// resolve to exactly one fixture.
	ErrLookupCardinality = errors.New("fixture lookup cardinality")
	// ErrDateFormat is returned when a match date does not match the layout.
	ErrDateFormat = errors.New("match date format")
	// ErrRoundOutOfRange is returned when a row lies outside the season.
	ErrRoundOutOfRange = errors.New("round out of range")
)

// LookupError reports how many fixtures were found for a team in a round.
type LookupError struct {
	Round    int
	TeamID   string
	Fixtures int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("round %d team %q: found %d fixtures, want 1", e.Round, e.TeamID, e.Fixtures)
}

func (e *LookupError) Is(target error) bool { return target == ErrLookupCardinality }

// DateError wraps the parse failure of a fixture date.
type DateError struct {
	Round  int
	TeamID string
	Value  string
	Err    error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("round %d team %q: parsing date %q: %v", e.Round, e.TeamID, e.Value, e.Err)
}

func (e *DateError) Is(target error) bool { return target == ErrDateFormat }

func (e *DateError) Unwrap() error { return e.Err }
