package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/utakatalp/league-stats/internal/league"
)

// Store wraps a Postgres connection and provides methods to persist and retrieve league tables.
type Store struct {
	DB *sql.DB
}

// NewStore opens a Postgres connection using the given connection string.
func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// verify early
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS matches (
		    id        SERIAL  PRIMARY KEY,
		    round     INT     NOT NULL,
		    home_team TEXT    NOT NULL,
		    away_team TEXT    NOT NULL,
		    home_win  BOOLEAN NOT NULL DEFAULT FALSE,
		    draw      BOOLEAN NOT NULL DEFAULT FALSE,
		    date      TEXT    NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS team_rounds (
		    id_team               TEXT    NOT NULL,
		    round                 INT     NOT NULL,
		    id_opponent_team      TEXT,
		    was_home_team         BOOLEAN,
		    was_draw              BOOLEAN,
		    has_won               BOOLEAN,
		    match_points          INT,
		    championship_score    INT,
		    championship_position INT,
		    date                  TIMESTAMPTZ,
		    timestamp             BIGINT,
		    week_day              INT,
		    PRIMARY KEY (id_team, round)
		);`,
	}
	for _, q := range queries {
		if _, err := s.DB.Exec(q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// InsertMatches appends fixtures to the match table in one transaction.
func (s *Store) InsertMatches(matches []league.Match) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin InsertMatches tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
INSERT INTO matches (round, home_team, away_team, home_win, draw, date)
VALUES ($1, $2, $3, $4, $5, $6)
`
	for _, m := range matches {
		if _, err := tx.Exec(q, m.Round, m.HomeTeam, m.AwayTeam, m.HomeWin, m.Draw, m.Date); err != nil {
			return fmt.Errorf("inserting match %s vs %s round %d: %w", m.HomeTeam, m.AwayTeam, m.Round, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit InsertMatches tx: %w", err)
	}
	return nil
}

// InsertTeamRounds registers bare (team, round) rows, skipping existing ones.
func (s *Store) InsertTeamRounds(rows []league.TeamRound) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin InsertTeamRounds tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
INSERT INTO team_rounds (id_team, round)
VALUES ($1, $2)
ON CONFLICT (id_team, round) DO NOTHING
`
	for _, r := range rows {
		if _, err := tx.Exec(q, r.TeamID, r.Round); err != nil {
			return fmt.Errorf("inserting team %s round %d: %w", r.TeamID, r.Round, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit InsertTeamRounds tx: %w", err)
	}
	return nil
}

// LoadMatches fetches the whole match table ordered by round.
func (s *Store) LoadMatches() ([]league.Match, error) {
	const q = `
SELECT round, home_team, away_team, home_win, draw, date
FROM matches
ORDER BY round, id
`
	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var matches []league.Match
	for rows.Next() {
		var m league.Match
		if err := rows.Scan(&m.Round, &m.HomeTeam, &m.AwayTeam, &m.HomeWin, &m.Draw, &m.Date); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating matches rows: %w", err)
	}
	return matches, nil
}

// LoadTeamRounds fetches the (team, round) keys. Enriched columns are left
// zero; they are recomputed by league.Enrich.
func (s *Store) LoadTeamRounds() ([]league.TeamRound, error) {
	const q = `
SELECT id_team, round
FROM team_rounds
ORDER BY round, id_team
`
	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying team rounds: %w", err)
	}
	defer rows.Close()

	var out []league.TeamRound
	for rows.Next() {
		var r league.TeamRound
		if err := rows.Scan(&r.TeamID, &r.Round); err != nil {
			return nil, fmt.Errorf("scanning team round: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rounds rows: %w", err)
	}
	return out, nil
}

// SaveTeamRounds upserts the enriched columns of every row in one transaction.
func (s *Store) SaveTeamRounds(rows []league.TeamRound) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin SaveTeamRounds tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
INSERT INTO team_rounds (
    id_team, round, id_opponent_team, was_home_team, was_draw, has_won,
    match_points, championship_score, championship_position, date, timestamp, week_day
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id_team, round) DO UPDATE SET
    id_opponent_team      = EXCLUDED.id_opponent_team,
    was_home_team         = EXCLUDED.was_home_team,
    was_draw              = EXCLUDED.was_draw,
    has_won               = EXCLUDED.has_won,
    match_points          = EXCLUDED.match_points,
    championship_score    = EXCLUDED.championship_score,
    championship_position = EXCLUDED.championship_position,
    date                  = EXCLUDED.date,
    timestamp             = EXCLUDED.timestamp,
    week_day              = EXCLUDED.week_day
`
	stmt, err := tx.Prepare(q)
	if err != nil {
		return fmt.Errorf("preparing SaveTeamRounds: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(
			r.TeamID, r.Round, r.OpponentID,
			r.WasHomeTeam, r.WasDraw, r.HasWon,
			r.MatchPoints, r.ChampionshipScore, r.ChampionshipPosition,
			r.Date, r.Timestamp, r.WeekDay,
		); err != nil {
			return fmt.Errorf("saving team %s round %d: %w", r.TeamID, r.Round, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit SaveTeamRounds tx: %w", err)
	}
	return nil
}

// DeleteAll empties both tables.
func (s *Store) DeleteAll() error {
	for _, table := range []string{"team_rounds", "matches"} {
		if _, err := s.DB.Exec(`DELETE FROM ` + table + `;`); err != nil {
			return fmt.Errorf("deleting all %s: %w", table, err)
		}
	}
	return nil
}
