package main

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/utakatalp/league-stats/internal/api"
	"github.com/utakatalp/league-stats/internal/config"
	"github.com/utakatalp/league-stats/internal/dataset"
	"github.com/utakatalp/league-stats/internal/league"
	"github.com/utakatalp/league-stats/internal/logger"
	"github.com/utakatalp/league-stats/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("leaguestats failed")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	srcLog := logger.WithSource(cfg.DataSource)

	// The store backs the postgres source and, when configured, receives the
	// generated demo season and the enriched rows of any source.
	var st *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		if st, err = store.NewStore(cfg.DatabaseURL); err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(); err != nil {
			return err
		}
	}

	matches, rows, err := load(cfg, st)
	if err != nil {
		return err
	}
	srcLog.WithFields(logrus.Fields{"matches": len(matches), "team_rounds": len(rows)}).Info("tables loaded")

	opts := league.Options{
		DateLayout:   cfg.DateLayout,
		Location:     cfg.Location(),
		SeasonRounds: cfg.SeasonRounds,
		Log:          log,
	}
	if err := league.Enrich(rows, matches, opts); err != nil {
		return fmt.Errorf("enriching team rounds: %w", err)
	}

	if err := save(cfg, st, rows); err != nil {
		return err
	}

	if rounds := league.Rounds(rows); len(rounds) > 0 {
		last := rounds[len(rounds)-1]
		logger.WithRound(last).WithField("teams", len(league.Standings(rows, last))).Info("final standings")
		league.PrintStandings(os.Stdout, fmt.Sprintf("Standings after round %d", last), league.Standings(rows, last))
	}

	if cfg.HTTPAddr == "" {
		return nil
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(rows, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.WithField("addr", cfg.HTTPAddr).Info("serving standings")
	return srv.ListenAndServe()
}

func load(cfg *config.Config, st *store.Store) ([]league.Match, []league.TeamRound, error) {
	switch cfg.DataSource {
	case config.SourcePostgres:
		matches, err := st.LoadMatches()
		if err != nil {
			return nil, nil, fmt.Errorf("loading matches: %w", err)
		}
		rows, err := st.LoadTeamRounds()
		if err != nil {
			return nil, nil, fmt.Errorf("loading team rounds: %w", err)
		}
		return matches, rows, nil

	case config.SourceDemo:
		teams := make([]string, cfg.DemoTeams)
		for i := range teams {
			teams[i] = fmt.Sprintf("T%02d", i+1)
		}
		kickoff := time.Date(time.Now().Year(), time.April, 1, 16, 0, 0, 0, cfg.Location())
		matches, rows := league.SimulateSeason(teams, rand.New(rand.NewSource(cfg.DemoSeed)), kickoff, cfg.DateLayout)
		if st != nil {
			if err := seed(st, matches, rows); err != nil {
				return nil, nil, err
			}
		}
		return matches, rows, nil

	default:
		matches, err := readCSV(cfg.MatchesPath, dataset.ReadMatches)
		if err != nil {
			return nil, nil, err
		}
		rows, err := readCSV(cfg.TeamsPath, dataset.ReadTeamRounds)
		if err != nil {
			return nil, nil, err
		}
		return matches, rows, nil
	}
}

// seed replaces the stored tables with a generated season.
func seed(st *store.Store, matches []league.Match, rows []league.TeamRound) error {
	if err := st.DeleteAll(); err != nil {
		return err
	}
	if err := st.InsertMatches(matches); err != nil {
		return err
	}
	return st.InsertTeamRounds(rows)
}

func readCSV[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

func save(cfg *config.Config, st *store.Store, rows []league.TeamRound) error {
	if st != nil {
		if err := st.SaveTeamRounds(rows); err != nil {
			return fmt.Errorf("saving team rounds: %w", err)
		}
	}
	if cfg.OutputPath == "" {
		return nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", cfg.OutputPath, err)
	}
	if err := dataset.WriteTeamRounds(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
