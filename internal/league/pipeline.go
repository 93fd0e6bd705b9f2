package league

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Options controls Enrich.
type Options struct {
	// DateLayout is the Go time layout of Match.Date.
	DateLayout string
	// Location the match dates are expressed in.
	Location *time.Location
	// SeasonRounds, when positive, rejects rows outside 1..SeasonRounds.
	// Zero ranks whatever rounds are present.
	SeasonRounds int
	Log          logrus.FieldLogger
}

// DefaultOptions parses dates as day/month/year - hour:minute in UTC.
func DefaultOptions() Options {
	return Options{
		DateLayout: DefaultDateLayout,
		Location:   time.UTC,
		Log:        logrus.StandardLogger(),
	}
}

type step struct {
	name string
	run  func() error
}

// Enrich runs every enrichment step over rows in dependency order. rows is
// modified in place; matches is only read. The first failing step aborts
// the run.
func Enrich(rows []TeamRound, matches []Match, opts Options) error {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.SeasonRounds > 0 {
		if err := checkRounds(rows, opts.SeasonRounds); err != nil {
			return err
		}
	}

	ix := NewMatchIndex(matches)
	steps := []step{
		{"get_opponent", func() error { return ApplyGetOpponent(rows, ix) }},
		{"check_home", func() error { return ApplyCheckHome(rows, ix) }},
		{"check_draw", func() error { return ApplyCheckDraw(rows, ix) }},
		{"winner_check", func() error { return ApplyWinnerCheck(rows, ix) }},
		{"match_points", func() error { ApplyMatchPoints(rows); return nil }},
		{"championship_score", func() error { ApplyChampionshipScore(rows); return nil }},
		{"championship_position", func() error { CalculateChampionshipPosition(rows); return nil }},
		{"date_columns", func() error {
			return ProcessDateColumns(rows, ix, opts.DateLayout, opts.Location)
		}},
	}

	start := time.Now()
	for _, s := range steps {
		t := time.Now()
		if err := s.run(); err != nil {
			log.WithError(err).WithField("step", s.name).Error("enrichment step failed")
			return fmt.Errorf("%s: %w", s.name, err)
		}
		log.WithFields(logrus.Fields{
			"step":    s.name,
			"rows":    len(rows),
			"elapsed": time.Since(t),
		}).Debug("enrichment step done")
	}

	log.WithFields(logrus.Fields{
		"rows":     len(rows),
		"fixtures": ix.Len(),
		"rounds":   len(Rounds(rows)),
		"elapsed":  time.Since(start),
	}).Info("team rounds enriched")
	return nil
}

func checkRounds(rows []TeamRound, season int) error {
	for _, r := range rows {
		if r.Round < 1 || r.Round > season {
			return fmt.Errorf("%w: team %q round %d not in 1..%d", ErrRoundOutOfRange, r.TeamID, r.Round, season)
		}
	}
	return nil
}
