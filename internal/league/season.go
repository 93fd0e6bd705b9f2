package league

import (
	"math"
	"math/rand"
	"time"
)

// GenerateSchedule returns a single round-robin schedule for the provided
// teams: one slice of fixtures per round, rounds numbered from 1.
func GenerateSchedule(teams []string) [][]Match {
	if len(teams) < 2 {
		return nil
	}
	// Work on a copy; an odd field gets an empty placeholder (bye).
	ts := append([]string(nil), teams...)
	if len(ts)%2 != 0 {
		ts = append(ts, "")
	}
	n := len(ts)

	rounds := make([][]Match, n-1)
	for i := 0; i < n-1; i++ {
		round := make([]Match, 0, n/2)
		for j := 0; j < n/2; j++ {
			home, away := ts[j], ts[n-1-j]
			if home == "" || away == "" {
				continue
			}
			round = append(round, Match{Round: i + 1, HomeTeam: home, AwayTeam: away})
		}
		rounds[i] = round

		// Rotate every team except the first.
		last := ts[n-1]
		copy(ts[2:], ts[1:n-1])
		ts[1] = last
	}
	return rounds
}

// GenerateFullSeason plays the schedule twice, swapping home and away in
// the second half.
func GenerateFullSeason(teams []string) [][]Match {
	firstHalf := GenerateSchedule(teams)
	secondHalf := make([][]Match, len(firstHalf))
	for i, rnd := range firstHalf {
		swapped := make([]Match, len(rnd))
		for j, m := range rnd {
			swapped[j] = Match{Round: i + 1 + len(firstHalf), HomeTeam: m.AwayTeam, AwayTeam: m.HomeTeam}
		}
		secondHalf[i] = swapped
	}
	return append(firstHalf, secondHalf...)
}

// SimulateSeason builds a played double round-robin season. Results come
// from Poisson goal counts weighted by a random rating per team; round k
// kicks off k-1 weeks after kickoff. It returns the match table and the
// bare team-round table ready for Enrich.
func SimulateSeason(teams []string, rng *rand.Rand, kickoff time.Time, layout string) ([]Match, []TeamRound) {
	if layout == "" {
		layout = DefaultDateLayout
	}
	rating := make(map[string]float64, len(teams))
	for _, t := range teams {
		rating[t] = 1300 + rng.Float64()*400
	}

	var matches []Match
	var rows []TeamRound
	for k, round := range GenerateFullSeason(teams) {
		date := kickoff.AddDate(0, 0, 7*k).Format(layout)
		for _, m := range round {
			hg, ag := simulateGoals(rng, rating[m.HomeTeam], rating[m.AwayTeam])
			m.HomeWin = hg > ag
			m.Draw = hg == ag
			m.Date = date
			matches = append(matches, m)
			rows = append(rows,
				TeamRound{TeamID: m.HomeTeam, Round: m.Round},
				TeamRound{TeamID: m.AwayTeam, Round: m.Round},
			)
		}
	}
	return matches, rows
}

// simulateGoals splits an average of three goals by relative rating.
func simulateGoals(rng *rand.Rand, home, away float64) (homeGoals, awayGoals int) {
	total := home + away
	lambdaHome := home / total * 3.0
	lambdaAway := away / total * 3.0
	return samplePoisson(rng, lambdaHome), samplePoisson(rng, lambdaAway)
}

// samplePoisson generates a random sample from a Poisson distribution with mean lambda
func samplePoisson(rng *rand.Rand, lambda float64) int {
	L := math.Exp(-lambda)
	p := 1.0
	k := 0
	for p > L {
		k++
		p *= rng.Float64()
	}
	return k - 1
}
