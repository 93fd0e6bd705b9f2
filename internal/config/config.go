package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Data sources the team-round and match tables can be loaded from.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceDemo     = "demo"
)

// Config holds all configuration for the leaguestats command.
type Config struct {
	Env      string
	LogLevel string

	DataSource  string
	MatchesPath string
	TeamsPath   string
	OutputPath  string
	DatabaseURL string

	DateLayout   string
	Timezone     string
	SeasonRounds int

	DemoTeams int
	DemoSeed  int64

	HTTPAddr string
}

// Load reads a .env file when one exists, then the environment.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Env:          getEnv("ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", ""),
		DataSource:   getEnv("DATA_SOURCE", SourceCSV),
		MatchesPath:  getEnv("MATCHES_PATH", "data/matches.csv"),
		TeamsPath:    getEnv("TEAMS_PATH", "data/team.csv"),
		OutputPath:   getEnv("OUTPUT_PATH", ""),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		DateLayout:   getEnv("DATE_LAYOUT", "2/1/2006 - 15:04"),
		Timezone:     getEnv("TIMEZONE", "UTC"),
		HTTPAddr:     getEnv("HTTP_ADDR", ""),
		SeasonRounds: 0,
		DemoTeams:    20,
		DemoSeed:     1,
	}

	var err error
	if cfg.SeasonRounds, err = getEnvInt("SEASON_ROUNDS", cfg.SeasonRounds); err != nil {
		return nil, err
	}
	if cfg.DemoTeams, err = getEnvInt("DEMO_TEAMS", cfg.DemoTeams); err != nil {
		return nil, err
	}
	seed, err := getEnvInt("DEMO_SEED", int(cfg.DemoSeed))
	if err != nil {
		return nil, err
	}
	cfg.DemoSeed = int64(seed)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the selected data source depends on.
func (c *Config) Validate() error {
	var errs []error
	switch c.DataSource {
	case SourceCSV:
		if c.MatchesPath == "" || c.TeamsPath == "" {
			errs = append(errs, errors.New("MATCHES_PATH and TEAMS_PATH are required for the csv source"))
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres source"))
		}
	case SourceDemo:
		if c.DemoTeams < 2 {
			errs = append(errs, fmt.Errorf("DEMO_TEAMS must be at least 2, got %d", c.DemoTeams))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATA_SOURCE %q", c.DataSource))
	}
	if c.SeasonRounds < 0 {
		errs = append(errs, fmt.Errorf("SEASON_ROUNDS must not be negative, got %d", c.SeasonRounds))
	}
	if c.DateLayout == "" {
		errs = append(errs, errors.New("DATE_LAYOUT must not be empty"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Location returns the parsed TIMEZONE, UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
