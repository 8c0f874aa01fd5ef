// Package config reads service settings from the environment and an
// optional YAML file of solver defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"tspcolony/internal/model"
)

// Upper bounds applied to solver parameters when Config leaves them unset.
const (
	DefaultMaxPopulation = 1000
	DefaultMaxIterations = 100000
)

type Config struct {
	Port        string
	DatabaseURL string
	Migrate     bool
	RedisURL    string
	RateRPS     float64
	RateBurst   int
	Workers     int
	AuthMode    string
	AuthSecret  string
	// Webhook targets receive result events
	WebhookURLs        []string
	WebhookSecret      string
	WebhookMaxAttempts int
	// MaxPopulation caps ants and colonySize, MaxIterations caps rounds.
	// Zero means the package default.
	MaxPopulation int
	MaxIterations int
	// Solver holds file-level defaults, applied under the stored admin config.
	Solver model.SolverConfig
}

// FromEnv reads PORT, DATABASE_URL, DB_MIGRATE, REDIS_URL, RATE_RPS,
// RATE_BURST, SOLVER_WORKERS, SOLVER_MAX_POPULATION, SOLVER_MAX_ITERATIONS,
// ORIGIN_CITY, SOLVER_CONFIG, AUTH_MODE,
// AUTH_HMAC_SECRET and the WEBHOOK_* variables.
func FromEnv() (Config, error) {
	c := Config{
		Port:        envOr("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Migrate:     os.Getenv("DB_MIGRATE") != "false",
		RedisURL:    strings.TrimSpace(os.Getenv("REDIS_URL")),
		RateRPS:     5,
		RateBurst:   10,
		Workers:     1,
		AuthMode:    envOr("AUTH_MODE", "dev"),
		AuthSecret:  os.Getenv("AUTH_HMAC_SECRET"),

		WebhookSecret:      os.Getenv("WEBHOOK_SECRET"),
		WebhookMaxAttempts: 5,

		MaxPopulation: DefaultMaxPopulation,
		MaxIterations: DefaultMaxIterations,
	}
	var err error
	if v := os.Getenv("RATE_RPS"); v != "" {
		if c.RateRPS, err = strconv.ParseFloat(v, 64); err != nil || c.RateRPS < 0 {
			return Config{}, fmt.Errorf("config: RATE_RPS %q: must be a number >= 0", v)
		}
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		if c.RateBurst, err = strconv.Atoi(v); err != nil || c.RateBurst < 1 {
			return Config{}, fmt.Errorf("config: RATE_BURST %q: must be an integer >= 1", v)
		}
	}
	if v := os.Getenv("SOLVER_WORKERS"); v != "" {
		if c.Workers, err = strconv.Atoi(v); err != nil || c.Workers < 1 {
			return Config{}, fmt.Errorf("config: SOLVER_WORKERS %q: must be an integer >= 1", v)
		}
	}
	if v := os.Getenv("SOLVER_MAX_POPULATION"); v != "" {
		if c.MaxPopulation, err = strconv.Atoi(v); err != nil || c.MaxPopulation < 1 {
			return Config{}, fmt.Errorf("config: SOLVER_MAX_POPULATION %q: must be an integer >= 1", v)
		}
	}
	if v := os.Getenv("SOLVER_MAX_ITERATIONS"); v != "" {
		if c.MaxIterations, err = strconv.Atoi(v); err != nil || c.MaxIterations < 1 {
			return Config{}, fmt.Errorf("config: SOLVER_MAX_ITERATIONS %q: must be an integer >= 1", v)
		}
	}
	if path := os.Getenv("SOLVER_CONFIG"); path != "" {
		if c.Solver, err = LoadSolverFile(path); err != nil {
			return Config{}, err
		}
	}
	for _, u := range strings.Split(os.Getenv("WEBHOOK_URLS"), ",") {
		if u = strings.TrimSpace(u); u != "" {
			c.WebhookURLs = append(c.WebhookURLs, u)
		}
	}
	if v := os.Getenv("WEBHOOK_MAX_ATTEMPTS"); v != "" {
		if c.WebhookMaxAttempts, err = strconv.Atoi(v); err != nil || c.WebhookMaxAttempts < 1 {
			return Config{}, fmt.Errorf("config: WEBHOOK_MAX_ATTEMPTS %q: must be an integer >= 1", v)
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORIGIN_CITY")); v != "" {
		c.Solver.Origin = v
	}
	return c, nil
}

// SolverLimits returns the population and iteration caps, falling back to
// the defaults for unset fields.
func (c Config) SolverLimits() (population, iterations int) {
	population, iterations = c.MaxPopulation, c.MaxIterations
	if population <= 0 {
		population = DefaultMaxPopulation
	}
	if iterations <= 0 {
		iterations = DefaultMaxIterations
	}
	return population, iterations
}

// LoadSolverFile decodes a YAML document shaped like model.SolverConfig.
func LoadSolverFile(path string) (model.SolverConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.SolverConfig{}, fmt.Errorf("config: %w", err)
	}
	defer func() { _ = f.Close() }()
	var sc model.SolverConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return model.SolverConfig{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return sc, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
