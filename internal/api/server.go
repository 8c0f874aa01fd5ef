package api

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"tspcolony/internal/auth"
	"tspcolony/internal/citymap"
	"tspcolony/internal/config"
	"tspcolony/internal/store"
)

type Server struct {
	Store  store.Store
	Broker EventBroker
	Cfg    config.Config
	Auth   *auth.Verifier

	limiter *rate.Limiter

	// rng hands out seeds for solver runs and matrix builds.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewServer creates a Server from the environment. If DATABASE_URL is
// unset, uses an in-memory store seeded with the bundled network.
func NewServer() (*Server, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	return NewServerWithConfig(cfg)
}

func NewServerWithConfig(cfg config.Config) (*Server, error) {
	verifier, err := auth.NewVerifier(cfg.AuthMode, cfg.AuthSecret)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var s store.Store
	if cfg.DatabaseURL == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := sp.Migrate(ctx); err != nil {
				return nil, err
			}
		}
		s = sp
	}
	if err := seedIfEmpty(ctx, s); err != nil {
		return nil, err
	}

	// Broker selection
	var broker EventBroker = NewBroker()
	if cfg.RedisURL != "" {
		if rb, err := NewRedisBroker(cfg.RedisURL); err == nil {
			broker = rb
		} else {
			log.Printf("redis broker unavailable, using in-memory: %v", err)
		}
	}

	limit := rate.Inf
	if cfg.RateRPS > 0 {
		limit = rate.Limit(cfg.RateRPS)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	return &Server{
		Store:   s,
		Broker:  broker,
		Cfg:     cfg,
		Auth:    verifier,
		limiter: rate.NewLimiter(limit, burst),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func seedIfEmpty(ctx context.Context, s store.Store) error {
	cities, err := s.ListCities(ctx)
	if err != nil {
		return err
	}
	if len(cities) > 0 {
		return nil
	}
	log.Printf("no cities stored, seeding bundled network")
	return store.Seed(ctx, s, citymap.DefaultSeed())
}

// nextSeed hands out seeds for per-request random streams.
func (s *Server) nextSeed() int64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return 1 + s.rng.Int63n(math.MaxInt64-1)
}

// Close releases the store and broker connections, if any.
func (s *Server) Close() error {
	var errs []error
	if c, ok := s.Broker.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := s.Store.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
