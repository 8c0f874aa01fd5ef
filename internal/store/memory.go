package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"tspcolony/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu      sync.Mutex
	cities  []model.City       // insertion order
	conns   []model.Connection // insertion order
	results []model.Result     // oldest first
	cfg     *model.SolverConfig
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ListCities(ctx context.Context) ([]model.City, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.City{}, m.cities...), nil
}

// UpsertCity keys cities by name.
func (m *Memory) UpsertCity(ctx context.Context, c model.City) (model.City, error) {
	if strings.TrimSpace(c.Name) == "" {
		return model.City{}, fmt.Errorf("%w: city name required", ErrInvalid)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.cities {
		if m.cities[i].Name == c.Name {
			m.cities[i].X, m.cities[i].Y = c.X, c.Y
			return m.cities[i], nil
		}
	}
	c.ID = uuid.New().String()
	m.cities = append(m.cities, c)
	return c, nil
}

func (m *Memory) ListConnections(ctx context.Context) ([]model.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Connection{}, m.conns...), nil
}

// AddConnection keys connections by (from, to, distance); re-adding one
// only updates its weight.
func (m *Memory) AddConnection(ctx context.Context, c model.Connection) (model.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasCity(c.From) || !m.hasCity(c.To) {
		return model.Connection{}, fmt.Errorf("%w: unknown city in %s->%s", ErrInvalid, c.From, c.To)
	}
	for i := range m.conns {
		e := &m.conns[i]
		if e.From == c.From && e.To == c.To && e.Distance == c.Distance {
			e.Weight = c.Weight
			return *e, nil
		}
	}
	c.ID = uuid.New().String()
	m.conns = append(m.conns, c)
	return c, nil
}

func (m *Memory) hasCity(name string) bool {
	for _, c := range m.cities {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (m *Memory) SaveResult(ctx context.Context, r model.Result) (model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.Route = append([]string(nil), r.Route...)
	m.results = append(m.results, r)
	return r, nil
}

func (m *Memory) ListResults(ctx context.Context, algorithm string, limit int) ([]model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	limit = clampLimit(limit)
	out := []model.Result{}
	for i := len(m.results) - 1; i >= 0 && len(out) < limit; i-- {
		if algorithm == "" || strings.EqualFold(m.results[i].Algorithm, algorithm) {
			out = append(out, m.results[i])
		}
	}
	return out, nil
}

func (m *Memory) GetResult(ctx context.Context, id string) (model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.results {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Result{}, ErrNotFound
}

func (m *Memory) ClearResults(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.results)
	m.results = nil
	return n, nil
}

func (m *Memory) GetSolverConfig(ctx context.Context) (*model.SolverConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return nil, nil
	}
	cp := *m.cfg
	return &cp, nil
}

func (m *Memory) SaveSolverConfig(ctx context.Context, cfg model.SolverConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = &cfg
	return nil
}
