package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"tspcolony/internal/citymap"
	"tspcolony/internal/model"
)

func TestMemorySeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for i := 0; i < 2; i++ {
		if err := Seed(ctx, m, citymap.DefaultSeed()); err != nil {
			t.Fatalf("Seed: %v", err)
		}
	}
	cities, _ := m.ListCities(ctx)
	if len(cities) != 5 {
		t.Fatalf("want 5 cities, got %d", len(cities))
	}
	conns, _ := m.ListConnections(ctx)
	if len(conns) != 32 {
		t.Fatalf("want 32 directed connections, got %d", len(conns))
	}
}

func TestMemoryRejectsUnknownCities(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if _, err := m.AddConnection(ctx, model.Connection{From: "A", To: "B", Distance: 1, Weight: 1}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("want ErrInvalid, got %v", err)
	}
	if _, err := m.UpsertCity(ctx, model.City{Name: " "}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("want ErrInvalid for blank name, got %v", err)
	}
}

func TestMemoryUpsertCityKeepsID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a, _ := m.UpsertCity(ctx, model.City{Name: "A", X: 1})
	b, _ := m.UpsertCity(ctx, model.City{Name: "A", X: 2})
	if a.ID != b.ID || b.X != 2 {
		t.Fatalf("upsert changed identity or ignored update: %+v %+v", a, b)
	}
}

func TestMemoryResults(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		algo := "ACO"
		if i%3 == 0 {
			algo = "ABCO"
		}
		_, err := m.SaveResult(ctx, model.Result{Algorithm: algo, Route: []string{"X", "X"}, Distance: float64(i), CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		if err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
	}
	aco, _ := m.ListResults(ctx, "aco", 10)
	if len(aco) != 8 {
		t.Fatalf("want 8 ACO results, got %d", len(aco))
	}
	if aco[0].Distance != 11 {
		t.Fatalf("want newest first, got distance %v", aco[0].Distance)
	}
	all, _ := m.ListResults(ctx, "", 0)
	if len(all) != 10 {
		t.Fatalf("default limit: want 10, got %d", len(all))
	}
	got, err := m.GetResult(ctx, all[0].ID)
	if err != nil || got.Distance != 11 {
		t.Fatalf("GetResult: %+v %v", got, err)
	}
	if _, err := m.GetResult(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	n, _ := m.ClearResults(ctx)
	if n != 12 {
		t.Fatalf("want 12 deleted, got %d", n)
	}
	if left, _ := m.ListResults(ctx, "", 0); len(left) != 0 {
		t.Fatalf("results left after clear: %d", len(left))
	}
}

func TestMemorySolverConfig(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	cfg, err := m.GetSolverConfig(ctx)
	if err != nil || cfg != nil {
		t.Fatalf("want nil config, got %+v %v", cfg, err)
	}
	ants := 7
	if err := m.SaveSolverConfig(ctx, model.SolverConfig{Origin: "Lagos", ACO: &model.ACOParams{Ants: &ants}}); err != nil {
		t.Fatalf("SaveSolverConfig: %v", err)
	}
	cfg, _ = m.GetSolverConfig(ctx)
	if cfg == nil || cfg.Origin != "Lagos" || *cfg.ACO.Ants != 7 {
		t.Fatalf("config not stored: %+v", cfg)
	}
}

func TestLoadNetwork(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := Seed(ctx, m, citymap.DefaultSeed()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	nw, err := LoadNetwork(ctx, m, "Ilorin")
	if err != nil {
		t.Fatalf("LoadNetwork: %v", err)
	}
	if nw.Symmetric {
		t.Fatal("stored connections are already directed")
	}
	if err := nw.Validate(); err != nil {
		t.Fatalf("loaded network invalid: %v", err)
	}
	if len(nw.Directed()) != 32 {
		t.Fatalf("want 32 connections, got %d", len(nw.Directed()))
	}
}
