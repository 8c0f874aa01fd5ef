package store

import (
	"context"
	"errors"

	"tspcolony/internal/model"
)

// Store is the persistence interface used by the API server.
type Store interface {
	// City network
	ListCities(ctx context.Context) ([]model.City, error)
	UpsertCity(ctx context.Context, c model.City) (model.City, error)
	ListConnections(ctx context.Context) ([]model.Connection, error)
	AddConnection(ctx context.Context, c model.Connection) (model.Connection, error)

	// Solver results, newest first
	SaveResult(ctx context.Context, r model.Result) (model.Result, error)
	ListResults(ctx context.Context, algorithm string, limit int) ([]model.Result, error)
	GetResult(ctx context.Context, id string) (model.Result, error)
	ClearResults(ctx context.Context) (int, error)

	// Runtime solver config; nil when never saved
	GetSolverConfig(ctx context.Context) (*model.SolverConfig, error)
	SaveSolverConfig(ctx context.Context, cfg model.SolverConfig) error
}

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid record")
)

const defaultListLimit = 10

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > 500 {
		return 500
	}
	return limit
}
