package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"tspcolony/internal/model"
)

//go:embed schema.sql
var schemaSQL string

type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Migrate applies the bundled schema. Statements are idempotent.
func (p *Postgres) Migrate(ctx context.Context) error {
	for _, stmt := range splitStatements(schemaSQL) {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func splitStatements(src string) []string {
	var out []string
	for _, s := range strings.Split(src, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) ListCities(ctx context.Context) ([]model.City, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id::text, name, x, y FROM cities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.City{}
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.Name, &c.X, &c.Y); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) UpsertCity(ctx context.Context, c model.City) (model.City, error) {
	if strings.TrimSpace(c.Name) == "" {
		return model.City{}, fmt.Errorf("%w: city name required", ErrInvalid)
	}
	row := p.db.QueryRowContext(ctx, `INSERT INTO cities (id, name, x, y) VALUES ($1,$2,$3,$4)
        ON CONFLICT (name) DO UPDATE SET x=EXCLUDED.x, y=EXCLUDED.y
        RETURNING id::text`, uuid.New(), c.Name, c.X, c.Y)
	if err := row.Scan(&c.ID); err != nil {
		return model.City{}, err
	}
	return c, nil
}

func (p *Postgres) ListConnections(ctx context.Context) ([]model.Connection, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id::text, from_city, to_city, distance, weight FROM connections ORDER BY from_city, to_city, distance`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Connection{}
	for rows.Next() {
		var c model.Connection
		if err := rows.Scan(&c.ID, &c.From, &c.To, &c.Distance, &c.Weight); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) AddConnection(ctx context.Context, c model.Connection) (model.Connection, error) {
	row := p.db.QueryRowContext(ctx, `INSERT INTO connections (id, from_city, to_city, distance, weight) VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (from_city, to_city, distance) DO UPDATE SET weight=EXCLUDED.weight
        RETURNING id::text`, uuid.New(), c.From, c.To, c.Distance, c.Weight)
	if err := row.Scan(&c.ID); err != nil {
		return model.Connection{}, err
	}
	return c, nil
}

func (p *Postgres) SaveResult(ctx context.Context, r model.Result) (model.Result, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	route, err := json.Marshal(r.Route)
	if err != nil {
		return model.Result{}, err
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO tsp_results (id, algorithm, route, distance, execution_time, created_at)
        VALUES ($1,$2,$3::jsonb,$4,$5,$6)`, r.ID, r.Algorithm, string(route), r.Distance, r.ExecutionTime, r.CreatedAt)
	if err != nil {
		return model.Result{}, err
	}
	return r, nil
}

const resultColumns = `id::text, algorithm, route, distance, execution_time, created_at`

func scanResult(sc interface{ Scan(...any) error }) (model.Result, error) {
	var r model.Result
	var route []byte
	if err := sc.Scan(&r.ID, &r.Algorithm, &route, &r.Distance, &r.ExecutionTime, &r.CreatedAt); err != nil {
		return r, err
	}
	if err := json.Unmarshal(route, &r.Route); err != nil {
		return r, fmt.Errorf("decode route of result %s: %w", r.ID, err)
	}
	return r, nil
}

func (p *Postgres) ListResults(ctx context.Context, algorithm string, limit int) ([]model.Result, error) {
	limit = clampLimit(limit)
	var rows *sql.Rows
	var err error
	if algorithm != "" {
		rows, err = p.db.QueryContext(ctx, `SELECT `+resultColumns+` FROM tsp_results WHERE upper(algorithm)=upper($1) ORDER BY created_at DESC LIMIT $2`, algorithm, limit)
	} else {
		rows, err = p.db.QueryContext(ctx, `SELECT `+resultColumns+` FROM tsp_results ORDER BY created_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) GetResult(ctx context.Context, id string) (model.Result, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Result{}, ErrNotFound
	}
	r, err := scanResult(p.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM tsp_results WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Result{}, ErrNotFound
	}
	return r, err
}

func (p *Postgres) ClearResults(ctx context.Context) (int, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM tsp_results`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (p *Postgres) GetSolverConfig(ctx context.Context) (*model.SolverConfig, error) {
	row := p.db.QueryRowContext(ctx, `SELECT config FROM solver_config WHERE id=1`)
	var js []byte
	if err := row.Scan(&js); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var cfg model.SolverConfig
	if err := json.Unmarshal(js, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (p *Postgres) SaveSolverConfig(ctx context.Context, cfg model.SolverConfig) error {
	js, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO solver_config (id, config, updated_at) VALUES (1, $1::jsonb, now())
        ON CONFLICT (id) DO UPDATE SET config=EXCLUDED.config, updated_at=now()`, string(js))
	return err
}
