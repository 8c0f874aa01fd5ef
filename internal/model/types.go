package model

import "time"

// City as stored and served by the API.
type City struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Connection is one directed alternative distance between two cities.
type Connection struct {
	ID       string  `json:"id"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Distance float64 `json:"distance"`
	Weight   float64 `json:"weight"`
}

// Result is a persisted solver run.
type Result struct {
	ID            string    `json:"id"`
	Algorithm     string    `json:"algorithm"`
	Route         []string  `json:"route"`
	Distance      float64   `json:"distance"`
	ExecutionTime float64   `json:"executionTime"` // seconds
	CreatedAt     time.Time `json:"createdAt"`
}

// ACOParams overrides ant colony parameters; nil fields keep the defaults.
type ACOParams struct {
	Ants             *int     `json:"ants,omitempty" yaml:"ants"`
	Iterations       *int     `json:"iterations,omitempty" yaml:"iterations"`
	Alpha            *float64 `json:"alpha,omitempty" yaml:"alpha"`
	Beta             *float64 `json:"beta,omitempty" yaml:"beta"`
	Evaporation      *float64 `json:"evaporation,omitempty" yaml:"evaporation"`
	InitialPheromone *float64 `json:"initialPheromone,omitempty" yaml:"initial_pheromone"`
	Seed             *int64   `json:"seed,omitempty" yaml:"seed"`
}

// ABCOParams overrides bee colony parameters; nil fields keep the defaults.
type ABCOParams struct {
	ColonySize  *int   `json:"colonySize,omitempty" yaml:"colony_size"`
	Iterations  *int   `json:"iterations,omitempty" yaml:"iterations"`
	TrialsLimit *int   `json:"trialsLimit,omitempty" yaml:"trials_limit"`
	Seed        *int64 `json:"seed,omitempty" yaml:"seed"`
}

// SolverConfig is the runtime-tunable configuration kept by the store.
type SolverConfig struct {
	Origin string      `json:"origin,omitempty" yaml:"origin"`
	ACO    *ACOParams  `json:"aco,omitempty" yaml:"aco"`
	ABCO   *ABCOParams `json:"abco,omitempty" yaml:"abco"`
}

// SolveRequest is the optional body of the solve endpoints.
type SolveRequest struct {
	ACO  *ACOParams  `json:"aco,omitempty"`
	ABCO *ABCOParams `json:"abco,omitempty"`
}

// SolveResponse is returned by the solve endpoints.
type SolveResponse struct {
	ID            string         `json:"id"`
	Algorithm     string         `json:"algorithm"`
	Route         []string       `json:"route"`
	Distance      float64        `json:"distance"`
	ExecutionTime float64        `json:"executionTime"`
	Steps         [][][2]float64 `json:"steps"`
}

// ResultDetail adds drawing data to a stored result.
type ResultDetail struct {
	Result
	RouteCoordinates [][2]float64   `json:"routeCoordinates"`
	Steps            [][][2]float64 `json:"steps"`
}
