// Package citymap turns a stored city network into the ordered city list
// and cost matrix the colonies work on.
package citymap

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"tspcolony/internal/opt"
)

var (
	ErrNoCities      = errors.New("citymap: no cities")
	ErrNoOrigin      = errors.New("citymap: origin city not found")
	ErrUnknownCity   = errors.New("citymap: connection references unknown city")
	ErrDuplicateCity = errors.New("citymap: duplicate city")
)

// Connection is one known way to travel From→To. Several connections for
// the same ordered pair are alternatives, picked in proportion to Weight.
type Connection struct {
	From     string  `json:"from" yaml:"from"`
	To       string  `json:"to" yaml:"to"`
	Distance float64 `json:"distance" yaml:"distance"`
	Weight   float64 `json:"weight" yaml:"weight"`
}

// Network is the raw map: cities, directed connections and the origin.
// When Symmetric is set every connection also holds in reverse.
type Network struct {
	Origin      string       `json:"origin" yaml:"origin"`
	Symmetric   bool         `json:"symmetric" yaml:"symmetric"`
	Cities      []opt.City   `json:"cities" yaml:"cities"`
	Connections []Connection `json:"connections" yaml:"connections"`
}

//go:embed seed.yaml
var seedYAML []byte

// DefaultSeed returns the bundled five-city network.
func DefaultSeed() Network {
	nw, err := LoadSeed(bytes.NewReader(seedYAML))
	if err != nil {
		panic(fmt.Sprintf("citymap: bundled seed: %v", err))
	}
	return nw
}

// LoadSeed decodes a YAML network and checks that it is consistent.
func LoadSeed(r io.Reader) (Network, error) {
	var nw Network
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&nw); err != nil {
		return Network{}, fmt.Errorf("citymap: decode seed: %w", err)
	}
	if err := nw.Validate(); err != nil {
		return Network{}, err
	}
	return nw, nil
}

// Validate checks names only; distances are checked when the matrix is built.
func (nw Network) Validate() error {
	if len(nw.Cities) == 0 {
		return ErrNoCities
	}
	names := make(map[string]struct{}, len(nw.Cities))
	for _, c := range nw.Cities {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: empty name", ErrUnknownCity)
		}
		if _, dup := names[c.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCity, c.Name)
		}
		names[c.Name] = struct{}{}
	}
	if _, ok := names[nw.Origin]; !ok {
		return fmt.Errorf("%w: %q", ErrNoOrigin, nw.Origin)
	}
	for _, cn := range nw.Connections {
		if _, ok := names[cn.From]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCity, cn.From)
		}
		if _, ok := names[cn.To]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCity, cn.To)
		}
	}
	return nil
}

// Directed lists every connection as travelled, adding reverses for a
// symmetric network.
func (nw Network) Directed() []Connection {
	if !nw.Symmetric {
		return append([]Connection(nil), nw.Connections...)
	}
	out := make([]Connection, 0, 2*len(nw.Connections))
	for _, cn := range nw.Connections {
		out = append(out, cn, Connection{From: cn.To, To: cn.From, Distance: cn.Distance, Weight: cn.Weight})
	}
	return out
}

// Order returns the cities with the origin first and the rest by name.
func (nw Network) Order() ([]opt.City, error) {
	var origin *opt.City
	rest := make([]opt.City, 0, len(nw.Cities))
	for i, c := range nw.Cities {
		if c.Name == nw.Origin && origin == nil {
			origin = &nw.Cities[i]
			continue
		}
		rest = append(rest, c)
	}
	if origin == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoOrigin, nw.Origin)
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Name < rest[j].Name })
	return append([]opt.City{*origin}, rest...), nil
}

// Build samples one distance per ordered pair from its alternatives and
// returns the problem. Pairs without any connection stay at zero.
func Build(nw Network, rng *rand.Rand) (opt.Problem, error) {
	if err := nw.Validate(); err != nil {
		return opt.Problem{}, err
	}
	cities, err := nw.Order()
	if err != nil {
		return opt.Problem{}, err
	}
	index := make(map[string]int, len(cities))
	for i, c := range cities {
		index[c.Name] = i
	}

	type pair struct{ from, to int }
	alts := map[pair][]Connection{}
	for _, cn := range nw.Directed() {
		p := pair{index[cn.From], index[cn.To]}
		if p.from == p.to {
			continue
		}
		alts[p] = append(alts[p], cn)
	}

	n := len(cities)
	rows := make([][]float64, n)
	weights := make([]float64, 0, 4)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			options := alts[pair{i, j}]
			if len(options) == 0 {
				continue
			}
			weights = weights[:0]
			for _, o := range options {
				weights = append(weights, o.Weight)
			}
			rows[i][j] = options[opt.WeightedChoice(weights, rng)].Distance
		}
	}
	m, err := opt.NewMatrix(rows)
	if err != nil {
		return opt.Problem{}, err
	}
	return opt.NewProblem(cities, m)
}
