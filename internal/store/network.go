package store

import (
	"context"
	"fmt"

	"tspcolony/internal/citymap"
	"tspcolony/internal/model"
	"tspcolony/internal/opt"
)

// Seed writes a network into s. Connections of a symmetric network are
// stored in both directions.
func Seed(ctx context.Context, s Store, nw citymap.Network) error {
	if err := nw.Validate(); err != nil {
		return err
	}
	for _, c := range nw.Cities {
		if _, err := s.UpsertCity(ctx, model.City{Name: c.Name, X: c.X, Y: c.Y}); err != nil {
			return fmt.Errorf("seed city %s: %w", c.Name, err)
		}
	}
	for _, cn := range nw.Directed() {
		_, err := s.AddConnection(ctx, model.Connection{From: cn.From, To: cn.To, Distance: cn.Distance, Weight: cn.Weight})
		if err != nil {
			return fmt.Errorf("seed connection %s->%s: %w", cn.From, cn.To, err)
		}
	}
	return nil
}

// LoadNetwork reads the stored cities and connections as a directed network
// rooted at origin.
func LoadNetwork(ctx context.Context, s Store, origin string) (citymap.Network, error) {
	cities, err := s.ListCities(ctx)
	if err != nil {
		return citymap.Network{}, err
	}
	conns, err := s.ListConnections(ctx)
	if err != nil {
		return citymap.Network{}, err
	}
	nw := citymap.Network{Origin: origin}
	for _, c := range cities {
		nw.Cities = append(nw.Cities, opt.City{Name: c.Name, X: c.X, Y: c.Y})
	}
	for _, cn := range conns {
		nw.Connections = append(nw.Connections, citymap.Connection{From: cn.From, To: cn.To, Distance: cn.Distance, Weight: cn.Weight})
	}
	return nw, nil
}
