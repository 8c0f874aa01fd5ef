// Command seed writes a city network into the Postgres store named by
// DATABASE_URL. Without -file it loads the bundled five-city network.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"tspcolony/internal/citymap"
	"tspcolony/internal/store"
)

func main() {
	file := flag.String("file", "", "YAML network to load (default: bundled network)")
	migrate := flag.Bool("migrate", true, "apply the schema before seeding")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	nw := citymap.DefaultSeed()
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatalf("open %s: %v", *file, err)
		}
		nw, err = citymap.LoadSeed(f)
		_ = f.Close()
		if err != nil {
			log.Fatalf("load %s: %v", *file, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	pg, err := store.NewPostgres(dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer func() { _ = pg.Close() }()
	if *migrate {
		if err := pg.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}
	if err := store.Seed(ctx, pg, nw); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seeded %d cities and %d connections (origin %s)", len(nw.Cities), len(nw.Directed()), nw.Origin)
}
