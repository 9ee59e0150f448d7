package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/comalice/refcellx"
)

// Routes is the shared, immutable routing table swapped atomically on
// every rebuild.
type Routes struct {
	Generation int
	Targets    map[string]string
}

func buildRoutes(gen int) *refcellx.Ref[Routes] {
	return refcellx.NewRef(Routes{
		Generation: gen,
		Targets: map[string]string{
			"/api": "10.0.0.1:8080",
			"/web": "10.0.0.2:8080",
		},
	}, nil)
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	cell := refcellx.NewSharedCell(buildRoutes(0))

	g, ctx := errgroup.WithContext(ctx)

	// Rebuilder: swaps a fresh table in every 200ms.
	g.Go(func() error {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		gen := 0
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				gen++
				old := cell.Set(buildRoutes(gen))
				log.Info().Int("old", old.Value().Generation).Int("new", gen).Msg("routes swapped")
				old.Release()
			}
		}
	})

	// Lookup workers: snapshot the table per request.
	for w := 0; w < 4; w++ {
		id := w
		g.Go(func() error {
			requests := 0
			for {
				select {
				case <-ctx.Done():
					log.Info().Int("worker", id).Int("requests", requests).Msg("worker done")
					return nil
				default:
				}
				snap := cell.Get()
				_ = snap.Value().Targets["/api"]
				snap.Release()
				requests++
				time.Sleep(25 * time.Millisecond)
			}
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("demo failed")
	}

	final := cell.Take()
	log.Info().Int("generation", final.Value().Generation).Msg("final routing table")
	final.Release()
}
