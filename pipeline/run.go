package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/molfrag/molgraph"
	"github.com/katalvlaran/molfrag/padding"
	"github.com/katalvlaran/molfrag/rng"
)

// Run drives cfg.Workers loaders concurrently into out until ctx is done or
// a loader fails. Worker keys are split from Config.Seed (or WithKey), the
// graphs are built once and shared read-only. Run closes out before it
// returns. The result is the first loader error, or ctx.Err() after
// cancellation.
func Run(ctx context.Context, cfg Config, molecules []molgraph.Molecule, out chan<- *padding.PaddedBatch, opts ...Option) error {
	defer close(out)

	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return err
	}
	s := apply(opts)
	ds, err := prepare(cfg, molecules, s.logger)
	if err != nil {
		return err
	}
	root := rng.New(cfg.Seed)
	if s.key != nil {
		root = *s.key
	}

	keys := rng.SplitN(root, cfg.Workers)
	loaders := make([]*Loader, cfg.Workers)
	for w := range loaders {
		ws := s
		ws.logger = s.logger.With("worker", w)
		if loaders[w], err = newLoader(cfg, ds, keys[w], ws); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, l := range loaders {
		g.Go(func() error {
			for {
				b, err := l.Next()
				if err != nil {
					return err
				}
				select {
				case out <- b:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}

	return g.Wait()
}
