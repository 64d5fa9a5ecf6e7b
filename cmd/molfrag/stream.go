package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/molfrag/molgraph"
	"github.com/katalvlaran/molfrag/padding"
	"github.com/katalvlaran/molfrag/pipeline"
)

func newStreamCmd(g *globals) *cobra.Command {
	var (
		batches     int
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "stream FILE...",
		Short: "Run the loader and print one line per padded batch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			logger, err := g.logger(cmd)
			if err != nil {
				return err
			}
			mols, err := readMolecules(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				srv := &http.Server{Addr: metricsAddr, Handler: metricsMux(), ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server", "addr", metricsAddr, "error", err)
					}
				}()
				defer func() {
					shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdown)
				}()
				logger.Info("serving metrics", "addr", metricsAddr)
			}

			return stream(ctx, cmd, cfg, mols, batches, logger)
		},
	}
	cmd.Flags().IntVarP(&batches, "batches", "n", 10, "number of batches to print, 0 runs until interrupted")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus /metrics on this address")

	return cmd
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func stream(ctx context.Context, cmd *cobra.Command, cfg pipeline.Config, mols []molgraph.Molecule, limit int, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shapes := pipeline.NewShapeTracker()
	out := make(chan *padding.PaddedBatch, cfg.Workers)
	done := make(chan error, 1)
	go func() {
		done <- pipeline.Run(ctx, cfg, mols, out, pipeline.WithLogger(logger), pipeline.WithShapeTracker(shapes))
	}()

	w := cmd.OutOrStdout()
	n := 0
	for p := range out {
		if limit > 0 && n >= limit {
			continue // drain until Run closes out
		}
		used := p.Real()
		fmt.Fprintf(w, "batch=%d shape=%s nodes=%d edges=%d graphs=%d waste=%.3f\n",
			n, p.Shape(), used.Nodes, used.Edges, used.Graphs, p.NodeWaste())
		n++
		if limit > 0 && n == limit {
			cancel()
		}
	}

	err := <-done
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info("stream finished", "batches", n, "distinct_shapes", shapes.Len())

	return err
}
