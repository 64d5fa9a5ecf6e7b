package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// fragmentsEmitted counts fragments placed into emitted batches.
	fragmentsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "molfrag",
		Subsystem: "pipeline",
		Name:      "fragments_total",
		Help:      "Fragments emitted in padded batches",
	})

	// batchesEmitted counts padded batches returned by loaders.
	batchesEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "molfrag",
		Subsystem: "pipeline",
		Name:      "batches_total",
		Help:      "Padded batches emitted",
	})

	// paddingWaste tracks the fraction of node rows that are padding.
	paddingWaste = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "molfrag",
		Subsystem: "pipeline",
		Name:      "padding_waste_ratio",
		Help:      "Fraction of padded node rows that carry no atom",
		Buckets:   []float64{0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9},
	})

	// distinctShapes reports the number of padded shapes seen so far.
	distinctShapes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "molfrag",
		Subsystem: "pipeline",
		Name:      "distinct_shapes",
		Help:      "Distinct padded batch shapes observed",
	})

	// skippedMolecules counts molecules excluded from sampling.
	skippedMolecules = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "molfrag",
		Subsystem: "pipeline",
		Name:      "skipped_molecules_total",
		Help:      "Molecules skipped because their graph or trajectory could not be built",
	})
)
