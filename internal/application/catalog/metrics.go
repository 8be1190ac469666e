package catalog

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	importBatches    *prometheus.CounterVec
	importItems      *prometheus.CounterVec
	importDuration   prometheus.Histogram
	historyEntries   prometheus.Counter
	integrityErrors  *prometheus.CounterVec
	postCommitErrors *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		importBatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "import_batches_total",
			Help:      "Total de lotes de importación por resultado.",
		}, []string{"result"}),
		importItems: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "import_items_total",
			Help:      "Items confirmados en importaciones por tipo.",
		}, []string{"kind"}),
		importDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "catalog",
			Name:      "import_duration_seconds",
			Help:      "Duración de una importación completa (escritura y fases posteriores).",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		historyEntries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "history_entries_total",
			Help:      "Entradas de historial enviadas al store (las repetidas se ignoran allí).",
		}),
		integrityErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "integrity_errors_total",
			Help:      "Errores de integridad del árbol detectados por operación.",
		}, []string{"operation"}),
		postCommitErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "postcommit_failures_total",
			Help:      "Fallos en fases posteriores al commit de una importación.",
		}, []string{"phase"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

const (
	resultOK         = "ok"
	resultRejected   = "rejected"
	resultFailed     = "failed"
	resultPostCommit = "post_commit_failed"
)
