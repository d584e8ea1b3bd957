// Package metrics expone las métricas Prometheus del servicio.
// Los colectores se registran una sola vez en el registro por defecto (promauto).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/gudang-api/internal/application/ledger"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

// StockTransactions transacciones aceptadas por tipo.
var StockTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gudang",
	Subsystem: "stock",
	Name:      "transactions_total",
	Help:      "Transacciones de stock registradas, por tipo.",
}, []string{"type"})

// StockRejections transacciones rechazadas por tipo de error.
var StockRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gudang",
	Subsystem: "stock",
	Name:      "rejections_total",
	Help:      "Transacciones de stock rechazadas, por kind de error.",
}, []string{"kind"})

// StockOperationSeconds duración de las operaciones del libro.
var StockOperationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "gudang",
	Subsystem: "stock",
	Name:      "operation_seconds",
	Help:      "Duración de las operaciones del libro de stock.",
	Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
}, []string{"operation"})

// HTTPRequests peticiones HTTP atendidas por método, ruta y código.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gudang",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Peticiones HTTP atendidas.",
}, []string{"method", "route", "status"})

var _ ledger.Recorder = (*Recorder)(nil)

// Recorder adapta los colectores al puerto ledger.Recorder.
type Recorder struct{}

// NewRecorder construye el adaptador.
func NewRecorder() *Recorder { return &Recorder{} }

// TransactionRecorded incrementa el contador del tipo.
func (*Recorder) TransactionRecorded(t entity.TransactionType) {
	StockTransactions.WithLabelValues(string(t)).Inc()
}

// TransactionRejected incrementa el contador del kind.
func (*Recorder) TransactionRejected(kind string) {
	StockRejections.WithLabelValues(kind).Inc()
}

// ObserveOperation registra la duración en segundos.
func (*Recorder) ObserveOperation(operation string, d time.Duration) {
	StockOperationSeconds.WithLabelValues(operation).Observe(d.Seconds())
}
