// Package metrics expone contadores Prometheus del API y del motor de inventario.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa las métricas registradas.
type Metrics struct {
	// HTTP
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Negocio
	SalesTotal        *prometheus.CounterVec
	SalesVoidedTotal  *prometheus.CounterVec
	StockEntriesTotal *prometheus.CounterVec
	StockExitsTotal   *prometheus.CounterVec
	StockConflicts    *prometheus.CounterVec
	LoginRejected     prometheus.Counter
}

// New crea y registra las métricas en reg (prometheus.DefaultRegisterer en el API).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_http_requests_total",
				Help: "Total de peticiones HTTP atendidas",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventario_http_request_duration_seconds",
				Help:    "Duración de las peticiones HTTP",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SalesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_ventas_registradas_total",
				Help: "Ventas registradas por sede",
			},
			[]string{"sede_id"},
		),
		SalesVoidedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_ventas_anuladas_total",
				Help: "Ventas anuladas por sede",
			},
			[]string{"sede_id"},
		),
		StockEntriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_ingresos_registrados_total",
				Help: "Ingresos de mercancía registrados por sede",
			},
			[]string{"sede_id"},
		),
		StockExitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_salidas_registradas_total",
				Help: "Salidas de inventario registradas por sede",
			},
			[]string{"sede_id"},
		),
		StockConflicts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_stock_insuficiente_total",
				Help: "Operaciones rechazadas por stock insuficiente",
			},
			[]string{"operation"},
		),
		LoginRejected: f.NewCounter(
			prometheus.CounterOpts{
				Name: "inventario_login_rechazados_total",
				Help: "Intentos de login rechazados por el límite de tasa",
			},
		),
	}
}

// ObserveRequest registra una petición HTTP terminada.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) SaleRegistered(sedeID string)       { m.SalesTotal.WithLabelValues(sedeID).Inc() }
func (m *Metrics) SaleVoided(sedeID string)           { m.SalesVoidedTotal.WithLabelValues(sedeID).Inc() }
func (m *Metrics) StockEntryRegistered(sedeID string) { m.StockEntriesTotal.WithLabelValues(sedeID).Inc() }
func (m *Metrics) StockExitRegistered(sedeID string)  { m.StockExitsTotal.WithLabelValues(sedeID).Inc() }
func (m *Metrics) StockConflict(operation string)     { m.StockConflicts.WithLabelValues(operation).Inc() }
