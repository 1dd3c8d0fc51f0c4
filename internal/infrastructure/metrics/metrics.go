// Package metrics define los contadores Prometheus del servicio y el
// servidor HTTP independiente que los expone.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerEntries cuenta los asientos escritos en el ledger por tipo.
	LedgerEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_ledger_entries_total",
		Help: "Asientos registrados en el ledger, por tipo de transacción.",
	}, []string{"type"})

	// BatchesReceived cuenta los lotes de recepción confirmados.
	BatchesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_batches_received_total",
		Help: "Lotes de recepción de proveedor confirmados.",
	})

	// Issuances cuenta las entregas de materiales confirmadas.
	Issuances = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_issuances_total",
		Help: "Entregas de materiales a técnicos confirmadas.",
	})

	// UnitConflicts cuenta los intentos de entregar una unidad no disponible.
	UnitConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_unit_conflicts_total",
		Help: "Entregas rechazadas por unidad serializada no disponible.",
	})
)
