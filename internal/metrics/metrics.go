package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coldtrace_workers_registered_total",
		Help: "Total number of supply chain workers successfully registered.",
	})

	ProductsRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coldtrace_products_registered_total",
		Help: "Total number of product batches successfully registered.",
	})

	StatusUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coldtrace_status_updates_total",
		Help: "Total number of status readings appended to product histories.",
	})

	ProductsSpoiledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coldtrace_products_spoiled_total",
		Help: "Total number of products marked spoiled by an out-of-range reading.",
	})

	TransfersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coldtrace_custody_transfers_total",
		Help: "Total number of successful custody transfers.",
	})

	CredentialsIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coldtrace_credentials_issued_total",
		Help: "Total number of signed authenticity credentials issued.",
	})

	VerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coldtrace_verifications_total",
		Help: "Total number of credential verifications by outcome.",
	},
		[]string{"outcome"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coldtrace_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	ProductCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coldtrace_product_cache_items",
		Help: "Current number of items in the product cache.",
	})
)
