package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsProvisionedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_provisioned_total",
		Help: "Total number of products fully provisioned in the catalog",
	})

	ProvisioningFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "provisioning_failed_total",
		Help: "Total number of failed provisioning runs",
	}, []string{"step"})

	ProvisioningStepLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provisioning_step_latency_seconds",
		Help:    "Latency of individual provisioning pipeline steps",
		Buckets: prometheus.DefBuckets,
	}, []string{"step"})

	AttributesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_attributes_created_total",
		Help: "Total number of schema attributes created in the catalog",
	})

	ProductTypesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_product_types_created_total",
		Help: "Total number of product types created in the catalog",
	})

	ProductTypeConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_product_type_conflicts_total",
		Help: "Total number of product-type create conflicts recovered by re-fetch",
	})

	TypeCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "type_cache_hits_total",
		Help: "Total number of product-type cache hits",
	})

	TypeCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "type_cache_misses_total",
		Help: "Total number of product-type cache misses",
	})

	TypeCacheErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "type_cache_errors_total",
		Help: "Total number of swallowed product-type cache failures",
	}, []string{"op"})

	CatalogRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_request_latency_seconds",
		Help:    "Latency of catalog GraphQL operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	SubmissionsDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "submissions_duplicate_total",
		Help: "Total number of submissions short-circuited by idempotency key",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
