package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/docrep/docrep/pkg/metrics"
)

// blobMetrics is the Prometheus implementation of metrics.BlobMetrics.
type blobMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	bytesTransferred  *prometheus.CounterVec
}

// NewBlobMetrics creates a new Prometheus-backed BlobMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewBlobMetrics() metrics.BlobMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &blobMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "docrep_blob_operations_total",
				Help: "Total number of blob operations by operation, backend, and outcome",
			},
			[]string{"operation", "store_type", "outcome"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "docrep_blob_operation_duration_milliseconds",
				Help: "Duration of blob operations in milliseconds",
				Buckets: []float64{
					1,     // 1ms - memory/badger
					10,    // 10ms - local fs
					50,    // 50ms
					100,   // 100ms - s3 small objects
					500,   // 500ms
					1000,  // 1s
					5000,  // 5s - large objects
					10000, // 10s
				},
			},
			[]string{"operation", "store_type"},
		),
		bytesTransferred: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "docrep_blob_bytes_total",
				Help: "Total bytes moved through the blob store",
			},
			[]string{"operation", "store_type"},
		),
	}
}

func (m *blobMetrics) RecordOperation(op string, storeType string, duration time.Duration, outcome string) {
	m.operationsTotal.WithLabelValues(op, storeType, outcome).Inc()
	m.operationDuration.WithLabelValues(op, storeType).
		Observe(float64(duration.Microseconds()) / 1000.0)
}

func (m *blobMetrics) RecordBytes(op string, storeType string, bytes int) {
	m.bytesTransferred.WithLabelValues(op, storeType).Add(float64(bytes))
}
