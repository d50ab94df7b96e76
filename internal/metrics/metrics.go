package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	remoteReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autosplit",
			Name:      "remote_requests_total",
			Help:      "Total LlamaIndex API requests by operation and result",
		},
		[]string{"op", "result"},
	)

	remoteLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "autosplit",
			Name:      "remote_request_duration_seconds",
			Help:      "Duration of LlamaIndex API requests by operation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	jobsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autosplit",
			Name:      "jobs_created_total",
			Help:      "Split jobs created, labeled by input source (upload, file_id, file_ref)",
		},
		[]string{"source"},
	)

	splitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autosplit",
			Name:      "splits_total",
			Help:      "Local PDF split operations by result",
		},
		[]string{"result"},
	)

	splitParts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "autosplit",
			Name:      "split_output_documents",
			Help:      "Number of output documents per split operation",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		},
	)
)

// Init registers collectors.
func Init() {
	prometheus.MustRegister(remoteReqs, remoteLatency, jobsCreated, splitsTotal, splitParts)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func ObserveRemote(op, result string, dur time.Duration) {
	remoteReqs.WithLabelValues(op, result).Inc()
	remoteLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func IncJobCreated(source string) { jobsCreated.WithLabelValues(source).Inc() }
func IncSplit(result string)      { splitsTotal.WithLabelValues(result).Inc() }

func ObserveSplitParts(n int) { splitParts.Observe(float64(n)) }
