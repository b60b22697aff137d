// Package metrics records per-call measurements for outbound (southbound)
// requests to upstream services.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var southboundBuckets = []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 4, 8, 16, 32, 64}

type Collector struct {
	southbound *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		southbound: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "southbound_request_duration_seconds",
			Help:    "Duration of outbound requests to upstream services.",
			Buckets: southboundBuckets,
		}, []string{"target", "route", "method", "status_code"}),
	}
	reg.MustRegister(c.southbound)
	return c
}

// ObserveSouthbound records one outbound call. A transport-level failure with
// no response is recorded with status 0.
func (c *Collector) ObserveSouthbound(target, route, method string, status int, elapsed time.Duration) {
	c.southbound.
		WithLabelValues(target, route, method, strconv.Itoa(status)).
		Observe(elapsed.Seconds())
}
