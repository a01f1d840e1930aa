package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/philipp01105/tradingengine/logger"
)

// StatsSource is anything that reports logger counters; *logger.Logger
// satisfies it.
type StatsSource interface {
	Stats() logger.Stats
}

// Collector exports a logger's counters to Prometheus. Values are read
// at scrape time, so the logger's hot path carries no metrics cost.
type Collector struct {
	src StatsSource

	posted     *prometheus.Desc
	written    *prometheus.Desc
	bytes      *prometheus.Desc
	dropped    *prometheus.Desc
	queueDepth *prometheus.Desc
	writerUp   *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for src. Metric names are prefixed
// with namespace and "log_".
func NewCollector(src StatsSource, namespace string, constLabels prometheus.Labels) *Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "log", n)
	}
	return &Collector{
		src: src,
		posted: prometheus.NewDesc(name("records_posted_total"),
			"Records accepted into the logger queue.", nil, constLabels),
		written: prometheus.NewDesc(name("records_written_total"),
			"Records written to the log output.", nil, constLabels),
		bytes: prometheus.NewDesc(name("bytes_written_total"),
			"Formatted bytes written to the log output.", nil, constLabels),
		dropped: prometheus.NewDesc(name("records_dropped_total"),
			"Records that were never written, by reason.", []string{"reason"}, constLabels),
		queueDepth: prometheus.NewDesc(name("queue_depth"),
			"Records waiting for the writer.", nil, constLabels),
		writerUp: prometheus.NewDesc(name("writer_up"),
			"1 while the writer goroutine is running.", nil, constLabels),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.posted
	ch <- c.written
	ch <- c.bytes
	ch <- c.dropped
	ch <- c.queueDepth
	ch <- c.writerUp
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	ch <- prometheus.MustNewConstMetric(c.posted, prometheus.CounterValue, float64(s.Posted))
	ch <- prometheus.MustNewConstMetric(c.written, prometheus.CounterValue, float64(s.Written))
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.CounterValue, float64(s.BytesWritten))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.TotalDropped()), "overflow")
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.Rejected), "rejected")
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.Abandoned), "abandoned")
	ch <- prometheus.MustNewConstMetric(c.queueDepth, prometheus.GaugeValue, float64(s.Pending))

	up := 0.0
	if s.WriterUp {
		up = 1
	}
	ch <- prometheus.MustNewConstMetric(c.writerUp, prometheus.GaugeValue, up)
}

// NewRegistry returns an isolated registry holding c and, when
// withRuntime is set, the Go and process collectors.
func NewRegistry(c *Collector, withRuntime bool) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	if withRuntime {
		if err := reg.Register(collectors.NewGoCollector()); err != nil {
			return nil, err
		}
		if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Handler serves reg in the Prometheus exposition format
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
