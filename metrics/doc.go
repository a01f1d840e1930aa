// Package metrics exposes logger statistics to Prometheus.
//
// Collector reads logger.Stats on every scrape and reports posted and
// written counts, bytes written, records lost by reason (overflow of a bounded queue,
// rejected after shutdown or writer failure, abandoned at shutdown), the
// queue depth, and whether the writer goroutine is still up. The last
// one is the health signal for a writer that died on an I/O error.
//
//	c := metrics.NewCollector(log, "tradingengine", nil)
//	reg, err := metrics.NewRegistry(c, true)
//	...
//	http.Handle("/metrics", metrics.Handler(reg))
package metrics
