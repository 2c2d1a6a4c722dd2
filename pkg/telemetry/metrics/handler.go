package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler that serves the metric set in Prometheus
// exposition format. Mount it at the path configured for scraping,
// typically "/metrics".
func (m *AdapterMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// HandlerWithOptions returns an HTTP handler with custom scrape options,
// for callers that need timeouts or in-flight request limits.
func (m *AdapterMetrics) HandlerWithOptions(opts promhttp.HandlerOpts) http.Handler {
	return promhttp.HandlerFor(m.registry, opts)
}
