package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinksCreated counts successful link creations.
	LinksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_links_created_total",
		Help: "Number of short links created.",
	})

	// RedirectsServed counts successful redirects.
	RedirectsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_redirects_total",
		Help: "Number of redirects served.",
	})

	// ExpiredLookups counts lookups that hit an expired link.
	ExpiredLookups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_expired_lookups_total",
		Help: "Number of lookups that resolved to an expired link.",
	})

	// ClicksDropped counts click events that could not be recorded.
	ClicksDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_clicks_dropped_total",
		Help: "Number of click events dropped because recording failed.",
	})

	// LinksSwept counts links removed by the expiry sweeper.
	LinksSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_links_swept_total",
		Help: "Number of expired links deleted by the sweeper.",
	})
)
