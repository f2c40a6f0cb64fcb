package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "foodgram-backend"

// Domain counters are created on the global meter, which forwards to the
// provider installed by Init.
var (
	RecipesCreated       metric.Int64Counter
	RecipesDeleted       metric.Int64Counter
	FavoritesAdded       metric.Int64Counter
	FavoritesRemoved     metric.Int64Counter
	CartEntriesAdded     metric.Int64Counter
	CartEntriesRemoved   metric.Int64Counter
	FollowsAdded         metric.Int64Counter
	FollowsRemoved       metric.Int64Counter
	ShoppingListRendered metric.Int64Counter
)

// HTTP metrics scraped from /metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodgram_http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "foodgram_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method", "route"})
)

func init() {
	meter := otel.Meter(instrumentationName)
	RecipesCreated = counter(meter, "recipes.created", "Total number of recipes created")
	RecipesDeleted = counter(meter, "recipes.deleted", "Total number of recipes deleted")
	FavoritesAdded = counter(meter, "favorites.added", "Total number of favorites added")
	FavoritesRemoved = counter(meter, "favorites.removed", "Total number of favorites removed")
	CartEntriesAdded = counter(meter, "shopping_cart.added", "Total number of recipes put in a shopping cart")
	CartEntriesRemoved = counter(meter, "shopping_cart.removed", "Total number of recipes taken out of a shopping cart")
	FollowsAdded = counter(meter, "follows.added", "Total number of subscriptions created")
	FollowsRemoved = counter(meter, "follows.removed", "Total number of subscriptions removed")
	ShoppingListRendered = counter(meter, "shopping_list.rendered", "Total number of shopping lists rendered")
}

func counter(meter metric.Meter, name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		otel.Handle(err)
	}
	return c
}
