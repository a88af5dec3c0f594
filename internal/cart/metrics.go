package cart

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var mutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Total number of effective cart mutations by operation",
	},
	[]string{"op"},
)

// CountMutations is a Listener that counts effective mutations per operation.
func CountMutations(_ context.Context, ev ChangeEvent) {
	mutationsTotal.WithLabelValues(string(ev.Op)).Inc()
}
