package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToggleTransitions counts applied membership transitions by set kind and direction.
	ToggleTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_toggle_transitions_total",
		Help: "Membership toggles applied, by set kind and result",
	}, []string{"kind", "result"})

	// ToggleRetries counts toggle attempts that lost a race and retried.
	ToggleRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_toggle_retries_total",
		Help: "Toggle attempts retried after a concurrent insert",
	}, []string{"kind"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// AssetOperations counts asset store writes and deletes by outcome.
	AssetOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_asset_operations_total",
		Help: "Asset store operations by type and outcome",
	}, []string{"operation", "outcome"})
)
