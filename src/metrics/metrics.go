package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transitions counts committed status transitions per entity.
var Transitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tradejournal",
		Subsystem: "engine",
		Name:      "transitions_total",
		Help:      "Committed status transitions by entity type and target status",
	},
	[]string{"entity", "from", "to"},
)

// PartialExits counts committed partial exits by exit type.
var PartialExits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tradejournal",
		Subsystem: "engine",
		Name:      "partial_exits_total",
		Help:      "Committed partial exits by exit type",
	},
	[]string{"exit_type"},
)

// ClosedTradeRiskReward observes the risk multiple of every fully closed trade.
var ClosedTradeRiskReward = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "tradejournal",
		Subsystem: "engine",
		Name:      "closed_trade_risk_reward",
		Help:      "Risk/reward multiple of trades at full closure",
		Buckets:   []float64{-3, -2, -1, -0.5, 0, 0.5, 1, 2, 3, 5, 10},
	},
)

// OperationErrors counts failed engine operations by error kind.
var OperationErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tradejournal",
		Subsystem: "engine",
		Name:      "operation_errors_total",
		Help:      "Engine operations that returned an error, by operation and error kind",
	},
	[]string{"op", "kind"},
)
