package postgres

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QueriesTotal counts queries by execution mode and outcome.
var QueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sqlgate_postgres_queries_total",
		Help: "Total queries run against PostgreSQL",
	},
	[]string{"mode", "outcome"},
)

// ConnectAttemptsTotal counts attempts to establish the connection pool.
var ConnectAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sqlgate_postgres_connect_attempts_total",
		Help: "Total attempts to create the PostgreSQL connection pool",
	},
	[]string{"outcome"},
)

const (
	modeReadonly = "readonly"
	modeExec     = "exec"
)
