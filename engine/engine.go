package engine

import "parchis/experiments/metrics"

type Engine interface {
	// Run plays a game until it is over or the turn cap is reached
	Run() (metrics.GameMetric, error)
}
