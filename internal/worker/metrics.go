package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scanCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dealradar_scan_cycles_total",
		Help: "Number of scan cycles started.",
	})
	scanFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dealradar_scan_failures_total",
		Help: "Number of scan cycles aborted by an error.",
	})
	dealsSelected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dealradar_deals_selected_total",
		Help: "Number of deals accepted by the selection model.",
	})
	estimateFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dealradar_estimate_failures_total",
		Help: "Number of deals dropped because price estimation failed.",
	})
	opportunitiesFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dealradar_opportunities_found_total",
		Help: "Number of opportunities surfaced past the discount threshold.",
	})
)
