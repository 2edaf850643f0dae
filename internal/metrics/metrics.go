package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure reasons
const (
	ReasonRejected  = "rejected"
	ReasonTransport = "transport"
)

var (
	TicketsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alert2jira_tickets_created_total",
		Help: "Jira issues created from alerts.",
	})

	TicketFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert2jira_ticket_failures_total",
		Help: "Alerts that could not be turned into a Jira issue.",
	}, []string{"reason"})

	JiraRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "alert2jira_jira_request_duration_seconds",
		Help:    "Latency of Jira create-issue requests.",
		Buckets: prometheus.DefBuckets,
	})
)
