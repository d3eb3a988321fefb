// Package metrics holds the Prometheus collectors for the derivation rules.
package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AlertsGenerated counts alerts present after a regeneration, by owner and type.
	AlertsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmhub_alerts_generated_total",
		Help: "Alerts produced by resource and budget rules",
	}, []string{"owner", "type"})

	// IssuesReported counts crop-health issues by type and diagnosis outcome.
	IssuesReported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmhub_crop_issues_reported_total",
		Help: "Crop health issues reported",
	}, []string{"type", "diagnosed"})

	WeedTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmhub_weed_issue_transitions_total",
		Help: "Weed issue status transitions",
	}, []string{"status"})

	ResourceUsage = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmhub_resource_usage_total",
		Help: "Resource use requests by result",
	}, []string{"result"})

	ActivitiesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmhub_timeline_activities_generated_total",
		Help: "Timeline activities produced from crop plans",
	})

	CollaboratorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmhub_collaborator_failures_total",
		Help: "Failed calls to weather, classifier and blob collaborators",
	}, []string{"collaborator"})
)

// Handler serves the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
