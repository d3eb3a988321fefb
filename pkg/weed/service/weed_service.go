package service

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type WeedService interface {
	CreateWeed(ctx context.Context, w *entities.Weed) (*entities.Weed, error)
	GetWeed(ctx context.Context, id uint) (*entities.Weed, error)
	ListWeeds(ctx context.Context, search string, q store.ListQuery) ([]entities.Weed, store.Pagination, error)
	UpdateWeed(ctx context.Context, w *entities.Weed) (*entities.Weed, error)
	DeleteWeed(ctx context.Context, id uint) error
	UpsertWeed(ctx context.Context, w entities.Weed) (*entities.Weed, bool, error)

	CreateIssue(ctx context.Context, w *entities.WeedIssue) (*entities.WeedIssue, error)
	GetIssue(ctx context.Context, id uint, uid string) (*entities.WeedIssue, error)
	ListIssues(ctx context.Context, uid string, q store.ListQuery) ([]entities.WeedIssue, store.Pagination, error)
	UpdateIssue(ctx context.Context, w *entities.WeedIssue) (*entities.WeedIssue, error)
	DeleteIssue(ctx context.Context, id uint, uid string) error

	UpdateStatus(ctx context.Context, id uint, uid string, in StatusInput) (*entities.WeedIssue, error)
	AssignControlMethod(ctx context.Context, id uint, uid string, p entities.ControlPayload) (*entities.WeedIssue, error)
	AddApplication(ctx context.Context, id uint, uid string, app entities.ControlApplication) (*entities.WeedIssue, error)
	AddMonitoring(ctx context.Context, id uint, uid string, rec entities.MonitoringRecord) (*entities.WeedIssue, error)
	Resolve(ctx context.Context, id uint, uid string, in entities.ResolveInput) (*entities.WeedIssue, error)
	Stats(ctx context.Context, uid string) (Stats, error)
}

type StatusInput struct {
	Status    entities.WeedIssueStatus `json:"status" validate:"required,enum"`
	Notes     string                   `json:"notes"`
	ChangedBy string                   `json:"changed_by"`
}

type Stats struct {
	Total                int                              `json:"total"`
	ByStatus             map[entities.WeedIssueStatus]int `json:"by_status"`
	BySeverity           map[entities.WeedSeverity]int    `json:"by_severity"`
	TotalActualCost      float64                          `json:"total_actual_cost"`
	Recurrences          int                              `json:"recurrences"`
	AverageSeverityScore float64                          `json:"average_severity_score"`
}

// ComputeStats aggregates issues.
func ComputeStats(issues []entities.WeedIssue) Stats {
	st := Stats{
		ByStatus:   map[entities.WeedIssueStatus]int{},
		BySeverity: map[entities.WeedSeverity]int{},
	}
	score := 0.0
	for _, w := range issues {
		st.Total++
		st.ByStatus[w.Status]++
		st.BySeverity[w.Severity]++
		st.TotalActualCost += w.ActualCost.TotalCost
		score += w.SeverityScore
		if w.Recurrence.IsRecurrence {
			st.Recurrences++
		}
	}
	if st.Total > 0 {
		st.AverageSeverityScore = score / float64(st.Total)
	}
	return st
}
