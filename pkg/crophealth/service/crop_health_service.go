package service

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
	"farmhub/pkg/weather"
)

type CropHealthService interface {
	Create(ctx context.Context, h *entities.CropHealth) (*entities.CropHealth, error)
	Get(ctx context.Context, id uint, uid string) (*entities.CropHealth, error)
	List(ctx context.Context, uid string, q store.ListQuery) ([]entities.CropHealth, store.Pagination, Stats, error)
	Update(ctx context.Context, h *entities.CropHealth) (*entities.CropHealth, error)
	Delete(ctx context.Context, id uint, uid string) error

	CheckIn(ctx context.Context, uid string, in CheckIn) (*entities.CropHealth, error)
	Stats(ctx context.Context, uid string) (Stats, error)
	WeatherAlerts(ctx context.Context, location string) WeatherReport

	AddIssue(ctx context.Context, id uint, uid string, issue entities.HealthIssue) (*entities.CropHealth, *entities.HealthIssue, error)
	SetIssueStatus(ctx context.Context, id uint, uid, issueID string, status entities.IssueStatus) (*entities.CropHealth, error)
	ApplyTreatment(ctx context.Context, id uint, uid, issueID string, t entities.Treatment) (*entities.CropHealth, error)
	ResolveIssue(ctx context.Context, id uint, uid, issueID, notes string) (*entities.CropHealth, error)
	AnalyzeImage(ctx context.Context, id uint, uid string, image []byte, contentType string) (*entities.ImageAnalysis, error)
}

// CheckIn is a periodic field visit for one crop.
type CheckIn struct {
	CropID      uint                 `json:"crop_id" validate:"required"`
	GrowthStage entities.GrowthStage `json:"growth_stage" validate:"omitempty,enum"`
	Notes       string               `json:"notes"`
}

type Stats struct {
	Total        int                           `json:"total"`
	ByStatus     map[entities.HealthStatus]int `json:"by_status"`
	AverageScore float64                       `json:"average_score"`
	OpenIssues   int                           `json:"open_issues"`
}

// ComputeStats aggregates records. AverageScore is 0 for an empty set.
func ComputeStats(records []entities.CropHealth) Stats {
	st := Stats{ByStatus: map[entities.HealthStatus]int{}}
	sum := 0
	for _, h := range records {
		st.Total++
		st.ByStatus[h.HealthStatus]++
		sum += h.HealthScore
		st.OpenIssues += h.OpenIssues()
	}
	if st.Total > 0 {
		st.AverageScore = float64(sum) / float64(st.Total)
	}
	return st
}

type WeatherReport struct {
	Location string            `json:"location"`
	Weather  *weather.Snapshot `json:"weather,omitempty"`
	Alerts   []weather.Alert   `json:"alerts"`
}
