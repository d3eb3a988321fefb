package entities

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrIssueNotFound is returned when an issue id is not present on a record.
var ErrIssueNotFound = errors.New("issue not found")

// CropHealth is the single health record kept per (farmer, crop).
type CropHealth struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Farmer       string       `gorm:"index;uniqueIndex:idx_crop_health_farmer_crop,priority:1" json:"farmer"`
	CropID       uint         `gorm:"uniqueIndex:idx_crop_health_farmer_crop,priority:2" json:"crop_id" validate:"required"`
	CropName     string       `json:"crop_name"`
	FieldID      *uint        `gorm:"index" json:"field_id,omitempty"`
	GrowthStage  GrowthStage  `json:"growth_stage" validate:"omitempty,enum"`
	HealthScore  int          `json:"health_score"`
	HealthStatus HealthStatus `gorm:"index" json:"health_status"`

	Issues        []HealthIssue   `gorm:"serializer:json" json:"issues"`
	ImageAnalyses []ImageAnalysis `gorm:"serializer:json" json:"image_analyses"`
	LastCheckIn   *time.Time      `json:"last_check_in,omitempty"`
	Notes         string          `json:"notes"`
	SyncStatus    string          `gorm:"default:synced" json:"sync_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HealthIssue struct {
	ID              string        `json:"id"`
	Type            IssueType     `json:"type" validate:"required,enum"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Symptoms        []string      `json:"symptoms"`
	Severity        IssueSeverity `json:"severity" validate:"required,enum"`
	AffectedArea    float64       `json:"affected_area" validate:"gte=0,lte=100"`
	Status          IssueStatus   `json:"status" validate:"omitempty,enum"`
	DetectedAt      time.Time     `json:"detected_at"`
	ResolvedAt      *time.Time    `json:"resolved_at,omitempty"`
	ResolutionNotes string        `json:"resolution_notes,omitempty"`
	AIAnalysis      *AIAnalysis   `json:"ai_analysis,omitempty"`
	Treatments      []Treatment   `json:"treatments"`
}

// AIAnalysis carries a diagnosis suggestion. Source tells whether it came
// from the reference lookup or an image classifier.
type AIAnalysis struct {
	SuggestedDiagnosis    string   `json:"suggested_diagnosis"`
	Confidence            float64  `json:"confidence"`
	RecommendedTreatments []string `json:"recommended_treatments"`
	Source                string   `json:"source"`
}

type Treatment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Product   string    `json:"product"`
	Dosage    string    `json:"dosage"`
	Cost      float64   `json:"cost" validate:"gte=0"`
	AppliedAt time.Time `json:"applied_at"`
	Notes     string    `json:"notes"`
}

type ImageAnalysis struct {
	ID              string    `json:"id"`
	ImageKey        string    `json:"image_key"`
	Label           string    `json:"label"`
	Confidence      float64   `json:"confidence"`
	Recommendations []string  `json:"recommendations"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// issueSeverityWeight is the score deduction at 100% affected area. Unknown
// severities weigh 0; kept for parity with stored data, do not reuse.
func issueSeverityWeight(s IssueSeverity) float64 {
	switch s {
	case SeverityLow:
		return 10
	case SeverityMedium:
		return 25
	case SeverityHigh:
		return 50
	case SeverityCritical:
		return 75
	default:
		return 0
	}
}

// HealthScore computes the score for an issue set. Resolved issues do not count.
func HealthScore(issues []HealthIssue) int {
	score := 100.0
	for _, is := range issues {
		if is.Status == IssueResolved {
			continue
		}
		score -= issueSeverityWeight(is.Severity) * (is.AffectedArea / 100)
	}
	score = math.Max(0, math.Min(100, score))
	return int(math.Round(score))
}

// StatusForScore maps a score onto a health status.
func StatusForScore(score int) HealthStatus {
	switch {
	case score >= 80:
		return HealthHealthy
	case score >= 50:
		return HealthWarning
	default:
		return HealthCritical
	}
}

// Recalculate recomputes score and status from the full issue list.
func (h *CropHealth) Recalculate() {
	h.HealthScore = HealthScore(h.Issues)
	h.HealthStatus = StatusForScore(h.HealthScore)
}

func (h *CropHealth) BeforeSave(*gorm.DB) error {
	if h.SyncStatus == "" {
		h.SyncStatus = "synced"
	}
	h.Recalculate()
	return nil
}

// AddIssue appends issue, filling id, status and detection time.
func (h *CropHealth) AddIssue(issue HealthIssue, now time.Time) *HealthIssue {
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	if issue.Status == "" {
		issue.Status = IssueDetected
	}
	if issue.DetectedAt.IsZero() {
		issue.DetectedAt = now
	}
	if issue.Treatments == nil {
		issue.Treatments = []Treatment{}
	}
	h.Issues = append(h.Issues, issue)
	h.Recalculate()
	return &h.Issues[len(h.Issues)-1]
}

func (h *CropHealth) Issue(id string) (*HealthIssue, error) {
	for i := range h.Issues {
		if h.Issues[i].ID == id {
			return &h.Issues[i], nil
		}
	}
	return nil, ErrIssueNotFound
}

// ResolveIssue marks the issue resolved so it stops weighing on the score.
func (h *CropHealth) ResolveIssue(id, notes string, now time.Time) (*HealthIssue, error) {
	is, err := h.Issue(id)
	if err != nil {
		return nil, err
	}
	is.Status = IssueResolved
	is.ResolvedAt = &now
	is.ResolutionNotes = notes
	h.Recalculate()
	return is, nil
}

func (h *CropHealth) ApplyTreatment(id string, t Treatment, now time.Time) (*HealthIssue, error) {
	is, err := h.Issue(id)
	if err != nil {
		return nil, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.AppliedAt.IsZero() {
		t.AppliedAt = now
	}
	is.Treatments = append(is.Treatments, t)
	is.Status = IssueTreatmentApplied
	h.Recalculate()
	return is, nil
}

// SetIssueStatus moves an issue to status. Resolving goes through ResolveIssue
// so resolved_at is always set.
func (h *CropHealth) SetIssueStatus(id string, status IssueStatus, now time.Time) (*HealthIssue, error) {
	if status == IssueResolved {
		return h.ResolveIssue(id, "", now)
	}
	is, err := h.Issue(id)
	if err != nil {
		return nil, err
	}
	is.Status = status
	if status == IssueRecurred {
		is.ResolvedAt = nil
	}
	h.Recalculate()
	return is, nil
}

// OpenIssues counts issues that still affect the score.
func (h *CropHealth) OpenIssues() int {
	n := 0
	for _, is := range h.Issues {
		if is.Status != IssueResolved {
			n++
		}
	}
	return n
}
