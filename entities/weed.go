package entities

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Weed is a reference entry shared across issues.
type Weed struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	Name                   string    `gorm:"index" json:"name" yaml:"name" validate:"required"`
	ScientificName         string    `json:"scientific_name" yaml:"scientific_name"`
	WeedType               string    `json:"weed_type" yaml:"weed_type" validate:"omitempty,oneof=broadleaf grass sedge other"`
	LifeCycle              string    `json:"life_cycle" yaml:"life_cycle" validate:"omitempty,oneof=annual biennial perennial"`
	Description            string    `json:"description" yaml:"description"`
	IdentificationFeatures []string  `gorm:"serializer:json" json:"identification_features" yaml:"identification_features"`
	ControlMethods         []string  `gorm:"serializer:json" json:"control_methods" yaml:"control_methods"`
	AffectedCrops          []string  `gorm:"serializer:json" json:"affected_crops" yaml:"affected_crops"`
	CreatedAt              time.Time `json:"created_at" yaml:"-"`
	UpdatedAt              time.Time `json:"updated_at" yaml:"-"`
}

// WeedIssue is one reported infestation and its control history.
type WeedIssue struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Farmer        string          `gorm:"index" json:"farmer"`
	WeedID        *uint           `gorm:"index" json:"weed_id,omitempty"`
	WeedName      string          `json:"weed_name" validate:"required_without=WeedID"`
	CropID        *uint           `gorm:"index" json:"crop_id,omitempty"`
	FieldID       *uint           `gorm:"index" json:"field_id,omitempty"`
	Location      string          `json:"location"`
	DetectionDate time.Time       `json:"detection_date"`
	ReportedBy    string          `json:"reported_by"`
	Severity      WeedSeverity    `gorm:"index" json:"severity" validate:"required,enum"`
	SeverityScore float64         `json:"severity_score"`
	Infestation   Infestation     `gorm:"serializer:json" json:"infestation"`
	Status        WeedIssueStatus `gorm:"index" json:"status" validate:"omitempty,enum"`
	StatusHistory []StatusChange  `gorm:"serializer:json" json:"status_history"`

	AssignedControlMethod *AssignedControlMethod `gorm:"serializer:json" json:"assigned_control_method,omitempty"`
	ChemicalControl       *ChemicalControl       `gorm:"serializer:json" json:"chemical_control,omitempty"`
	MechanicalControl     *MechanicalControl     `gorm:"serializer:json" json:"mechanical_control,omitempty"`
	CulturalControl       *CulturalControl       `gorm:"serializer:json" json:"cultural_control,omitempty"`
	OrganicControl        *OrganicControl        `gorm:"serializer:json" json:"organic_control,omitempty"`

	ControlApplications []ControlApplication `gorm:"serializer:json" json:"control_applications"`
	MonitoringRecords   []MonitoringRecord   `gorm:"serializer:json" json:"monitoring_records"`

	CostEstimate *CostEstimate `gorm:"serializer:json" json:"cost_estimate,omitempty"`
	ActualCost   ActualCost    `gorm:"serializer:json" json:"actual_cost"`
	Recurrence   Recurrence    `gorm:"serializer:json" json:"recurrence"`
	Outcome      *Outcome      `gorm:"serializer:json" json:"outcome,omitempty"`

	ResolvedDate   *time.Time `json:"resolved_date,omitempty"`
	ControlledDate *time.Time `json:"controlled_date,omitempty"`
	ClearedDate    *time.Time `json:"cleared_date,omitempty"`
	Notes          string     `json:"notes"`
	SyncStatus     string     `gorm:"default:synced" json:"sync_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Infestation struct {
	Area               float64     `json:"area" validate:"gte=0"`
	AffectedPercentage float64     `json:"affected_percentage" validate:"gte=0,lte=100"`
	WeedDensity        WeedDensity `json:"weed_density" validate:"omitempty,enum"`
	GrowthStage        string      `json:"growth_stage"`
	PlantCount         int         `json:"plant_count" validate:"gte=0"`
}

type StatusChange struct {
	Status    WeedIssueStatus `json:"status"`
	ChangedBy string          `json:"changed_by"`
	ChangedAt time.Time       `json:"changed_at"`
	Notes     string          `json:"notes,omitempty"`
}

type AssignedControlMethod struct {
	MethodType  ControlMethodType `json:"method_type" validate:"required,enum"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	AssignedBy  string            `json:"assigned_by"`
	AssignedAt  time.Time         `json:"assigned_at"`
}

type ChemicalControl struct {
	Herbicide        string  `json:"herbicide"`
	ActiveIngredient string  `json:"active_ingredient"`
	Quantity         float64 `json:"quantity" validate:"gte=0"`
	Unit             string  `json:"unit"`
	ApplicationRate  string  `json:"application_rate"`
	SafetyInterval   int     `json:"safety_interval_days"`
}

type MechanicalControl struct {
	Method    string   `json:"method"`
	LaborDays float64  `json:"labor_days" validate:"gte=0"`
	Equipment []string `json:"equipment"`
}

type CulturalControl struct {
	Practices []string `json:"practices"`
	Notes     string   `json:"notes"`
}

type OrganicControl struct {
	Methods []string `json:"methods"`
	Product string   `json:"product"`
}

type ControlApplication struct {
	ID                string            `json:"id"`
	ApplicationNumber int               `json:"application_number"`
	Date              time.Time         `json:"date"`
	MethodType        ControlMethodType `json:"method_type" validate:"omitempty,enum"`
	Product           string            `json:"product"`
	Quantity          float64           `json:"quantity" validate:"gte=0"`
	Unit              string            `json:"unit"`
	AppliedBy         string            `json:"applied_by"`
	Cost              float64           `json:"cost" validate:"gte=0"`
	Status            ApplicationStatus `json:"status" validate:"omitempty,enum"`
	WeatherConditions string            `json:"weather_conditions"`
	Notes             string            `json:"notes"`
}

type MonitoringRecord struct {
	ID              string       `json:"id"`
	Date            time.Time    `json:"date"`
	CurrentSeverity WeedSeverity `json:"current_severity" validate:"omitempty,enum"`
	WeedDensity     WeedDensity  `json:"weed_density" validate:"omitempty,enum"`
	Effectiveness   float64      `json:"effectiveness" validate:"gte=0,lte=100"`
	Regrowth        bool         `json:"regrowth"`
	Observations    string       `json:"observations"`
	RecordedBy      string       `json:"recorded_by"`
}

type CostEstimate struct {
	MaterialCost  float64 `json:"material_cost"`
	LaborCost     float64 `json:"labor_cost"`
	EquipmentCost float64 `json:"equipment_cost"`
	TotalCost     float64 `json:"total_cost"`
	PerAcreCost   float64 `json:"per_acre_cost"`
}

type ActualCost struct {
	TotalCost float64 `json:"total_cost"`
}

type Recurrence struct {
	IsRecurrence    bool  `json:"is_recurrence"`
	RecurrenceCount int   `json:"recurrence_count"`
	PreviousIssueID *uint `json:"previous_issue_id,omitempty"`
}

type Outcome struct {
	TotalApplications int     `json:"total_applications"`
	TotalCost         float64 `json:"total_cost"`
	DaysToResolve     int     `json:"days_to_resolve"`
	Effectiveness     float64 `json:"effectiveness"`
	Notes             string  `json:"notes"`
}

// Heuristic unit prices used by the cost estimate.
const (
	chemicalUnitPrice  = 500
	laborDayRate       = 300
	equipmentUnitPrice = 200
	organicFlatCost    = 400
)

func weedSeverityWeight(s WeedSeverity) float64 {
	switch s {
	case WeedMild:
		return 1
	case WeedModerate:
		return 2
	case WeedSevere:
		return 3
	default:
		return 0
	}
}

func weedDensityWeight(d WeedDensity) float64 {
	switch d {
	case DensityLow:
		return 1
	case DensityMedium:
		return 2
	case DensityHigh:
		return 3
	case DensitySevere:
		return 4
	default:
		return 2
	}
}

// SeverityScore is the 0..100 infestation score.
func SeverityScore(sev WeedSeverity, inf Infestation) float64 {
	score := weedSeverityWeight(sev)*25 + weedDensityWeight(inf.WeedDensity)*15 + (inf.AffectedPercentage/100)*40
	return math.Min(score, 100)
}

// EstimateCost prices the control blocks currently set on the issue.
func (w *WeedIssue) EstimateCost() CostEstimate {
	var est CostEstimate
	if w.ChemicalControl != nil {
		est.MaterialCost = w.ChemicalControl.Quantity * chemicalUnitPrice
	}
	if w.MechanicalControl != nil {
		est.LaborCost = w.MechanicalControl.LaborDays * laborDayRate
		est.EquipmentCost = float64(len(w.MechanicalControl.Equipment)) * equipmentUnitPrice
	}
	if w.OrganicControl != nil {
		est.MaterialCost += organicFlatCost
	}
	est.TotalCost = est.MaterialCost + est.LaborCost + est.EquipmentCost
	est.PerAcreCost = est.TotalCost
	if w.Infestation.Area > 0 {
		est.PerAcreCost = est.TotalCost / w.Infestation.Area
	}
	return est
}

// Recalculate refreshes the derived fields. The cost estimate is only filled
// when absent so a stored estimate survives later edits.
func (w *WeedIssue) Recalculate() {
	w.SeverityScore = SeverityScore(w.Severity, w.Infestation)
	if w.CostEstimate == nil || w.CostEstimate.TotalCost == 0 {
		est := w.EstimateCost()
		w.CostEstimate = &est
	}
	total := 0.0
	for _, a := range w.ControlApplications {
		total += a.Cost
	}
	w.ActualCost.TotalCost = total
}

func (w *WeedIssue) BeforeSave(*gorm.DB) error {
	if w.Status == "" {
		w.Status = WeedReported
	}
	if w.DetectionDate.IsZero() {
		w.DetectionDate = time.Now()
	}
	if w.SyncStatus == "" {
		w.SyncStatus = "synced"
	}
	w.Recalculate()
	return nil
}

// ControlPayload is the body of an assign-control-method request. Only the
// detail block matching Method.MethodType is applied.
type ControlPayload struct {
	Method     AssignedControlMethod `json:"method" validate:"required"`
	Chemical   *ChemicalControl      `json:"chemical_control,omitempty"`
	Mechanical *MechanicalControl    `json:"mechanical_control,omitempty"`
	Cultural   *CulturalControl      `json:"cultural_control,omitempty"`
	Organic    *OrganicControl       `json:"organic_control,omitempty"`
}

func (w *WeedIssue) AssignControlMethod(p ControlPayload, now time.Time) {
	m := p.Method
	if m.AssignedAt.IsZero() {
		m.AssignedAt = now
	}
	w.AssignedControlMethod = &m
	switch m.MethodType {
	case ControlChemical:
		w.ChemicalControl = p.Chemical
	case ControlMechanical:
		w.MechanicalControl = p.Mechanical
	case ControlCultural:
		w.CulturalControl = p.Cultural
	case ControlOrganic:
		w.OrganicControl = p.Organic
	}
	w.Status = WeedControlPlanned
}

func (w *WeedIssue) AddControlApplication(app ControlApplication, now time.Time) *ControlApplication {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Date.IsZero() {
		app.Date = now
	}
	if app.Status == "" {
		app.Status = ApplicationCompleted
	}
	app.ApplicationNumber = len(w.ControlApplications) + 1
	w.ControlApplications = append(w.ControlApplications, app)
	w.Status = WeedControlApplied
	w.Recalculate()
	return &w.ControlApplications[len(w.ControlApplications)-1]
}

// AddMonitoringRecord appends rec and applies the monitoring transitions:
// a mild reading controls the issue unless it is cleared, and regrowth on a
// controlled issue reopens it as a recurrence.
func (w *WeedIssue) AddMonitoringRecord(rec MonitoringRecord, now time.Time) *MonitoringRecord {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Date.IsZero() {
		rec.Date = now
	}
	w.MonitoringRecords = append(w.MonitoringRecords, rec)

	prev := w.Status
	if rec.CurrentSeverity == WeedMild && w.Status != WeedCleared {
		w.Status = WeedControlled
	}
	if rec.Regrowth && prev == WeedControlled {
		w.Status = WeedRecurred
		w.Recurrence.IsRecurrence = true
		w.Recurrence.RecurrenceCount++
	}
	return &w.MonitoringRecords[len(w.MonitoringRecords)-1]
}

type ResolveInput struct {
	Date          *time.Time `json:"date,omitempty"`
	Effectiveness float64    `json:"effectiveness" validate:"gte=0,lte=100"`
	Notes         string     `json:"notes"`
}

func (w *WeedIssue) Resolve(in ResolveInput, now time.Time) {
	resolved := now
	if in.Date != nil {
		resolved = *in.Date
	}
	w.Status = WeedCleared
	w.ResolvedDate = &resolved
	w.ClearedDate = &resolved

	total := 0.0
	for _, a := range w.ControlApplications {
		total += a.Cost
	}
	w.Outcome = &Outcome{
		TotalApplications: len(w.ControlApplications),
		TotalCost:         total,
		DaysToResolve:     int(resolved.Sub(w.DetectionDate).Hours() / 24),
		Effectiveness:     in.Effectiveness,
		Notes:             in.Notes,
	}
}

// UpdateStatus is the generic transition; it always records history.
func (w *WeedIssue) UpdateStatus(status WeedIssueStatus, actor, notes string, now time.Time) {
	w.Status = status
	w.StatusHistory = append(w.StatusHistory, StatusChange{
		Status:    status,
		ChangedBy: actor,
		ChangedAt: now,
		Notes:     notes,
	})
	switch status {
	case WeedControlled:
		w.ControlledDate = &now
	case WeedCleared:
		w.ClearedDate = &now
	}
}
