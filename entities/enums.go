package entities

import (
	"fmt"
	"slices"
)

// Enum is implemented by every closed string set in this package. The
// validation layer uses it for the `enum` rule.
type Enum interface {
	Valid() bool
}

// parseEnum accepts the empty string (optional fields) or one of allowed.
func parseEnum[T ~string](kind string, allowed []T, text []byte, dst *T) error {
	v := T(text)
	if v != "" && !slices.Contains(allowed, v) {
		return fmt.Errorf("invalid %s %q", kind, string(text))
	}
	*dst = v
	return nil
}

type GrowthStage string

const (
	StageGermination GrowthStage = "germination"
	StageSeedling    GrowthStage = "seedling"
	StageVegetative  GrowthStage = "vegetative"
	StageFlowering   GrowthStage = "flowering"
	StageFruiting    GrowthStage = "fruiting"
	StageMaturity    GrowthStage = "maturity"
	StageHarvest     GrowthStage = "harvest"
)

var GrowthStages = []GrowthStage{StageGermination, StageSeedling, StageVegetative, StageFlowering, StageFruiting, StageMaturity, StageHarvest}

func (s GrowthStage) Valid() bool { return slices.Contains(GrowthStages, s) }
func (s *GrowthStage) UnmarshalText(b []byte) error {
	return parseEnum("growth stage", GrowthStages, b, s)
}

// IssueSeverity grades a crop-health issue.
type IssueSeverity string

const (
	SeverityLow      IssueSeverity = "low"
	SeverityMedium   IssueSeverity = "medium"
	SeverityHigh     IssueSeverity = "high"
	SeverityCritical IssueSeverity = "critical"
)

var IssueSeverities = []IssueSeverity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func (s IssueSeverity) Valid() bool { return slices.Contains(IssueSeverities, s) }
func (s *IssueSeverity) UnmarshalText(b []byte) error {
	return parseEnum("issue severity", IssueSeverities, b, s)
}

type IssueStatus string

const (
	IssueDetected         IssueStatus = "detected"
	IssueDiagnosed        IssueStatus = "diagnosed"
	IssueTreatmentPlanned IssueStatus = "treatment_planned"
	IssueTreatmentApplied IssueStatus = "treatment_applied"
	IssueMonitoring       IssueStatus = "monitoring"
	IssueResolved         IssueStatus = "resolved"
	IssueRecurred         IssueStatus = "recurred"
)

var IssueStatuses = []IssueStatus{IssueDetected, IssueDiagnosed, IssueTreatmentPlanned, IssueTreatmentApplied, IssueMonitoring, IssueResolved, IssueRecurred}

func (s IssueStatus) Valid() bool { return slices.Contains(IssueStatuses, s) }
func (s *IssueStatus) UnmarshalText(b []byte) error {
	return parseEnum("issue status", IssueStatuses, b, s)
}

type IssueType string

const (
	IssueDisease       IssueType = "disease"
	IssuePest          IssueType = "pest"
	IssueNutrient      IssueType = "nutrient_deficiency"
	IssueWaterStress   IssueType = "water_stress"
	IssueWeatherDamage IssueType = "weather_damage"
	IssueOther         IssueType = "other"
)

var IssueTypes = []IssueType{IssueDisease, IssuePest, IssueNutrient, IssueWaterStress, IssueWeatherDamage, IssueOther}

func (s IssueType) Valid() bool { return slices.Contains(IssueTypes, s) }
func (s *IssueType) UnmarshalText(b []byte) error {
	return parseEnum("issue type", IssueTypes, b, s)
}

// HealthStatus is derived from the health score. Recovering exists for
// clients that set it on older records; the scoring never produces it.
type HealthStatus string

const (
	HealthHealthy    HealthStatus = "healthy"
	HealthWarning    HealthStatus = "warning"
	HealthCritical   HealthStatus = "critical"
	HealthRecovering HealthStatus = "recovering"
)

var HealthStatuses = []HealthStatus{HealthHealthy, HealthWarning, HealthCritical, HealthRecovering}

func (s HealthStatus) Valid() bool { return slices.Contains(HealthStatuses, s) }
func (s *HealthStatus) UnmarshalText(b []byte) error {
	return parseEnum("health status", HealthStatuses, b, s)
}

type WeedSeverity string

const (
	WeedMild     WeedSeverity = "mild"
	WeedModerate WeedSeverity = "moderate"
	WeedSevere   WeedSeverity = "severe"
)

var WeedSeverities = []WeedSeverity{WeedMild, WeedModerate, WeedSevere}

func (s WeedSeverity) Valid() bool { return slices.Contains(WeedSeverities, s) }
func (s *WeedSeverity) UnmarshalText(b []byte) error {
	return parseEnum("weed severity", WeedSeverities, b, s)
}

type WeedDensity string

const (
	DensityLow    WeedDensity = "low"
	DensityMedium WeedDensity = "medium"
	DensityHigh   WeedDensity = "high"
	DensitySevere WeedDensity = "severe"
)

var WeedDensities = []WeedDensity{DensityLow, DensityMedium, DensityHigh, DensitySevere}

func (s WeedDensity) Valid() bool { return slices.Contains(WeedDensities, s) }
func (s *WeedDensity) UnmarshalText(b []byte) error {
	return parseEnum("weed density", WeedDensities, b, s)
}

type WeedIssueStatus string

const (
	WeedReported       WeedIssueStatus = "reported"
	WeedDiagnosed      WeedIssueStatus = "diagnosed"
	WeedControlPlanned WeedIssueStatus = "control_planned"
	WeedControlApplied WeedIssueStatus = "control_applied"
	WeedMonitoring     WeedIssueStatus = "monitoring"
	WeedControlled     WeedIssueStatus = "controlled"
	WeedCleared        WeedIssueStatus = "cleared"
	WeedRecurred       WeedIssueStatus = "recurred"
)

var WeedIssueStatuses = []WeedIssueStatus{WeedReported, WeedDiagnosed, WeedControlPlanned, WeedControlApplied, WeedMonitoring, WeedControlled, WeedCleared, WeedRecurred}

func (s WeedIssueStatus) Valid() bool { return slices.Contains(WeedIssueStatuses, s) }
func (s *WeedIssueStatus) UnmarshalText(b []byte) error {
	return parseEnum("weed issue status", WeedIssueStatuses, b, s)
}

type ControlMethodType string

const (
	ControlChemical   ControlMethodType = "chemical"
	ControlMechanical ControlMethodType = "mechanical"
	ControlCultural   ControlMethodType = "cultural"
	ControlOrganic    ControlMethodType = "organic"
)

var ControlMethodTypes = []ControlMethodType{ControlChemical, ControlMechanical, ControlCultural, ControlOrganic}

func (s ControlMethodType) Valid() bool { return slices.Contains(ControlMethodTypes, s) }
func (s *ControlMethodType) UnmarshalText(b []byte) error {
	return parseEnum("control method type", ControlMethodTypes, b, s)
}

// ApplicationStatus is the sub-state of a single control application.
type ApplicationStatus string

const (
	ApplicationPlanned    ApplicationStatus = "planned"
	ApplicationInProgress ApplicationStatus = "in_progress"
	ApplicationCompleted  ApplicationStatus = "completed"
	ApplicationCancelled  ApplicationStatus = "cancelled"
)

var ApplicationStatuses = []ApplicationStatus{ApplicationPlanned, ApplicationInProgress, ApplicationCompleted, ApplicationCancelled}

func (s ApplicationStatus) Valid() bool { return slices.Contains(ApplicationStatuses, s) }
func (s *ApplicationStatus) UnmarshalText(b []byte) error {
	return parseEnum("application status", ApplicationStatuses, b, s)
}

type ResourceCategory string

const (
	ResourceSeed       ResourceCategory = "seed"
	ResourceFertilizer ResourceCategory = "fertilizer"
	ResourcePesticide  ResourceCategory = "pesticide"
	ResourceHerbicide  ResourceCategory = "herbicide"
	ResourceEquipment  ResourceCategory = "equipment"
	ResourceFuel       ResourceCategory = "fuel"
	ResourceTool       ResourceCategory = "tool"
	ResourceOther      ResourceCategory = "other"
)

var ResourceCategories = []ResourceCategory{ResourceSeed, ResourceFertilizer, ResourcePesticide, ResourceHerbicide, ResourceEquipment, ResourceFuel, ResourceTool, ResourceOther}

func (s ResourceCategory) Valid() bool { return slices.Contains(ResourceCategories, s) }
func (s *ResourceCategory) UnmarshalText(b []byte) error {
	return parseEnum("resource category", ResourceCategories, b, s)
}

// AlertSeverity is shared by resource and budget alerts.
type AlertSeverity string

const (
	AlertLow    AlertSeverity = "low"
	AlertMedium AlertSeverity = "medium"
	AlertHigh   AlertSeverity = "high"
)

var AlertSeverities = []AlertSeverity{AlertLow, AlertMedium, AlertHigh}

func (s AlertSeverity) Valid() bool { return slices.Contains(AlertSeverities, s) }
func (s *AlertSeverity) UnmarshalText(b []byte) error {
	return parseEnum("alert severity", AlertSeverities, b, s)
}

type TransactionType string

const (
	TxIncome  TransactionType = "income"
	TxExpense TransactionType = "expense"
)

var TransactionTypes = []TransactionType{TxIncome, TxExpense}

func (s TransactionType) Valid() bool { return slices.Contains(TransactionTypes, s) }
func (s *TransactionType) UnmarshalText(b []byte) error {
	return parseEnum("transaction type", TransactionTypes, b, s)
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPartial, PaymentPaid, PaymentOverdue}

func (s PaymentStatus) Valid() bool { return slices.Contains(PaymentStatuses, s) }
func (s *PaymentStatus) UnmarshalText(b []byte) error {
	return parseEnum("payment status", PaymentStatuses, b, s)
}

type ActivityType string

const (
	ActivityPlanting     ActivityType = "planting"
	ActivityIrrigation   ActivityType = "irrigation"
	ActivityFertilizing  ActivityType = "fertilization"
	ActivityPestControl  ActivityType = "pest_control"
	ActivityWeeding      ActivityType = "weeding"
	ActivityScouting     ActivityType = "scouting"
	ActivityHarvesting   ActivityType = "harvesting"
	ActivityMaintenance  ActivityType = "maintenance"
	ActivityOtherGeneric ActivityType = "other"
)

var ActivityTypes = []ActivityType{ActivityPlanting, ActivityIrrigation, ActivityFertilizing, ActivityPestControl, ActivityWeeding, ActivityScouting, ActivityHarvesting, ActivityMaintenance, ActivityOtherGeneric}

func (s ActivityType) Valid() bool { return slices.Contains(ActivityTypes, s) }
func (s *ActivityType) UnmarshalText(b []byte) error {
	return parseEnum("activity type", ActivityTypes, b, s)
}

type ActivityStatus string

const (
	ActivityScheduled  ActivityStatus = "scheduled"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityCompleted  ActivityStatus = "completed"
	ActivityCancelled  ActivityStatus = "cancelled"
)

var ActivityStatuses = []ActivityStatus{ActivityScheduled, ActivityInProgress, ActivityCompleted, ActivityCancelled}

func (s ActivityStatus) Valid() bool { return slices.Contains(ActivityStatuses, s) }
func (s *ActivityStatus) UnmarshalText(b []byte) error {
	return parseEnum("activity status", ActivityStatuses, b, s)
}

type CropStatus string

const (
	CropPlanned   CropStatus = "planned"
	CropPlanted   CropStatus = "planted"
	CropGrowing   CropStatus = "growing"
	CropHarvested CropStatus = "harvested"
	CropFailed    CropStatus = "failed"
)

var CropStatuses = []CropStatus{CropPlanned, CropPlanted, CropGrowing, CropHarvested, CropFailed}

func (s CropStatus) Valid() bool { return slices.Contains(CropStatuses, s) }
func (s *CropStatus) UnmarshalText(b []byte) error {
	return parseEnum("crop status", CropStatuses, b, s)
}
