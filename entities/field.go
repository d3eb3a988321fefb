package entities

import (
	"time"

	"gorm.io/datatypes"
)

type Field struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Farmer         string    `gorm:"index" json:"farmer"`
	Name           string    `json:"name" validate:"required"`
	Area           float64   `json:"area" validate:"gte=0"`
	AreaUnit       string    `gorm:"default:acre" json:"area_unit"`
	SoilTexture    string    `json:"soil_texture" validate:"omitempty,oneof=sand loam clay"`
	IrrigationType string    `json:"irrigation_type"` // drip|sprinkler|flood|rainfed
	Location       string    `json:"location"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Status         string    `gorm:"default:active" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Crop struct {
	ID                  uint              `gorm:"primaryKey" json:"id"`
	Farmer              string            `gorm:"index" json:"farmer"`
	Name                string            `gorm:"index" json:"name" validate:"required"`
	Variety             string            `json:"variety"`
	FieldID             *uint             `gorm:"index" json:"field_id,omitempty"`
	Area                float64           `json:"area" validate:"gte=0"`
	PlantingDate        *time.Time        `json:"planting_date,omitempty"`
	ExpectedHarvestDate *time.Time        `json:"expected_harvest_date,omitempty"`
	ActualHarvestDate   *time.Time        `json:"actual_harvest_date,omitempty"`
	GrowthStage         GrowthStage       `json:"growth_stage" validate:"omitempty,enum"`
	Status              CropStatus        `gorm:"index" json:"status" validate:"omitempty,enum"`
	ExpectedYield       float64           `json:"expected_yield" validate:"gte=0"`
	ActualYield         float64           `json:"actual_yield" validate:"gte=0"`
	YieldUnit           string            `json:"yield_unit"`
	Notes               string            `json:"notes"`
	Attributes          datatypes.JSONMap `json:"attributes,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

type Worker struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Farmer    string     `gorm:"index" json:"farmer"`
	Name      string     `json:"name" validate:"required"`
	Role      string     `json:"role"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email" validate:"omitempty,email"`
	DailyWage float64    `json:"daily_wage" validate:"gte=0"`
	Skills    []string   `gorm:"serializer:json" json:"skills"`
	Status    string     `gorm:"default:active" json:"status" validate:"omitempty,oneof=active inactive"`
	HireDate  *time.Time `json:"hire_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TimelineActivity is one dated farm task, entered by hand or generated from
// a crop plan.
type TimelineActivity struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Farmer           string         `gorm:"index" json:"farmer"`
	CropID           *uint          `gorm:"index" json:"crop_id,omitempty"`
	FieldID          *uint          `gorm:"index" json:"field_id,omitempty"`
	Type             ActivityType   `gorm:"index" json:"type" validate:"required,enum"`
	Title            string         `json:"title" validate:"required"`
	Description      string         `json:"description"`
	ScheduledDate    time.Time      `gorm:"index" json:"scheduled_date"`
	CompletedDate    *time.Time     `json:"completed_date,omitempty"`
	Status           ActivityStatus `gorm:"index" json:"status" validate:"omitempty,enum"`
	Priority         string         `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedWorkerID *uint          `json:"assigned_worker_id,omitempty"`
	Stage            string         `json:"stage,omitempty"`
	Qty              *float64       `json:"qty,omitempty"`
	Unit             string         `json:"unit,omitempty"`
	ResourcesUsed    []ResourceUse  `gorm:"serializer:json" json:"resources_used" validate:"dive"`
	Cost             float64        `json:"cost" validate:"gte=0"`
	Generated        bool           `gorm:"index" json:"generated"`
	Notes            string         `json:"notes"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type ResourceUse struct {
	ResourceID uint    `json:"resource_id" validate:"required"`
	Quantity   float64 `json:"quantity" validate:"gt=0"`
}

// Disease is a reference entry used by symptom matching.
type Disease struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"index" json:"name" yaml:"name" validate:"required"`
	ScientificName     string    `json:"scientific_name" yaml:"scientific_name"`
	AffectedCrops      []string  `gorm:"serializer:json" json:"affected_crops" yaml:"affected_crops"`
	Symptoms           []string  `gorm:"serializer:json" json:"symptoms" yaml:"symptoms" validate:"required,min=1"`
	Treatments         []string  `gorm:"serializer:json" json:"treatments" yaml:"treatments"`
	PreventiveMeasures []string  `gorm:"serializer:json" json:"preventive_measures" yaml:"preventive_measures"`
	SourceURL          string    `json:"source_url" yaml:"source_url"`
	CreatedAt          time.Time `json:"created_at" yaml:"-"`
	UpdatedAt          time.Time `json:"updated_at" yaml:"-"`
}
