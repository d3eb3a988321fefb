package entities

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrInsufficientQuantity is returned by Use when stock cannot cover a request.
var ErrInsufficientQuantity = errors.New("insufficient quantity")

// Alert windows, in days.
const (
	expiryWindowDays      = 30
	expiryUrgentDays      = 7
	maintenanceWindowDays = 14
	maintenanceUrgentDays = 3
)

type Resource struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	Farmer            string           `gorm:"index" json:"farmer"`
	Name              string           `json:"name" validate:"required"`
	Category          ResourceCategory `gorm:"index" json:"category" validate:"required,enum"`
	Unit              string           `json:"unit"`
	TotalQuantity     float64          `json:"total_quantity" validate:"gte=0"`
	UsedQuantity      float64          `json:"used_quantity" validate:"gte=0"`
	AvailableQuantity float64          `json:"available_quantity"`
	MinimumThreshold  float64          `json:"minimum_threshold" validate:"gte=0"`
	CostPerUnit       float64          `json:"cost_per_unit" validate:"gte=0"`
	TotalCost         float64          `json:"total_cost"`
	Vendor            string           `json:"vendor"`
	PurchaseDate      *time.Time       `json:"purchase_date,omitempty"`
	ExpiryDate        *time.Time       `json:"expiry_date,omitempty"`
	StorageLocation   string           `json:"storage_location"`
	Status            string           `gorm:"index" json:"status"`

	Maintenance    *Maintenance      `gorm:"serializer:json" json:"maintenance,omitempty"`
	UsageHistory   []UsageEntry      `gorm:"serializer:json" json:"usage_history"`
	MonthlyUsage   []UsageCostBucket `gorm:"serializer:json" json:"monthly_usage"`
	Alerts         []Alert           `gorm:"serializer:json" json:"alerts"`
	Specifications datatypes.JSONMap `json:"specifications,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Maintenance struct {
	LastDate     *time.Time `json:"last_date,omitempty"`
	NextDate     *time.Time `json:"next_date,omitempty"`
	IntervalDays int        `json:"interval_days"`
}

type UsageEntry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Quantity float64   `json:"quantity"`
	Purpose  string    `json:"purpose"`
	CropID   *uint     `json:"crop_id,omitempty"`
	FieldID  *uint     `json:"field_id,omitempty"`
	UsedBy   string    `json:"used_by"`
	Cost     float64   `json:"cost"`
}

// UsageCostBucket aggregates usage per calendar month (Month is YYYY-MM).
type UsageCostBucket struct {
	Month    string  `json:"month"`
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
}

// Alert is used by resources and budgets. Key distinguishes alerts of the same
// type (a budget category); resources leave it empty.
type Alert struct {
	ID             string        `json:"id"`
	Type           string        `json:"type"`
	Key            string        `json:"key,omitempty"`
	Severity       AlertSeverity `json:"severity"`
	Message        string        `json:"message"`
	CreatedAt      time.Time     `json:"created_at"`
	Acknowledged   bool          `json:"acknowledged"`
	AcknowledgedAt *time.Time    `json:"acknowledged_at,omitempty"`
}

const (
	AlertLowStock    = "low_stock"
	AlertOutOfStock  = "out_of_stock"
	AlertExpiry      = "expiry"
	AlertMaintenance = "maintenance"
)

// daysUntil rounds up partial days so "later today" counts as one day.
func daysUntil(now, t time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

// mergeAlerts keeps id, created_at and acknowledgement of alerts that already
// existed with the same type and key, so a rebuilt list keeps what the user
// already acknowledged.
func mergeAlerts(prev, next []Alert) []Alert {
	old := make(map[string]Alert, len(prev))
	for _, a := range prev {
		old[a.Type+"/"+a.Key] = a
	}
	for i := range next {
		if p, ok := old[next[i].Type+"/"+next[i].Key]; ok {
			next[i].ID = p.ID
			next[i].CreatedAt = p.CreatedAt
			next[i].Acknowledged = p.Acknowledged
			next[i].AcknowledgedAt = p.AcknowledgedAt
		}
	}
	return next
}

func newAlert(typ, key string, sev AlertSeverity, msg string, now time.Time) Alert {
	return Alert{ID: uuid.NewString(), Type: typ, Key: key, Severity: sev, Message: msg, CreatedAt: now}
}

// AcknowledgeAlert flags an alert as seen.
func AcknowledgeAlert(alerts []Alert, id string, now time.Time) bool {
	for i := range alerts {
		if alerts[i].ID == id {
			alerts[i].Acknowledged = true
			alerts[i].AcknowledgedAt = &now
			return true
		}
	}
	return false
}

// GenerateAlerts replaces Alerts from the four stock rules evaluated at now.
// Running it twice with the same inputs yields the same slice.
func (r *Resource) GenerateAlerts(now time.Time) []Alert {
	next := []Alert{}
	if r.AvailableQuantity > 0 && r.AvailableQuantity <= r.MinimumThreshold {
		next = append(next, newAlert(AlertLowStock, "", AlertMedium,
			fmt.Sprintf("%s is low on stock: %g %s left (threshold %g)", r.Name, r.AvailableQuantity, r.Unit, r.MinimumThreshold), now))
	}
	if r.AvailableQuantity <= 0 {
		next = append(next, newAlert(AlertOutOfStock, "", AlertHigh,
			fmt.Sprintf("%s is out of stock", r.Name), now))
	}
	if r.ExpiryDate != nil {
		if d := daysUntil(now, *r.ExpiryDate); d > 0 && d <= expiryWindowDays {
			sev := AlertMedium
			if d <= expiryUrgentDays {
				sev = AlertHigh
			}
			next = append(next, newAlert(AlertExpiry, "", sev,
				fmt.Sprintf("%s expires in %d days", r.Name, d), now))
		}
	}
	if r.Category == ResourceEquipment && r.Maintenance != nil && r.Maintenance.NextDate != nil {
		if d := daysUntil(now, *r.Maintenance.NextDate); d > 0 && d <= maintenanceWindowDays {
			sev := AlertMedium
			if d <= maintenanceUrgentDays {
				sev = AlertHigh
			}
			next = append(next, newAlert(AlertMaintenance, "", sev,
				fmt.Sprintf("%s is due for maintenance in %d days", r.Name, d), now))
		}
	}
	r.Alerts = mergeAlerts(r.Alerts, next)
	return r.Alerts
}

// Recalculate refreshes quantities, cost, status and alerts.
func (r *Resource) Recalculate(now time.Time) {
	r.AvailableQuantity = r.TotalQuantity - r.UsedQuantity
	r.TotalCost = r.CostPerUnit * r.TotalQuantity
	switch {
	case r.AvailableQuantity <= 0:
		r.Status = "out_of_stock"
	case r.AvailableQuantity <= r.MinimumThreshold:
		r.Status = "low_stock"
	default:
		r.Status = "available"
	}
	r.GenerateAlerts(now)
}

func (r *Resource) BeforeSave(*gorm.DB) error {
	r.Recalculate(time.Now())
	return nil
}

type UseInput struct {
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Purpose  string  `json:"purpose"`
	CropID   *uint   `json:"crop_id,omitempty"`
	FieldID  *uint   `json:"field_id,omitempty"`
	UsedBy   string  `json:"used_by"`
}

// Use draws quantity from stock. On failure the resource is left untouched.
func (r *Resource) Use(in UseInput, now time.Time) (*UsageEntry, error) {
	if in.Quantity > r.AvailableQuantity {
		return nil, fmt.Errorf("%w: requested %g %s of %s, only %g available",
			ErrInsufficientQuantity, in.Quantity, r.Unit, r.Name, r.AvailableQuantity)
	}
	r.AvailableQuantity -= in.Quantity
	r.UsedQuantity += in.Quantity

	cost := in.Quantity * r.CostPerUnit
	entry := UsageEntry{
		ID:       uuid.NewString(),
		Date:     now,
		Quantity: in.Quantity,
		Purpose:  in.Purpose,
		CropID:   in.CropID,
		FieldID:  in.FieldID,
		UsedBy:   in.UsedBy,
		Cost:     cost,
	}
	r.UsageHistory = append(r.UsageHistory, entry)

	month := now.Format("2006-01")
	found := false
	for i := range r.MonthlyUsage {
		if r.MonthlyUsage[i].Month == month {
			r.MonthlyUsage[i].Quantity += in.Quantity
			r.MonthlyUsage[i].Cost += cost
			found = true
			break
		}
	}
	if !found {
		r.MonthlyUsage = append(r.MonthlyUsage, UsageCostBucket{Month: month, Quantity: in.Quantity, Cost: cost})
	}
	return &r.UsageHistory[len(r.UsageHistory)-1], nil
}

type StockInput struct {
	Quantity    float64  `json:"quantity" validate:"gt=0"`
	CostPerUnit *float64 `json:"cost_per_unit,omitempty" validate:"omitempty,gte=0"`
	Vendor      string   `json:"vendor"`
}

func (r *Resource) AddStock(in StockInput) {
	r.TotalQuantity += in.Quantity
	r.AvailableQuantity += in.Quantity
	if in.CostPerUnit != nil {
		r.CostPerUnit = *in.CostPerUnit
	}
	if in.Vendor != "" {
		r.Vendor = in.Vendor
	}
	r.TotalCost = r.CostPerUnit * r.TotalQuantity
}
