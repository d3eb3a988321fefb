package service

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/export"
	"farmhub/pkg/store"
)

type ResourceService interface {
	Create(ctx context.Context, r *entities.Resource) (*entities.Resource, error)
	Get(ctx context.Context, id uint, uid string) (*entities.Resource, error)
	List(ctx context.Context, uid string, q store.ListQuery) ([]entities.Resource, store.Pagination, Stats, error)
	Update(ctx context.Context, r *entities.Resource) (*entities.Resource, error)
	Delete(ctx context.Context, id uint, uid string) error

	Use(ctx context.Context, id uint, uid string, in entities.UseInput) (*entities.Resource, *entities.UsageEntry, error)
	// UseMany draws every item or none.
	UseMany(ctx context.Context, uid string, uses []entities.ResourceUse, in entities.UseInput) ([]entities.UsageEntry, error)
	AddStock(ctx context.Context, id uint, uid string, in entities.StockInput) (*entities.Resource, error)
	Alerts(ctx context.Context, uid string, includeAcknowledged bool) ([]ResourceAlert, error)
	AcknowledgeAlert(ctx context.Context, id uint, uid, alertID string) (*entities.Resource, error)
	Export(ctx context.Context, uid string, q store.ListQuery) (export.Table, error)
}

// ResourceAlert is an alert with the resource it belongs to.
type ResourceAlert struct {
	ResourceID   uint           `json:"resource_id"`
	ResourceName string         `json:"resource_name"`
	Alert        entities.Alert `json:"alert"`
}

type Stats struct {
	Total        int                               `json:"total"`
	ByCategory   map[entities.ResourceCategory]int `json:"by_category"`
	LowStock     int                               `json:"low_stock"`
	OutOfStock   int                               `json:"out_of_stock"`
	TotalValue   float64                           `json:"total_value"`
	ActiveAlerts int                               `json:"active_alerts"`
}

func ComputeStats(rs []entities.Resource) Stats {
	st := Stats{ByCategory: map[entities.ResourceCategory]int{}}
	for _, r := range rs {
		st.Total++
		st.ByCategory[r.Category]++
		st.TotalValue += r.TotalCost
		switch r.Status {
		case "low_stock":
			st.LowStock++
		case "out_of_stock":
			st.OutOfStock++
		}
		for _, a := range r.Alerts {
			if !a.Acknowledged {
				st.ActiveAlerts++
			}
		}
	}
	return st
}

// ExportHeader is the fixed column order of resource exports.
var ExportHeader = []string{
	"ID", "Name", "Category", "Unit", "Total Quantity", "Used Quantity", "Available Quantity",
	"Minimum Threshold", "Cost Per Unit", "Total Cost", "Vendor", "Status", "Expiry Date", "Storage Location",
}

func ExportTable(rs []entities.Resource) export.Table {
	t := export.Table{Sheet: "Resources", Header: ExportHeader, Rows: make([][]any, 0, len(rs))}
	for _, r := range rs {
		t.Rows = append(t.Rows, []any{
			r.ID, r.Name, string(r.Category), r.Unit, r.TotalQuantity, r.UsedQuantity, r.AvailableQuantity,
			r.MinimumThreshold, r.CostPerUnit, r.TotalCost, r.Vendor, r.Status, r.ExpiryDate, r.StorageLocation,
		})
	}
	return t
}
