// Package planner turns a crop's planting date into staged timeline activities.
package planner

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"farmhub/entities"
)

type StagePlan struct {
	Stage      string    `json:"stage"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	WaterMMDay float64   `json:"water_mm_day"`
	Notes      string    `json:"notes,omitempty"`
}

type RulesEngine interface {
	BuildStages(crop *entities.Crop, planting time.Time) []StagePlan
	Expand(crop *entities.Crop, field *entities.Field, stages []StagePlan) []entities.TimelineActivity
}

type stageRow struct {
	Name         string
	Days         int
	WaterMMDay   float64
	IntervalDays int
	Notes        string
}

type rules struct {
	stageCfg []stageRow
	adj      map[string]float64 // crop name -> duration factor
	soilIrr  map[string]int     // soil texture -> irrigation interval
}

const (
	defaultInterval = 3
	// square metres per acre
	acreM2           = 4046.86
	fertilizerKgAcre = 50.0
)

var defaultSoilInterval = map[string]int{"sand": 2, "loam": 3, "clay": 4}

var fertilizedStages = map[string]bool{
	string(entities.StageVegetative): true,
	string(entities.StageFlowering):  true,
}

// Default is the built-in stage table used when no config files are present.
func Default() RulesEngine {
	return &rules{
		stageCfg: []stageRow{
			{Name: "germination", Days: 10, WaterMMDay: 3},
			{Name: "seedling", Days: 20, WaterMMDay: 4},
			{Name: "vegetative", Days: 40, WaterMMDay: 5},
			{Name: "flowering", Days: 25, WaterMMDay: 6},
			{Name: "fruiting", Days: 30, WaterMMDay: 5},
			{Name: "maturity", Days: 20, WaterMMDay: 3},
		},
		adj:     map[string]float64{},
		soilIrr: map[string]int{},
	}
}

// LoadFromFiles reads the stage table (required) plus optional crop
// adjustments and an XLSX of soil interval overrides.
func LoadFromFiles(stageCSV, cropAdjCSV, overridesXLSX string) (RulesEngine, error) {
	r := &rules{adj: map[string]float64{}, soilIrr: map[string]int{}}

	if stageCSV != "" {
		f, err := os.Open(stageCSV)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := r.loadStages(f); err != nil {
			return nil, fmt.Errorf("%s: %w", stageCSV, err)
		}
	}
	if cropAdjCSV != "" {
		if f, err := os.Open(cropAdjCSV); err == nil {
			_ = r.loadAdj(f)
			f.Close()
		}
	}
	if overridesXLSX != "" {
		if err := r.loadSoilXLSX(overridesXLSX); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", overridesXLSX, err)
		}
	}
	if len(r.stageCfg) == 0 {
		return nil, errors.New("no stage config loaded")
	}
	return r, nil
}

func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func (r *rules) loadStages(in io.Reader) error {
	cr := csv.NewReader(in)
	head, err := cr.Read()
	if err != nil {
		return err
	}
	hmap := map[string]int{}
	for i, h := range head {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cStage := findAny("stage", "phase")
	cDays := findAny("days", "duration", "days_in_stage")
	cWmm := findAny("water_mm_per_day", "water_mm_day", "waterneed")
	cInt := findAny("interval", "irrigation_interval")
	cNote := findAny("notes", "note", "tips")
	if cStage == -1 || cDays == -1 || cWmm == -1 {
		return fmt.Errorf("missing required columns, found %v; need stage, days, water_mm_per_day", head)
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		days, _ := strconv.Atoi(get(cDays))
		if days <= 0 {
			continue
		}
		wmm, _ := strconv.ParseFloat(get(cWmm), 64)
		interval := 0
		if v, err := strconv.Atoi(get(cInt)); err == nil && v > 0 {
			interval = v
		}
		r.stageCfg = append(r.stageCfg, stageRow{
			Name:         strings.ToLower(get(cStage)),
			Days:         days,
			WaterMMDay:   wmm,
			IntervalDays: interval,
			Notes:        get(cNote),
		})
	}
	return nil
}

func (r *rules) loadAdj(in io.Reader) error {
	cr := csv.NewReader(in)
	if _, err := cr.Read(); err != nil {
		return err
	}
	for {
		rec, err := cr.Read()
		if err != nil {
			break
		}
		if len(rec) < 2 {
			continue
		}
		if fac, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64); err == nil && fac > 0 {
			r.adj[strings.ToLower(strings.TrimSpace(rec[0]))] = fac
		}
	}
	return nil
}

// loadSoilXLSX reads sheet "SoilIntervals" with columns soil, interval_days.
func (r *rules) loadSoilXLSX(path string) error {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer x.Close()
	rows, err := x.GetRows("SoilIntervals")
	if err != nil {
		return err
	}
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		if v, err := strconv.Atoi(strings.TrimSpace(row[1])); err == nil && v > 0 {
			r.soilIrr[strings.ToLower(strings.TrimSpace(row[0]))] = v
		}
	}
	return nil
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (r *rules) BuildStages(crop *entities.Crop, planting time.Time) []StagePlan {
	adj := r.adj[strings.ToLower(crop.Name)]
	if adj == 0 {
		adj = 1.0
	}
	var stages []StagePlan
	cur := day(planting)
	for _, row := range r.stageCfg {
		dur := int(float64(row.Days) * adj)
		if dur < 1 {
			dur = 1
		}
		end := cur.AddDate(0, 0, dur)
		stages = append(stages, StagePlan{
			Stage:      row.Name,
			StartDate:  cur,
			EndDate:    end,
			WaterMMDay: row.WaterMMDay,
			Notes:      row.Notes,
		})
		cur = end
	}
	return stages
}

func (r *rules) interval(soil string, st StagePlan) int {
	if v, ok := r.soilIrr[soil]; ok {
		return v
	}
	if v, ok := defaultSoilInterval[soil]; ok {
		return v
	}
	for _, row := range r.stageCfg {
		if row.Name == st.Stage && row.IntervalDays > 0 {
			return row.IntervalDays
		}
	}
	return defaultInterval
}

// Expand builds the activity list: scouting at every stage start, irrigation
// every soil interval within a stage, fertilization at the start of the
// vegetative and flowering stages and harvest at the end of the last stage.
func (r *rules) Expand(crop *entities.Crop, field *entities.Field, stages []StagePlan) []entities.TimelineActivity {
	soil := ""
	area := crop.Area
	var fieldID *uint
	if field != nil {
		soil = strings.ToLower(field.SoilTexture)
		if area == 0 {
			area = field.Area
		}
		id := field.ID
		fieldID = &id
	} else {
		fieldID = crop.FieldID
	}
	cropID := crop.ID

	mk := func(typ entities.ActivityType, title string, date time.Time, st StagePlan) entities.TimelineActivity {
		return entities.TimelineActivity{
			Farmer:        crop.Farmer,
			CropID:        &cropID,
			FieldID:       fieldID,
			Type:          typ,
			Title:         title,
			ScheduledDate: date,
			Status:        entities.ActivityScheduled,
			Priority:      "medium",
			Stage:         st.Stage,
			Generated:     true,
		}
	}

	var out []entities.TimelineActivity
	for _, st := range stages {
		out = append(out, mk(entities.ActivityScouting, fmt.Sprintf("Scout %s at %s stage", crop.Name, st.Stage), st.StartDate, st))

		interval := r.interval(soil, st)
		for d := st.StartDate; d.Before(st.EndDate); d = d.AddDate(0, 0, interval) {
			a := mk(entities.ActivityIrrigation, "Irrigate "+crop.Name, d, st)
			mm := st.WaterMMDay * float64(interval)
			if area > 0 {
				qty := mm * 0.001 * acreM2 * area
				a.Qty = &qty
				a.Unit = "m3"
			}
			a.Description = fmt.Sprintf("%.1f mm per %d days", mm, interval)
			out = append(out, a)
		}

		if fertilizedStages[st.Stage] {
			a := mk(entities.ActivityFertilizing, fmt.Sprintf("Fertilize %s (%s)", crop.Name, st.Stage), st.StartDate, st)
			a.Priority = "high"
			if area > 0 {
				qty := fertilizerKgAcre * area
				a.Qty = &qty
				a.Unit = "kg"
			}
			out = append(out, a)
		}
	}
	if len(stages) > 0 {
		last := stages[len(stages)-1]
		h := mk(entities.ActivityHarvesting, "Harvest "+crop.Name, last.EndDate, last)
		h.Priority = "high"
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out
}
