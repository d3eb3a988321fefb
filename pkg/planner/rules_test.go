package planner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"farmhub/entities"
)

func countByType(acts []entities.TimelineActivity) map[entities.ActivityType]int {
	out := map[entities.ActivityType]int{}
	for _, a := range acts {
		out[a.Type]++
	}
	return out
}

func TestLoadStagesAliases(t *testing.T) {
	r := &rules{adj: map[string]float64{}, soilIrr: map[string]int{}}
	csv := "\uFEFFStage,Duration,Water_mm_day,Notes\nVegetative,6,4,grow\nbad,0,1,\nFlowering,4,5,\n"
	require.NoError(t, r.loadStages(strings.NewReader(csv)))
	require.Len(t, r.stageCfg, 2)
	assert.Equal(t, "vegetative", r.stageCfg[0].Name)
	assert.Equal(t, "grow", r.stageCfg[0].Notes)

	err := (&rules{}).loadStages(strings.NewReader("stage,days\nx,1\n"))
	assert.Error(t, err)
}

func TestExpandLoam(t *testing.T) {
	r := &rules{
		stageCfg: []stageRow{
			{Name: "vegetative", Days: 6, WaterMMDay: 4},
			{Name: "flowering", Days: 4, WaterMMDay: 5},
		},
		adj:     map[string]float64{},
		soilIrr: map[string]int{},
	}
	plant := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	crop := &entities.Crop{ID: 7, Farmer: "u1", Name: "maize", Area: 2}
	field := &entities.Field{ID: 3, SoilTexture: "loam"}

	stages := r.BuildStages(crop, plant)
	require.Len(t, stages, 2)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), stages[0].StartDate)
	assert.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), stages[1].StartDate)

	acts := r.Expand(crop, field, stages)
	counts := countByType(acts)
	// loam every 3 days: days 0,3 then 0,3 of the 4-day stage
	assert.Equal(t, 4, counts[entities.ActivityIrrigation])
	assert.Equal(t, 2, counts[entities.ActivityScouting])
	assert.Equal(t, 2, counts[entities.ActivityFertilizing])
	assert.Equal(t, 1, counts[entities.ActivityHarvesting])

	last := acts[len(acts)-1]
	assert.Equal(t, entities.ActivityHarvesting, last.Type)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), last.ScheduledDate)
	for _, a := range acts {
		assert.True(t, a.Generated)
		assert.Equal(t, "u1", a.Farmer)
		assert.Equal(t, uint(7), *a.CropID)
		assert.Equal(t, uint(3), *a.FieldID)
		assert.Equal(t, entities.ActivityScheduled, a.Status)
	}
}

func TestSoilIntervals(t *testing.T) {
	r := &rules{stageCfg: []stageRow{{Name: "seedling", Days: 12}}, adj: map[string]float64{}, soilIrr: map[string]int{}}
	crop := &entities.Crop{Name: "rice"}
	stages := r.BuildStages(crop, time.Now().UTC())
	for soil, want := range map[string]int{"sand": 6, "loam": 4, "clay": 3, "": 4} {
		got := countByType(r.Expand(crop, &entities.Field{SoilTexture: soil}, stages))
		assert.Equal(t, want, got[entities.ActivityIrrigation], soil)
	}
}

func TestLoadFromFilesWithOverrides(t *testing.T) {
	dir := t.TempDir()
	stagePath := filepath.Join(dir, "stages.csv")
	require.NoError(t, os.WriteFile(stagePath, []byte("stage,days,water_mm_per_day\nseedling,10,3\n"), 0o644))
	adjPath := filepath.Join(dir, "adj.csv")
	require.NoError(t, os.WriteFile(adjPath, []byte("crop,factor\nRice,2\n"), 0o644))

	x := excelize.NewFile()
	_, err := x.NewSheet("SoilIntervals")
	require.NoError(t, err)
	require.NoError(t, x.SetSheetRow("SoilIntervals", "A1", &[]any{"soil", "interval_days"}))
	require.NoError(t, x.SetSheetRow("SoilIntervals", "A2", &[]any{"clay", 5}))
	xlsxPath := filepath.Join(dir, "overrides.xlsx")
	require.NoError(t, x.SaveAs(xlsxPath))
	require.NoError(t, x.Close())

	eng, err := LoadFromFiles(stagePath, adjPath, xlsxPath)
	require.NoError(t, err)
	crop := &entities.Crop{Name: "rice"}
	stages := eng.BuildStages(crop, time.Now().UTC())
	require.Len(t, stages, 1)
	assert.Equal(t, 20, int(stages[0].EndDate.Sub(stages[0].StartDate).Hours()/24))

	got := countByType(eng.Expand(crop, &entities.Field{SoilTexture: "clay"}, stages))
	assert.Equal(t, 4, got[entities.ActivityIrrigation])

	_, err = LoadFromFiles("", "", "")
	assert.Error(t, err)
}
