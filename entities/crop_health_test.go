package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForScoreBoundaries(t *testing.T) {
	assert.Equal(t, HealthHealthy, StatusForScore(100))
	assert.Equal(t, HealthHealthy, StatusForScore(80))
	assert.Equal(t, HealthWarning, StatusForScore(79))
	assert.Equal(t, HealthWarning, StatusForScore(50))
	assert.Equal(t, HealthCritical, StatusForScore(49))
	assert.Equal(t, HealthCritical, StatusForScore(0))
}

func TestHealthScore(t *testing.T) {
	cases := []struct {
		name   string
		issues []HealthIssue
		want   int
	}{
		{"no issues", nil, 100},
		{"high at 40 percent", []HealthIssue{{Severity: SeverityHigh, AffectedArea: 40}}, 80},
		{"resolved ignored", []HealthIssue{{Severity: SeverityCritical, AffectedArea: 100, Status: IssueResolved}}, 100},
		{"clamped at zero", []HealthIssue{
			{Severity: SeverityCritical, AffectedArea: 100},
			{Severity: SeverityHigh, AffectedArea: 100},
		}, 0},
		{"rounded", []HealthIssue{{Severity: SeverityLow, AffectedArea: 15}}, 99},
		{"unknown severity weighs nothing", []HealthIssue{{Severity: "bogus", AffectedArea: 100}}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HealthScore(tc.issues))
		})
	}
}

func TestHealthScoreMonotonic(t *testing.T) {
	prev := 101
	for _, sev := range IssueSeverities {
		s := HealthScore([]HealthIssue{{Severity: sev, AffectedArea: 60}})
		assert.LessOrEqual(t, s, prev, "severity %s", sev)
		prev = s
	}
	prev = 101
	for area := 0.0; area <= 100; area += 5 {
		s := HealthScore([]HealthIssue{{Severity: SeverityMedium, AffectedArea: area}})
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, prev, "area %v", area)
		prev = s
	}
}

func TestCropHealthIssueLifecycle(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	h := &CropHealth{CropID: 1, CropName: "maize", GrowthStage: StageVegetative}
	h.Recalculate()
	require.Equal(t, 100, h.HealthScore)

	is := h.AddIssue(HealthIssue{Type: IssueDisease, Severity: SeverityCritical, AffectedArea: 80}, now)
	assert.NotEmpty(t, is.ID)
	assert.Equal(t, IssueDetected, is.Status)
	assert.Equal(t, now, is.DetectedAt)
	assert.Equal(t, 40, h.HealthScore)
	assert.Equal(t, HealthCritical, h.HealthStatus)
	assert.Equal(t, 1, h.OpenIssues())

	_, err := h.ApplyTreatment(is.ID, Treatment{Name: "copper spray", Cost: 12}, now)
	require.NoError(t, err)
	got, _ := h.Issue(is.ID)
	assert.Equal(t, IssueTreatmentApplied, got.Status)
	require.Len(t, got.Treatments, 1)
	assert.NotEmpty(t, got.Treatments[0].ID)

	_, err = h.ResolveIssue(is.ID, "cleared up", now)
	require.NoError(t, err)
	assert.Equal(t, 100, h.HealthScore)
	assert.Equal(t, HealthHealthy, h.HealthStatus)
	assert.Equal(t, 0, h.OpenIssues())

	_, err = h.SetIssueStatus(is.ID, IssueRecurred, now)
	require.NoError(t, err)
	got, _ = h.Issue(is.ID)
	assert.Nil(t, got.ResolvedAt)
	assert.Equal(t, 40, h.HealthScore)

	_, err = h.ResolveIssue("missing", "", now)
	assert.ErrorIs(t, err, ErrIssueNotFound)
}

func TestEnumUnmarshalRejectsUnknown(t *testing.T) {
	var s IssueSeverity
	assert.Error(t, s.UnmarshalText([]byte("extreme")))
	assert.NoError(t, s.UnmarshalText([]byte("high")))
	assert.Equal(t, SeverityHigh, s)
	assert.NoError(t, s.UnmarshalText(nil))
	assert.False(t, IssueSeverity("extreme").Valid())
}
