package serviceImp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmhub/entities"
	"farmhub/internal/testutil"
	"farmhub/pkg/ai"
	"farmhub/pkg/apierr"
	"farmhub/pkg/blob"
	cropRepoImp "farmhub/pkg/crop/repositoryImp"
	"farmhub/pkg/crophealth/repositoryImp"
	"farmhub/pkg/crophealth/service"
	diseaseRepoImp "farmhub/pkg/disease/repositoryImp"
	diseaseSvcImp "farmhub/pkg/disease/serviceImp"
	"farmhub/pkg/weather"
)

type failingWeather struct{}

func (failingWeather) FetchWeather(context.Context, string) (weather.Snapshot, error) {
	return weather.Snapshot{}, errors.New("provider down")
}

type failingClassifier struct{}

func (failingClassifier) ClassifyCropImage(context.Context, []byte, string, string, string) (ai.Diagnosis, error) {
	return ai.Diagnosis{}, errors.New("timeout")
}

// png header is enough for content sniffing.
var png = []byte("\x89PNG\r\n\x1a\n0000")

type fixture struct {
	svc  *Svc
	crop *entities.Crop
}

func setup(t *testing.T) fixture {
	db := testutil.DB(t)
	ctx := context.Background()
	crops := cropRepoImp.New(db)
	cr := &entities.Crop{Farmer: "u1", Name: "tomato", GrowthStage: entities.StageVegetative}
	require.NoError(t, crops.Create(ctx, cr))

	diseases := diseaseSvcImp.New(diseaseRepoImp.New(db), nil)
	_, _, err := diseases.Upsert(ctx, entities.Disease{
		Name: "Late Blight", AffectedCrops: []string{"Tomato"},
		Symptoms:   []string{"Dark lesions on leaves", "White mold"},
		Treatments: []string{"Copper fungicide"},
	})
	require.NoError(t, err)

	blobs, err := blob.NewFilesystem(t.TempDir())
	require.NoError(t, err)
	svc := New(Deps{
		Repo:       repositoryImp.New(db),
		Crops:      crops,
		Diseases:   diseases,
		Weather:    weather.NewStub(),
		Classifier: ai.NewMock(),
		Blobs:      blobs,
	})
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC) }
	return fixture{svc: svc, crop: cr}
}

func TestCheckInUpserts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	h, err := f.svc.CheckIn(ctx, "u1", service.CheckIn{CropID: f.crop.ID})
	require.NoError(t, err)
	assert.Equal(t, "tomato", h.CropName)
	assert.Equal(t, entities.StageVegetative, h.GrowthStage)
	assert.Equal(t, 100, h.HealthScore)
	assert.Equal(t, entities.HealthHealthy, h.HealthStatus)

	again, err := f.svc.CheckIn(ctx, "u1", service.CheckIn{CropID: f.crop.ID, GrowthStage: entities.StageFlowering, Notes: "buds"})
	require.NoError(t, err)
	assert.Equal(t, h.ID, again.ID)
	assert.Equal(t, entities.StageFlowering, again.GrowthStage)

	_, err = f.svc.CheckIn(ctx, "u2", service.CheckIn{CropID: f.crop.ID})
	assert.ErrorIs(t, err, apierr.ErrBadRequest)

	_, err = f.svc.Create(ctx, &entities.CropHealth{Farmer: "u1", CropID: f.crop.ID})
	assert.ErrorIs(t, err, apierr.ErrConflict)
}

func TestAddIssueDiagnosesFromReference(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	h, err := f.svc.CheckIn(ctx, "u1", service.CheckIn{CropID: f.crop.ID})
	require.NoError(t, err)

	h, is, err := f.svc.AddIssue(ctx, h.ID, "u1", entities.HealthIssue{
		Type: entities.IssueDisease, Severity: entities.SeverityHigh, AffectedArea: 40,
		Symptoms: []string{"lesions", "wilting"},
	})
	require.NoError(t, err)
	assert.Equal(t, entities.IssueDiagnosed, is.Status)
	require.NotNil(t, is.AIAnalysis)
	assert.Equal(t, "Late Blight", is.AIAnalysis.SuggestedDiagnosis)
	assert.Equal(t, 0.5, is.AIAnalysis.Confidence)
	assert.Equal(t, "reference_lookup", is.AIAnalysis.Source)
	assert.Equal(t, 80, h.HealthScore)

	_, undiagnosed, err := f.svc.AddIssue(ctx, h.ID, "u1", entities.HealthIssue{
		Type: entities.IssuePest, Severity: entities.SeverityCritical, AffectedArea: 100,
		Symptoms: []string{"holes"},
	})
	require.NoError(t, err)
	assert.Equal(t, entities.IssueDetected, undiagnosed.Status)
	assert.Nil(t, undiagnosed.AIAnalysis)

	h, err = f.svc.Get(ctx, h.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, h.HealthScore)
	assert.Equal(t, entities.HealthCritical, h.HealthStatus)

	h, err = f.svc.ApplyTreatment(ctx, h.ID, "u1", undiagnosed.ID, entities.Treatment{Name: "neem"})
	require.NoError(t, err)
	treated, _ := h.Issue(undiagnosed.ID)
	assert.Equal(t, entities.IssueTreatmentApplied, treated.Status)
	assert.Len(t, treated.Treatments, 1)

	h, err = f.svc.ResolveIssue(ctx, h.ID, "u1", undiagnosed.ID, "cleared")
	require.NoError(t, err)
	assert.Equal(t, 80, h.HealthScore)

	_, err = f.svc.SetIssueStatus(ctx, h.ID, "u1", "nope", entities.IssueMonitoring)
	assert.ErrorIs(t, err, entities.ErrIssueNotFound)

	st, err := f.svc.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Total)
	assert.Equal(t, 1, st.OpenIssues)
	assert.Equal(t, 80.0, st.AverageScore)
}

func TestAnalyzeImage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	h, err := f.svc.CheckIn(ctx, "u1", service.CheckIn{CropID: f.crop.ID})
	require.NoError(t, err)

	a, err := f.svc.AnalyzeImage(ctx, h.ID, "u1", png, "")
	require.NoError(t, err)
	assert.Equal(t, "healthy", a.Label)
	assert.Contains(t, a.ImageKey, ".png")
	_, rc, err := f.svc.Blobs.Get(ctx, a.ImageKey)
	require.NoError(t, err)
	rc.Close()

	f.svc.Classifier = failingClassifier{}
	a, err = f.svc.AnalyzeImage(ctx, h.ID, "u1", png, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "unknown", a.Label)

	h, err = f.svc.Get(ctx, h.ID, "u1")
	require.NoError(t, err)
	assert.Len(t, h.ImageAnalyses, 2)

	_, err = f.svc.AnalyzeImage(ctx, h.ID, "u1", []byte("plain text"), "")
	assert.ErrorIs(t, err, apierr.ErrBadRequest)
}

func TestWeatherAlertsFallback(t *testing.T) {
	f := setup(t)
	rep := f.svc.WeatherAlerts(context.Background(), "Nakuru")
	assert.NotNil(t, rep.Weather)
	assert.Empty(t, rep.Alerts)

	f.svc.Weather = failingWeather{}
	rep = f.svc.WeatherAlerts(context.Background(), "Nakuru")
	assert.Nil(t, rep.Weather)
	assert.NotNil(t, rep.Alerts)
	assert.Empty(t, rep.Alerts)
}

func TestComputeStatsEmpty(t *testing.T) {
	st := service.ComputeStats(nil)
	assert.Equal(t, 0, st.Total)
	assert.Equal(t, 0.0, st.AverageScore)
}
