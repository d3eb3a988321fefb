package serviceImp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"farmhub/entities"
	"farmhub/pkg/ai"
	"farmhub/pkg/apierr"
	"farmhub/pkg/blob"
	cropRepo "farmhub/pkg/crop/repository"
	"farmhub/pkg/crophealth/repository"
	"farmhub/pkg/crophealth/service"
	diseaseSvc "farmhub/pkg/disease/service"
	"farmhub/pkg/metrics"
	"farmhub/pkg/store"
	"farmhub/pkg/weather"
)

// Matcher finds reference diseases for reported symptoms.
type Matcher interface {
	Match(ctx context.Context, crop string, symptoms []string) ([]diseaseSvc.Match, error)
}

type Deps struct {
	Repo       repository.CropHealthRepository
	Crops      cropRepo.CropRepository
	Diseases   Matcher
	Weather    weather.Client
	Classifier ai.Client
	Blobs      blob.Store
	Log        *zap.Logger
}

type Svc struct {
	Deps
	now func() time.Time
}

func New(d Deps) *Svc {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Svc{Deps: d, now: time.Now}
}

var _ service.CropHealthService = (*Svc)(nil)

func (s *Svc) crop(ctx context.Context, id uint, uid string) (*entities.Crop, error) {
	cr, err := s.Crops.FindByID(ctx, id, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown crop %d", apierr.ErrBadRequest, id)
	}
	return cr, err
}

func (s *Svc) Create(ctx context.Context, h *entities.CropHealth) (*entities.CropHealth, error) {
	cr, err := s.crop(ctx, h.CropID, h.Farmer)
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.FindByCrop(ctx, h.CropID, h.Farmer); err == nil {
		return nil, fmt.Errorf("%w: crop %d already has a health record", apierr.ErrConflict, h.CropID)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	h.CropName = cr.Name
	if h.FieldID == nil {
		h.FieldID = cr.FieldID
	}
	if h.GrowthStage == "" {
		h.GrowthStage = cr.GrowthStage
	}
	if h.GrowthStage == "" {
		h.GrowthStage = entities.StageGermination
	}
	for i := range h.Issues {
		if h.Issues[i].ID == "" {
			h.Issues[i].ID = uuid.NewString()
		}
		if h.Issues[i].Status == "" {
			h.Issues[i].Status = entities.IssueDetected
		}
		if h.Issues[i].DetectedAt.IsZero() {
			h.Issues[i].DetectedAt = s.now()
		}
	}
	if err := s.Repo.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Svc) Get(ctx context.Context, id uint, uid string) (*entities.CropHealth, error) {
	return s.Repo.FindByID(ctx, id, uid)
}

func (s *Svc) List(ctx context.Context, uid string, q store.ListQuery) ([]entities.CropHealth, store.Pagination, service.Stats, error) {
	items, page, err := s.Repo.List(ctx, uid, q)
	if err != nil {
		return nil, page, service.Stats{}, err
	}
	st, err := s.Stats(ctx, uid)
	return items, page, st, err
}

func (s *Svc) Update(ctx context.Context, h *entities.CropHealth) (*entities.CropHealth, error) {
	if err := s.Repo.Save(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Svc) Delete(ctx context.Context, id uint, uid string) error {
	return s.Repo.Delete(ctx, id, uid)
}

// CheckIn creates the crop's record on first visit and refreshes stage and
// notes afterwards.
func (s *Svc) CheckIn(ctx context.Context, uid string, in service.CheckIn) (*entities.CropHealth, error) {
	cr, err := s.crop(ctx, in.CropID, uid)
	if err != nil {
		return nil, err
	}
	now := s.now()
	h, err := s.Repo.FindByCrop(ctx, in.CropID, uid)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h = &entities.CropHealth{
			Farmer:      uid,
			CropID:      cr.ID,
			CropName:    cr.Name,
			FieldID:     cr.FieldID,
			GrowthStage: cr.GrowthStage,
			Issues:      []entities.HealthIssue{},
		}
		if h.GrowthStage == "" {
			h.GrowthStage = entities.StageGermination
		}
	case err != nil:
		return nil, err
	}
	if in.GrowthStage != "" {
		h.GrowthStage = in.GrowthStage
	}
	if in.Notes != "" {
		h.Notes = in.Notes
	}
	h.LastCheckIn = &now
	if h.ID == 0 {
		err = s.Repo.Create(ctx, h)
	} else {
		err = s.Repo.Save(ctx, h)
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Svc) Stats(ctx context.Context, uid string) (service.Stats, error) {
	all, err := s.Repo.All(ctx, uid, nil)
	if err != nil {
		return service.Stats{}, err
	}
	return service.ComputeStats(all), nil
}

// WeatherAlerts never fails; an unreachable provider yields no alerts.
func (s *Svc) WeatherAlerts(ctx context.Context, location string) service.WeatherReport {
	rep := service.WeatherReport{Location: location, Alerts: []weather.Alert{}}
	if s.Weather == nil {
		return rep
	}
	snap, err := s.Weather.FetchWeather(ctx, location)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("weather").Inc()
		s.Log.Warn("weather fetch failed", zap.String("location", location), zap.Error(err))
		return rep
	}
	rep.Weather = &snap
	rep.Alerts = weather.Alerts(snap)
	return rep
}

// diagnose fills ai_analysis from the best reference match.
func (s *Svc) diagnose(ctx context.Context, crop string, is *entities.HealthIssue) {
	if s.Diseases == nil || len(is.Symptoms) == 0 {
		return
	}
	matches, err := s.Diseases.Match(ctx, crop, is.Symptoms)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("disease_lookup").Inc()
		s.Log.Warn("disease lookup failed", zap.String("crop", crop), zap.Error(err))
		return
	}
	if len(matches) == 0 {
		return
	}
	top := matches[0]
	is.AIAnalysis = &entities.AIAnalysis{
		SuggestedDiagnosis:    top.Disease.Name,
		Confidence:            top.Confidence,
		RecommendedTreatments: append([]string{}, top.Disease.Treatments...),
		Source:                diseaseSvc.ReferenceLookup,
	}
	is.Status = entities.IssueDiagnosed
}

func (s *Svc) AddIssue(ctx context.Context, id uint, uid string, issue entities.HealthIssue) (*entities.CropHealth, *entities.HealthIssue, error) {
	h, err := s.Repo.FindByID(ctx, id, uid)
	if err != nil {
		return nil, nil, err
	}
	issue.ID = ""
	issue.Status = entities.IssueDetected
	issue.AIAnalysis = nil
	s.diagnose(ctx, h.CropName, &issue)
	added := h.AddIssue(issue, s.now())
	if err := s.Repo.Save(ctx, h); err != nil {
		return nil, nil, err
	}
	metrics.IssuesReported.WithLabelValues(string(added.Type), fmt.Sprint(added.AIAnalysis != nil)).Inc()
	return h, added, nil
}

// mutate loads a record, applies fn and saves it.
func (s *Svc) mutate(ctx context.Context, id uint, uid string, fn func(h *entities.CropHealth, now time.Time) error) (*entities.CropHealth, error) {
	h, err := s.Repo.FindByID(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	if err := fn(h, s.now()); err != nil {
		return nil, err
	}
	if err := s.Repo.Save(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Svc) SetIssueStatus(ctx context.Context, id uint, uid, issueID string, status entities.IssueStatus) (*entities.CropHealth, error) {
	return s.mutate(ctx, id, uid, func(h *entities.CropHealth, now time.Time) error {
		_, err := h.SetIssueStatus(issueID, status, now)
		return err
	})
}

func (s *Svc) ApplyTreatment(ctx context.Context, id uint, uid, issueID string, t entities.Treatment) (*entities.CropHealth, error) {
	return s.mutate(ctx, id, uid, func(h *entities.CropHealth, now time.Time) error {
		_, err := h.ApplyTreatment(issueID, t, now)
		return err
	})
}

func (s *Svc) ResolveIssue(ctx context.Context, id uint, uid, issueID, notes string) (*entities.CropHealth, error) {
	return s.mutate(ctx, id, uid, func(h *entities.CropHealth, now time.Time) error {
		_, err := h.ResolveIssue(issueID, notes, now)
		return err
	})
}

func imageExt(contentType string) string {
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[len(exts)-1]
	}
	return ".bin"
}

// AnalyzeImage stores the photo and appends the classifier's verdict. A
// classifier error records the "unknown" diagnosis instead of failing.
func (s *Svc) AnalyzeImage(ctx context.Context, id uint, uid string, image []byte, contentType string) (*entities.ImageAnalysis, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", apierr.ErrBadRequest)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(image)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: not an image (%s)", apierr.ErrBadRequest, contentType)
	}
	h, err := s.Repo.FindByID(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	now := s.now()
	aid := uuid.NewString()
	key := fmt.Sprintf("crop-health/%s/%d/%s%s", uid, h.ID, aid, imageExt(contentType))
	if _, err := s.Blobs.Put(ctx, key, bytes.NewReader(image), blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"crop": h.CropName, "farmer": uid},
	}); err != nil {
		metrics.CollaboratorFailures.WithLabelValues("blob").Inc()
		return nil, fmt.Errorf("store image: %w", err)
	}

	diag, err := s.Classifier.ClassifyCropImage(ctx, image, contentType, h.CropName, string(h.GrowthStage))
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("classifier").Inc()
		s.Log.Warn("image classification failed", zap.Uint("crop_health_id", h.ID), zap.Error(err))
		diag = ai.Unknown()
	}
	h.ImageAnalyses = append(h.ImageAnalyses, entities.ImageAnalysis{
		ID:              aid,
		ImageKey:        key,
		Label:           diag.Label,
		Confidence:      diag.Confidence,
		Recommendations: diag.Recommendations,
		AnalyzedAt:      now,
	})
	if err := s.Repo.Save(ctx, h); err != nil {
		return nil, err
	}
	return &h.ImageAnalyses[len(h.ImageAnalyses)-1], nil
}
