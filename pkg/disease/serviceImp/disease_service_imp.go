package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/disease/repository"
	"farmhub/pkg/disease/service"
	"farmhub/pkg/store"
)

type Svc struct {
	r        repository.DiseaseRepository
	allow    map[string]bool
	maxBytes int64
	fetch    fetchFunc
}

// New builds the service; allowedHosts gates ImportURL.
func New(r repository.DiseaseRepository, allowedHosts []string) *Svc {
	allow := map[string]bool{}
	for _, h := range allowedHosts {
		allow[strings.ToLower(strings.TrimSpace(h))] = true
	}
	s := &Svc{r: r, allow: allow, maxBytes: 1_500_000}
	s.fetch = httpFetcher(s.allowed)
	return s
}

var _ service.DiseaseService = (*Svc)(nil)

func (s *Svc) Create(ctx context.Context, d *entities.Disease) (*entities.Disease, error) {
	if err := s.r.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Svc) Get(ctx context.Context, id uint) (*entities.Disease, error) {
	return s.r.FindByID(ctx, id)
}

func (s *Svc) List(ctx context.Context, search string, q store.ListQuery) ([]entities.Disease, store.Pagination, error) {
	return s.r.List(ctx, search, q)
}

func (s *Svc) Update(ctx context.Context, d *entities.Disease) (*entities.Disease, error) {
	if err := s.r.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Svc) Delete(ctx context.Context, id uint) error { return s.r.Delete(ctx, id) }

func (s *Svc) Match(ctx context.Context, crop string, symptoms []string) ([]service.Match, error) {
	if strings.TrimSpace(crop) == "" {
		return nil, fmt.Errorf("%w: crop required", apierr.ErrBadRequest)
	}
	all, err := s.r.All(ctx)
	if err != nil {
		return nil, err
	}
	return service.MatchDiseases(all, crop, symptoms), nil
}

func (s *Svc) Upsert(ctx context.Context, d entities.Disease) (*entities.Disease, bool, error) {
	cur, err := s.r.FindByName(ctx, d.Name)
	if errors.Is(err, store.ErrNotFound) {
		if err := s.r.Create(ctx, &d); err != nil {
			return nil, false, err
		}
		return &d, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	d.ID, d.CreatedAt = cur.ID, cur.CreatedAt
	if err := s.r.Save(ctx, &d); err != nil {
		return nil, false, err
	}
	return &d, false, nil
}
