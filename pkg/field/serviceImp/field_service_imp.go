package serviceImp

import (
	"context"

	"farmhub/entities"
	repo "farmhub/pkg/field/repository"
	"farmhub/pkg/field/service"
	"farmhub/pkg/store"
)

type fieldSvc struct{ r repo.FieldRepository }

func NewFieldService(r repo.FieldRepository) service.FieldService { return &fieldSvc{r} }

func (s *fieldSvc) CreateField(ctx context.Context, f *entities.Field) (*entities.Field, error) {
	if f.AreaUnit == "" {
		f.AreaUnit = "acre"
	}
	if f.Status == "" {
		f.Status = "active"
	}
	if err := s.r.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *fieldSvc) GetFieldByID(ctx context.Context, id uint, uid string) (*entities.Field, error) {
	return s.r.FindByID(ctx, id, uid)
}

func (s *fieldSvc) ListFields(ctx context.Context, uid string, q store.ListQuery) ([]entities.Field, store.Pagination, error) {
	return s.r.List(ctx, uid, q)
}

func (s *fieldSvc) UpdateField(ctx context.Context, f *entities.Field) (*entities.Field, error) {
	if err := s.r.Save(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *fieldSvc) DeleteField(ctx context.Context, id uint, uid string) error {
	return s.r.Delete(ctx, id, uid)
}
