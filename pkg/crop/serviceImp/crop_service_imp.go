package serviceImp

import (
	"context"
	"errors"
	"fmt"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	repo "farmhub/pkg/crop/repository"
	"farmhub/pkg/crop/service"
	fieldRepo "farmhub/pkg/field/repository"
	"farmhub/pkg/store"
)

type cropSvc struct {
	r      repo.CropRepository
	fields fieldRepo.FieldRepository
}

func NewCropService(r repo.CropRepository, fields fieldRepo.FieldRepository) service.CropService {
	return &cropSvc{r: r, fields: fields}
}

// checkField rejects a field_id the farmer does not own.
func (s *cropSvc) checkField(ctx context.Context, cr *entities.Crop) error {
	if cr.FieldID == nil {
		return nil
	}
	if _, err := s.fields.FindByID(ctx, *cr.FieldID, cr.Farmer); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: unknown field %d", apierr.ErrBadRequest, *cr.FieldID)
		}
		return err
	}
	return nil
}

func (s *cropSvc) CreateCrop(ctx context.Context, cr *entities.Crop) (*entities.Crop, error) {
	if cr.Status == "" {
		cr.Status = entities.CropPlanned
		if cr.PlantingDate != nil {
			cr.Status = entities.CropPlanted
		}
	}
	if cr.GrowthStage == "" && cr.PlantingDate != nil {
		cr.GrowthStage = entities.StageGermination
	}
	if err := s.checkField(ctx, cr); err != nil {
		return nil, err
	}
	if err := s.r.Create(ctx, cr); err != nil {
		return nil, err
	}
	return cr, nil
}

func (s *cropSvc) GetCropByID(ctx context.Context, id uint, uid string) (*entities.Crop, error) {
	return s.r.FindByID(ctx, id, uid)
}

func (s *cropSvc) ListCrops(ctx context.Context, uid string, q store.ListQuery) ([]entities.Crop, store.Pagination, error) {
	return s.r.List(ctx, uid, q)
}

func (s *cropSvc) UpdateCrop(ctx context.Context, cr *entities.Crop) (*entities.Crop, error) {
	if err := s.checkField(ctx, cr); err != nil {
		return nil, err
	}
	if err := s.r.Save(ctx, cr); err != nil {
		return nil, err
	}
	return cr, nil
}

func (s *cropSvc) DeleteCrop(ctx context.Context, id uint, uid string) error {
	return s.r.Delete(ctx, id, uid)
}
