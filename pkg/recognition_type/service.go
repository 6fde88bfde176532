package recognition_type

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kudoshq/kudos/internal/utils"
)

type Service interface {
	GetAll(ctx context.Context, includeInactive bool) ([]RecognitionType, error)
	GetByUid(ctx context.Context, uid string) (RecognitionType, error)
	Create(ctx context.Context, recognitionType RecognitionType) (RecognitionType, error)
	// Patch applies the non-nil fields to the stored recognition type.
	Patch(ctx context.Context, uid string, patch Patch) (RecognitionType, error)
}

// Patch carries optional field updates for a recognition type.
type Patch struct {
	Name       *string
	Category   *Category
	PointValue *int
	Active     *bool
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) GetAll(ctx context.Context, includeInactive bool) ([]RecognitionType, error) {
	return s.repo.GetAll(ctx, includeInactive)
}

func (s *ServiceImpl) GetByUid(ctx context.Context, uid string) (RecognitionType, error) {
	return s.repo.GetByUid(ctx, uid)
}

func (s *ServiceImpl) Create(ctx context.Context, recognitionType RecognitionType) (RecognitionType, error) {
	if recognitionType.PointValue < 0 {
		return RecognitionType{}, fmt.Errorf("point value must not be negative")
	}
	recognitionType.Uid = uuid.NewString()
	recognitionType.Active = true
	recognitionType.CreatedAt = s.clock.Now()

	id, err := s.repo.Store(ctx, recognitionType)
	if err != nil {
		return RecognitionType{}, err
	}
	recognitionType.Id = id
	return recognitionType, nil
}

func (s *ServiceImpl) Patch(ctx context.Context, uid string, patch Patch) (RecognitionType, error) {
	recognitionType, err := s.repo.GetByUid(ctx, uid)
	if err != nil {
		return RecognitionType{}, err
	}

	if patch.Name != nil {
		recognitionType.Name = *patch.Name
	}
	if patch.Category != nil {
		recognitionType.Category = *patch.Category
	}
	if patch.PointValue != nil {
		if *patch.PointValue < 0 {
			return RecognitionType{}, fmt.Errorf("point value must not be negative")
		}
		recognitionType.PointValue = *patch.PointValue
	}
	if patch.Active != nil {
		recognitionType.Active = *patch.Active
	}

	updated, err := s.repo.Update(ctx, recognitionType)
	if err != nil {
		return RecognitionType{}, err
	}
	if !updated {
		return RecognitionType{}, ErrNotFound
	}
	return recognitionType, nil
}
