package service

import (
	"context"
	"fmt"

	"melodia/internal/common"
	"melodia/internal/domain/model"
	"melodia/internal/domain/repository"

	"github.com/rs/zerolog"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	adminRepo    repository.AdminRepository
	log          zerolog.Logger
}

func NewCategoryService(categoryRepo repository.CategoryRepository, adminRepo repository.AdminRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, adminRepo: adminRepo, log: log}
}

type CategoryInput struct {
	Name string `json:"name"`
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.ListAll(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *CategoryService) Songs(ctx context.Context, categoryID int64) ([]model.SongSummary, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.categoryRepo.SongsByCategory(ctx, categoryID)
}

func (s *CategoryService) Create(ctx context.Context, actorID int64, in CategoryInput) (*model.Category, error) {
	if in.Name == "" {
		return nil, common.Errorf("name is required: %w", common.ErrValidation)
	}

	category := &model.Category{Name: in.Name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.audit(ctx, actorID, model.ActionCreateCategory, category.ID)
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, actorID, id int64, in CategoryInput) (*model.Category, error) {
	if in.Name == "" {
		return nil, common.Errorf("name is required: %w", common.ErrValidation)
	}

	category := &model.Category{ID: id, Name: in.Name}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, model.ActionUpdateCategory, id)
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.categoryRepo.DeleteWithRelations(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, model.ActionDeleteCategory, id)
	return nil
}

func (s *CategoryService) audit(ctx context.Context, actorID int64, action string, targetID int64) {
	if err := s.adminRepo.LogAction(ctx, actorID, action, targetID); err != nil {
		s.log.Warn().Err(err).Str("action", action).Int64("target_id", targetID).Msg("failed to record admin action")
	}
}
