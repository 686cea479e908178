package service

import (
	"context"
	"errors"

	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/internal/model"
	"go.uber.org/zap"
)

// CategoryService manages categories
type CategoryService struct {
	*base
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.store.Categories().List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	return s.store.Categories().Get(ctx, id)
}

// Create validates and stores a new category, generating an id when none is given
func (s *CategoryService) Create(ctx context.Context, in *model.CategoryInput) (*model.Category, error) {
	now := s.timestamp()
	c := &model.Category{ID: s.newID(in.ID), CreatedAt: now, UpdatedAt: now}
	in.ApplyTo(c)

	if err := apperr.Validation(violations(s.validate, c)...); err != nil {
		return nil, err
	}
	if err := s.ensureNew(ctx, c.ID); err != nil {
		return nil, err
	}
	if err := s.store.Categories().Create(ctx, c); err != nil {
		s.log.Error("Failed to create category", zap.String("category_id", c.ID), zap.Error(err))
		return nil, err
	}

	s.metrics.RecordOperation("category", "create")
	s.log.Info("Category created successfully", zap.String("category_id", c.ID), zap.String("name", c.Name))
	return c, nil
}

func (s *CategoryService) ensureNew(ctx context.Context, id string) error {
	_, err := s.store.Categories().Get(ctx, id)
	switch {
	case err == nil:
		return apperr.Conflict("Category with this id already exists")
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	default:
		return err
	}
}

// Update merges the supplied fields over an existing category
func (s *CategoryService) Update(ctx context.Context, id string, in *model.CategoryInput) (*model.Category, error) {
	c, err := s.store.Categories().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.ApplyTo(c)
	c.UpdatedAt = s.timestamp()

	if err := apperr.Validation(violations(s.validate, c)...); err != nil {
		return nil, err
	}
	if err := s.store.Categories().Update(ctx, c); err != nil {
		s.log.Error("Failed to update category", zap.String("category_id", id), zap.Error(err))
		return nil, err
	}

	s.metrics.RecordOperation("category", "update")
	s.log.Info("Category updated successfully", zap.String("category_id", id))
	return c, nil
}

// Delete removes a category that no product references
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Categories().Get(ctx, id); err != nil {
		return err
	}
	count, err := s.store.Products().CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.Warn("Category still in use", zap.String("category_id", id), zap.Int64("products", count))
		return apperr.Conflict("Cannot delete category: %d product(s) are using it", count)
	}
	if err := s.store.Categories().Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete category", zap.String("category_id", id), zap.Error(err))
		return err
	}

	s.metrics.RecordOperation("category", "delete")
	s.log.Info("Category deleted successfully", zap.String("category_id", id))
	return nil
}
