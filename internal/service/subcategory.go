package service

import (
	"context"
	"errors"

	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/internal/model"
	"go.uber.org/zap"
)

// SubCategoryService manages subcategories
type SubCategoryService struct {
	*base
}

// List returns every subcategory, or those of categoryID when set
func (s *SubCategoryService) List(ctx context.Context, categoryID string) ([]model.SubCategory, error) {
	return s.store.SubCategories().List(ctx, categoryID)
}

func (s *SubCategoryService) Get(ctx context.Context, id string) (*model.SubCategory, error) {
	return s.store.SubCategories().Get(ctx, id)
}

func (s *SubCategoryService) Create(ctx context.Context, in *model.SubCategoryInput) (*model.SubCategory, error) {
	now := s.timestamp()
	sub := &model.SubCategory{ID: s.newID(in.ID), CreatedAt: now, UpdatedAt: now}
	in.ApplyTo(sub)

	if err := s.check(ctx, sub); err != nil {
		return nil, err
	}
	if _, err := s.store.SubCategories().Get(ctx, sub.ID); err == nil {
		return nil, apperr.Conflict("Subcategory with this id already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if err := s.store.SubCategories().Create(ctx, sub); err != nil {
		s.log.Error("Failed to create subcategory", zap.String("subcategory_id", sub.ID), zap.Error(err))
		return nil, err
	}

	s.metrics.RecordOperation("subcategory", "create")
	s.log.Info("Subcategory created successfully",
		zap.String("subcategory_id", sub.ID),
		zap.String("category_id", sub.CategoryID))
	return sub, nil
}

func (s *SubCategoryService) Update(ctx context.Context, id string, in *model.SubCategoryInput) (*model.SubCategory, error) {
	sub, err := s.store.SubCategories().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.ApplyTo(sub)
	sub.UpdatedAt = s.timestamp()

	if err := s.check(ctx, sub); err != nil {
		return nil, err
	}
	if err := s.store.SubCategories().Update(ctx, sub); err != nil {
		s.log.Error("Failed to update subcategory", zap.String("subcategory_id", id), zap.Error(err))
		return nil, err
	}

	s.metrics.RecordOperation("subcategory", "update")
	s.log.Info("Subcategory updated successfully", zap.String("subcategory_id", id))
	return sub, nil
}

// check validates the record and resolves its parent category
func (s *SubCategoryService) check(ctx context.Context, sub *model.SubCategory) error {
	if err := apperr.Validation(violations(s.validate, sub)...); err != nil {
		return err
	}
	_, err := s.store.Categories().Get(ctx, sub.CategoryID)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Conflict("Category not found")
	}
	return err
}

// Delete removes a subcategory that no product references
func (s *SubCategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.SubCategories().Get(ctx, id); err != nil {
		return err
	}
	count, err := s.store.Products().CountBySubCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("Cannot delete subcategory: %d product(s) are using it", count)
	}
	if err := s.store.SubCategories().Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete subcategory", zap.String("subcategory_id", id), zap.Error(err))
		return err
	}

	s.metrics.RecordOperation("subcategory", "delete")
	s.log.Info("Subcategory deleted successfully", zap.String("subcategory_id", id))
	return nil
}
