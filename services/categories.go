package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/repair-service-api/models"
	"gorm.io/gorm"
)

// ListCategories returns all service categories ordered by name
func (s *Service) ListCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	var categories []models.ServiceCategory
	err := s.run(ctx, "list categories", func(db *gorm.DB) error {
		return db.Order("category_name").Find(&categories).Error
	})
	return categories, err
}

// GetCategory returns one service category
func (s *Service) GetCategory(ctx context.Context, id uint) (*models.ServiceCategory, error) {
	var category models.ServiceCategory
	err := s.run(ctx, "get category", func(db *gorm.DB) error {
		return findCategory(db, id, &category)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func findCategory(db *gorm.DB, id uint, category *models.ServiceCategory) error {
	if err := db.First(category, id).Error; err != nil {
		if isNotFound(err) {
			return notFoundError("category", id)
		}
		return err
	}
	return nil
}

func (s *Service) checkCategoryInput(in CategoryInput) error {
	if err := s.validateInput(in); err != nil {
		return err
	}
	if err := requirePositive("base_service_charge", in.BaseServiceCharge); err != nil {
		return err
	}
	return requireMoneyScale("base_service_charge", in.BaseServiceCharge)
}

func requireUniqueCategoryName(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	q := tx.Model(&models.ServiceCategory{}).Where("LOWER(category_name) = ?", strings.ToLower(name))
	if exceptID != 0 {
		q = q.Where("category_id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return preconditionError("CATEGORY_ALREADY_EXISTS", "Category %q already exists", name)
	}
	return nil
}

// CreateCategory adds a service category
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.ServiceCategory, error) {
	if err := s.checkCategoryInput(in); err != nil {
		return nil, err
	}
	category := models.ServiceCategory{
		CategoryName:        strings.TrimSpace(in.CategoryName),
		CategoryDescription: in.CategoryDescription,
		BaseServiceCharge:   in.BaseServiceCharge,
		EstimatedTimeHours:  in.EstimatedTimeHours,
	}
	err := s.transaction(ctx, "create category", func(tx *gorm.DB) error {
		if err := requireUniqueCategoryName(tx, category.CategoryName, 0); err != nil {
			return err
		}
		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory replaces a service category's fields
func (s *Service) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.ServiceCategory, error) {
	if err := s.checkCategoryInput(in); err != nil {
		return nil, err
	}
	var category models.ServiceCategory
	err := s.transaction(ctx, "update category", func(tx *gorm.DB) error {
		if err := findCategory(tx, id, &category); err != nil {
			return err
		}
		name := strings.TrimSpace(in.CategoryName)
		if err := requireUniqueCategoryName(tx, name, id); err != nil {
			return err
		}
		category.CategoryName = name
		category.CategoryDescription = in.CategoryDescription
		category.BaseServiceCharge = in.BaseServiceCharge
		category.EstimatedTimeHours = in.EstimatedTimeHours
		return tx.Save(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category no repair request references
func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	return s.transaction(ctx, "delete category", func(tx *gorm.DB) error {
		var category models.ServiceCategory
		if err := findCategory(tx, id, &category); err != nil {
			return err
		}
		var requests int64
		if err := tx.Model(&models.RepairRequest{}).Where("category_id = ?", id).Count(&requests).Error; err != nil {
			return err
		}
		if requests > 0 {
			return preconditionError("CATEGORY_IN_USE", "Category %d is referenced by %d repair request(s)", id, requests)
		}
		return tx.Delete(&category).Error
	})
}
