package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/repair-service-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var defaultDeliveryCharge = decimal.NewFromInt(50)

// ListLocations returns all locations ordered by city and area
func (s *Service) ListLocations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	err := s.run(ctx, "list locations", func(db *gorm.DB) error {
		return db.Order("city, area_name").Find(&locations).Error
	})
	return locations, err
}

// GetLocation returns one location
func (s *Service) GetLocation(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	err := s.run(ctx, "get location", func(db *gorm.DB) error {
		if err := db.First(&location, id).Error; err != nil {
			if isNotFound(err) {
				return notFoundError("location", id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (s *Service) locationFromInput(in LocationInput) (models.Location, error) {
	if err := s.validateInput(in); err != nil {
		return models.Location{}, err
	}
	charge := defaultDeliveryCharge
	if in.DeliveryCharge != nil {
		charge = *in.DeliveryCharge
	}
	if err := requireNonNegative("delivery_charge", charge); err != nil {
		return models.Location{}, err
	}
	if err := requireMoneyScale("delivery_charge", charge); err != nil {
		return models.Location{}, err
	}
	return models.Location{
		AreaName:       strings.TrimSpace(in.AreaName),
		City:           strings.TrimSpace(in.City),
		State:          strings.TrimSpace(in.State),
		Pincode:        in.Pincode,
		DeliveryCharge: charge,
	}, nil
}

// CreateLocation adds a service area
func (s *Service) CreateLocation(ctx context.Context, in LocationInput) (*models.Location, error) {
	location, err := s.locationFromInput(in)
	if err != nil {
		return nil, err
	}
	err = s.run(ctx, "create location", func(db *gorm.DB) error {
		return db.Create(&location).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Sugar().Infow("Location created", "location_id", location.ID, "area", location.AreaName)
	return &location, nil
}

// UpdateLocation replaces a location's fields
func (s *Service) UpdateLocation(ctx context.Context, id uint, in LocationInput) (*models.Location, error) {
	fields, err := s.locationFromInput(in)
	if err != nil {
		return nil, err
	}
	var location models.Location
	err = s.transaction(ctx, "update location", func(tx *gorm.DB) error {
		if err := tx.First(&location, id).Error; err != nil {
			if isNotFound(err) {
				return notFoundError("location", id)
			}
			return err
		}
		location.AreaName = fields.AreaName
		location.City = fields.City
		location.State = fields.State
		location.Pincode = fields.Pincode
		location.DeliveryCharge = fields.DeliveryCharge
		return tx.Save(&location).Error
	})
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// DeleteLocation removes a location that no user references
func (s *Service) DeleteLocation(ctx context.Context, id uint) error {
	return s.transaction(ctx, "delete location", func(tx *gorm.DB) error {
		var location models.Location
		if err := tx.First(&location, id).Error; err != nil {
			if isNotFound(err) {
				return notFoundError("location", id)
			}
			return err
		}
		var users int64
		if err := tx.Model(&models.User{}).Where("location_id = ?", id).Count(&users).Error; err != nil {
			return err
		}
		if users > 0 {
			return preconditionError("LOCATION_IN_USE", "Location %d is referenced by %d user(s)", id, users)
		}
		return tx.Delete(&location).Error
	})
}
