package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/repair-service-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListUsers returns users, optionally filtered by user type
func (s *Service) ListUsers(ctx context.Context, userType string) ([]models.User, error) {
	if userType != "" && userType != models.UserTypeCustomer && userType != models.UserTypeTechnician {
		return nil, validationError("VALIDATION_ERROR", "user_type must be one of: customer, technician")
	}
	var users []models.User
	err := s.run(ctx, "list users", func(db *gorm.DB) error {
		q := db.Preload("Location").Order("last_name, first_name")
		if userType != "" {
			q = q.Where("user_type = ?", userType)
		}
		return q.Find(&users).Error
	})
	return users, err
}

// GetUser returns one user with its location
func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.run(ctx, "get user", func(db *gorm.DB) error {
		return findUser(db.Preload("Location"), id, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func findUser(db *gorm.DB, id uint, user *models.User) error {
	if err := db.First(user, id).Error; err != nil {
		if isNotFound(err) {
			return notFoundError("user", id)
		}
		return err
	}
	return nil
}

func findLocation(tx *gorm.DB, id uint, location *models.Location) error {
	if err := tx.First(location, id).Error; err != nil {
		if isNotFound(err) {
			return notFoundError("location", id)
		}
		return err
	}
	return nil
}

// fillAddress copies city, state and pincode from the location when they are blank
func fillAddress(user *models.User, location *models.Location) {
	if strings.TrimSpace(user.City) == "" {
		user.City = location.City
	}
	if strings.TrimSpace(user.State) == "" {
		user.State = location.State
	}
	if strings.TrimSpace(user.Pincode) == "" {
		user.Pincode = location.Pincode
	}
}

func requireUniqueEmail(tx *gorm.DB, email string, exceptID uint) error {
	var count int64
	q := tx.Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if exceptID != 0 {
		q = q.Where("user_id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return preconditionError("EMAIL_ALREADY_REGISTERED", "Email %s is already registered", email)
	}
	return nil
}

// CreateUser registers a customer or technician-typed user
func (s *Service) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	user := models.User{
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		Email:            strings.ToLower(strings.TrimSpace(in.Email)),
		PhoneNumber:      in.PhoneNumber,
		Street:           in.Street,
		City:             in.City,
		State:            in.State,
		Pincode:          in.Pincode,
		RegistrationDate: datatypes.Date(s.today()),
		UserType:         in.UserType,
		LocationID:       in.LocationID,
	}
	err := s.transaction(ctx, "create user", func(tx *gorm.DB) error {
		var location models.Location
		if err := findLocation(tx, in.LocationID, &location); err != nil {
			return err
		}
		if err := requireUniqueEmail(tx, user.Email, 0); err != nil {
			return err
		}
		fillAddress(&user, &location)
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		user.Location = &location
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Sugar().Infow("User created", "user_id", user.ID, "user_type", user.UserType)
	return &user, nil
}

// UpdateUser replaces a user's contact details
func (s *Service) UpdateUser(ctx context.Context, id uint, in UserUpdateInput) (*models.User, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	var user models.User
	err := s.transaction(ctx, "update user", func(tx *gorm.DB) error {
		if err := findUser(tx, id, &user); err != nil {
			return err
		}
		var location models.Location
		if err := findLocation(tx, in.LocationID, &location); err != nil {
			return err
		}
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if err := requireUniqueEmail(tx, email, id); err != nil {
			return err
		}
		user.FirstName = strings.TrimSpace(in.FirstName)
		user.LastName = strings.TrimSpace(in.LastName)
		user.Email = email
		user.PhoneNumber = in.PhoneNumber
		user.Street = in.Street
		user.City = in.City
		user.State = in.State
		user.Pincode = in.Pincode
		user.LocationID = in.LocationID
		user.Location = nil
		fillAddress(&user, &location)
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		user.Location = &location
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user that has no technician profile and no repair requests
func (s *Service) DeleteUser(ctx context.Context, id uint) error {
	return s.transaction(ctx, "delete user", func(tx *gorm.DB) error {
		var user models.User
		if err := findUser(tx, id, &user); err != nil {
			return err
		}
		var technicians, requests int64
		if err := tx.Model(&models.Technician{}).Where("user_id = ?", id).Count(&technicians).Error; err != nil {
			return err
		}
		if technicians > 0 {
			return preconditionError("USER_IN_USE", "User %d has a technician profile", id)
		}
		if err := tx.Model(&models.RepairRequest{}).Where("customer_id = ?", id).Count(&requests).Error; err != nil {
			return err
		}
		if requests > 0 {
			return preconditionError("USER_IN_USE", "User %d has %d repair request(s)", id, requests)
		}
		return tx.Delete(&user).Error
	})
}
