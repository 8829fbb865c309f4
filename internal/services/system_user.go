package services

import (
	"fmt"

	"github.com/yktwalker/event-registration-api/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SystemUserService struct {
	db *gorm.DB
}

func NewSystemUserService(db *gorm.DB) *SystemUserService {
	return &SystemUserService{db: db}
}

type SystemUserUpdate struct {
	FullName *string      `json:"full_name"`
	Role     *models.Role `json:"role"`
	Password *string      `json:"password"`
}

func (s *SystemUserService) Create(username, password, fullName string, role models.Role) (*models.SystemUser, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrInvalidRequest)
	}

	var existing models.SystemUser
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("username %q already taken: %w", username, ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.SystemUser{
		Username:     username,
		Role:         role,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SystemUserService) List() ([]models.SystemUser, error) {
	var users []models.SystemUser
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies a partial update. actorID guards against an admin demoting
// their own account.
func (s *SystemUserService) Update(userID, actorID uint, upd SystemUserUpdate) (*models.SystemUser, error) {
	var user models.SystemUser
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	if upd.FullName != nil {
		user.FullName = *upd.FullName
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, fmt.Errorf("unknown role %q: %w", *upd.Role, ErrInvalidRequest)
		}
		if user.ID == actorID && *upd.Role != models.RoleAdmin {
			return nil, fmt.Errorf("cannot revoke own admin role: %w", ErrInvalidRequest)
		}
		user.Role = *upd.Role
	}
	if upd.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SystemUserService) Delete(userID, actorID uint) error {
	if userID == actorID {
		return fmt.Errorf("cannot delete own account: %w", ErrInvalidRequest)
	}

	var user models.SystemUser
	if err := s.db.First(&user, userID).Error; err != nil {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return s.db.Delete(&user).Error
}
