package repositories

import (
	"courseChat/internal/enums"
	"courseChat/internal/models"
	"courseChat/internal/utils"

	"gorm.io/gorm"
)

type UserStore interface {
	CreateUser(user *models.User) (*models.User, error)
	FindByEmail(email string) *models.User
	FindByID(userID uint) (*models.User, error)
	ListByRole(role enums.Role, search string, page, size int) ([]models.User, int64, error)
	UpdateAvatarURL(userID uint, url string) error
}

type AuthenticationRepository struct {
	db *gorm.DB
}

func NewAuthenticationRepository(db *gorm.DB) *AuthenticationRepository {
	return &AuthenticationRepository{
		db: db,
	}
}

func (ar *AuthenticationRepository) CreateUser(user *models.User) (*models.User, error) {
	if err := ar.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (ar *AuthenticationRepository) FindByEmail(email string) *models.User {
	var user models.User
	result := ar.db.Where("email = ?", email).First(&user)
	if result.Error == nil && result.RowsAffected > 0 {
		return &user
	}
	return nil
}

func (ar *AuthenticationRepository) FindByID(userID uint) (*models.User, error) {
	var user models.User
	if err := ar.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ar *AuthenticationRepository) ListByRole(role enums.Role, search string, page, size int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := ar.db.Model(&models.User{}).Where("role = ?", role)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Scopes(utils.Paginate(page, size)).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (ar *AuthenticationRepository) UpdateAvatarURL(userID uint, url string) error {
	return ar.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar_url", url).Error
}
