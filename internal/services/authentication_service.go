package services

import (
	"errors"
	"time"

	"courseChat/internal/enums"
	"courseChat/internal/errs"
	"courseChat/internal/models"
	"courseChat/internal/repositories"
	"courseChat/internal/utils"
	"courseChat/internal/validators"

	"gorm.io/gorm"
)

type AuthenticationService struct {
	authRepo repositories.UserStore
	jwtKey   []byte
	tokenTTL time.Duration
}

func NewAuthenticationService(
	authRepo repositories.UserStore,
	jwtKey []byte,
	tokenTTL time.Duration,
) *AuthenticationService {
	return &AuthenticationService{
		authRepo: authRepo,
		jwtKey:   jwtKey,
		tokenTTL: tokenTTL,
	}
}

func (as *AuthenticationService) Register(user *models.User) (*models.User, []error) {
	var errors []error
	if user.Role == "" {
		user.Role = enums.ROLE_STUDENT
	}
	if as.CheckIfUserExists(user.Email) {
		errors = append(errors, errs.ErrUserAlreadyExists)
		return nil, errors
	}
	validationErrs := validators.ValidateUser(user)
	if len(validationErrs) > 0 {
		errors = append(errors, validationErrs...)
		return nil, errors
	}
	password, err := utils.HashPassword(user.Password)
	if err != nil {
		errors = append(errors, err)
		return nil, errors
	}
	user.PasswordHash = password
	created, createErr := as.authRepo.CreateUser(user)
	if createErr != nil {
		errors = append(errors, createErr)
		return nil, errors
	}
	return created, nil
}

func (as *AuthenticationService) Login(loginData *models.LoginRequestBody) (*models.LoginResponse, error) {
	user := as.authRepo.FindByEmail(loginData.Email)
	if user == nil {
		return nil, errs.ErrUserNotFound
	}
	if err := utils.CompareHashAndPassword(user.PasswordHash, loginData.Password); err != nil {
		return nil, errs.ErrWrongPassword
	}

	token, err := utils.CreateJwtToken(
		user.ID,
		user.Email,
		user.FullName,
		user.Role,
		as.jwtKey,
		time.Now().Add(as.tokenTTL),
	)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		User:  *user,
		Token: token,
	}, nil
}

func (as *AuthenticationService) CheckIfUserExists(email string) bool {
	return as.authRepo.FindByEmail(email) != nil
}

func (as *AuthenticationService) GetProfile(userID uint) (*models.ProfileResponse, error) {
	user, err := as.authRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToProfileResponse(), nil
}

func (as *AuthenticationService) GetInstructors(search string, page, size int) (*models.InstructorListResponse, error) {
	users, total, err := as.authRepo.ListByRole(enums.ROLE_INSTRUCTOR, search, page, size)
	if err != nil {
		return nil, err
	}

	instructors := []models.UserResponse{}
	for _, user := range users {
		instructors = append(instructors, *user.ToUserResponse())
	}

	return &models.InstructorListResponse{
		Instructors: instructors,
		Page:        page,
		Size:        size,
		Total:       total,
	}, nil
}

func (as *AuthenticationService) UpdateUserAvatar(userID uint, url string) error {
	return as.authRepo.UpdateAvatarURL(userID, url)
}
