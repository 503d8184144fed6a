package models

import (
	"courseChat/internal/enums"

	"gorm.io/gorm"
)

// User represents an account in the application. Role is immutable after
// registration.
type User struct {
	gorm.Model
	FullName     string     `gorm:"not null" json:"full_name"`
	Email        string     `gorm:"unique;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Password     string     `gorm:"-" json:"password"`
	Role         enums.Role `gorm:"not null;default:student" json:"role"`
	AvatarURL    *string    `json:"avatar_url"`
}

func (user *User) ToUserResponse() *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		FullName:  user.FullName,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
	}
}

func (user *User) ToProfileResponse() *ProfileResponse {
	return &ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
	}
}
