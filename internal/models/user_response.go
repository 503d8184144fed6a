package models

import "courseChat/internal/enums"

type UserResponse struct {
	ID        uint       `json:"id"`
	FullName  string     `json:"full_name"`
	Role      enums.Role `json:"role"`
	AvatarURL *string    `json:"avatar_url"`
}
