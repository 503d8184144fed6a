package models

import "courseChat/internal/enums"

type ProfileResponse struct {
	ID        uint       `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      enums.Role `json:"role"`
	AvatarURL *string    `json:"avatar_url"`
}
