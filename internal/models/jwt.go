package models

import (
	"courseChat/internal/enums"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	ID       uint       `json:"id"`
	Email    string     `json:"email"`
	FullName string     `json:"full_name"`
	Role     enums.Role `json:"role"`
	jwt.RegisteredClaims
}
