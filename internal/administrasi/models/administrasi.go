package models

import (
	"time"

	common "github.com/c14220110/billing-backend/internal/common/models"
)

// User adalah akun admin RS atau admin BPJS.
type User struct {
	ID           int64       `json:"id"`
	Nama         string      `json:"name"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Role         common.Role `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
