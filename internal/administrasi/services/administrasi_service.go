package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/c14220110/billing-backend/internal/administrasi/models"
	common "github.com/c14220110/billing-backend/internal/common/models"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AdministrasiService struct {
	DB *sql.DB
}

func NewAdministrasiService(db *sql.DB) *AdministrasiService {
	return &AdministrasiService{DB: db}
}

// Authenticate mencocokkan username dan password (bcrypt) admin RS / admin BPJS.
func (s *AdministrasiService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	var role string

	query := `SELECT id, name, username, password_hash, role, created_at FROM users WHERE username = ?`
	err := s.DB.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Nama, &user.Username, &user.PasswordHash, &role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user.Role = common.Role(role)
	if !user.Role.Valid() {
		return nil, fmt.Errorf("user %d has unknown role %q", user.ID, role)
	}
	return &user, nil
}
