package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	common "github.com/c14220110/billing-backend/internal/common/models"
)

var userColumns = []string{"id", "name", "username", "password_hash", "role", "created_at"}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthenticate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	svc := NewAdministrasiService(db)
	hash := hashed(t, "bpjs123")

	t.Run("Valid credentials", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
			WithArgs("verifikator").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(2, "Verifikator BPJS", "verifikator", hash, "admin_bpjs", time.Now()))

		user, err := svc.Authenticate(context.Background(), "verifikator", "bpjs123")
		require.NoError(t, err)
		assert.Equal(t, int64(2), user.ID)
		assert.Equal(t, common.RoleAdminBPJS, user.Role)
	})

	t.Run("Wrong password", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
			WithArgs("verifikator").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(2, "Verifikator BPJS", "verifikator", hash, "admin_bpjs", time.Now()))

		_, err := svc.Authenticate(context.Background(), "verifikator", "salah")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown user", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
			WithArgs("hantu").
			WillReturnRows(sqlmock.NewRows(userColumns))

		_, err := svc.Authenticate(context.Background(), "hantu", "x")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
