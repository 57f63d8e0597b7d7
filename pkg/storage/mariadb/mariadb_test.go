package mariadb

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/c14220110/billing-backend/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&config.Config{
		DBUser:     "rs",
		DBPassword: "secret",
		DBHost:     "db",
		DBPort:     "3306",
		DBName:     "billing",
	})
	assert.True(t, strings.HasPrefix(dsn, "rs:secret@tcp(db:3306)/billing?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
}

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'INV-1' for key 'invoice_number'"}
	assert.True(t, IsDuplicateKey(dup))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert invoice: %w", dup)))
	assert.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1452}))
	assert.False(t, IsDuplicateKey(errors.New("boom")))
}
