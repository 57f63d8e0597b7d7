package mariadb

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/c14220110/billing-backend/config"
)

var (
	db   *sql.DB
	once sync.Once
)

// DSN menyusun data source name MariaDB dari config.
// parseTime wajib aktif karena kolom DATE/DATETIME di-scan ke time.Time.
func DSN(cfg *config.Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%s", cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		mc.Loc = loc
	}
	return mc.FormatDSN()
}

// Connect membuka koneksi ke database MariaDB sekali saja.
func Connect(cfg *config.Config, log *zap.Logger) *sql.DB {
	once.Do(func() {
		var err error
		db, err = sql.Open("mysql", DSN(cfg))
		if err != nil {
			log.Fatal("Gagal membuka koneksi ke database", zap.Error(err))
		}
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)
		db.SetConnMaxLifetime(30 * time.Minute)

		if err = db.Ping(); err != nil {
			log.Fatal("Gagal melakukan ping ke database", zap.Error(err))
		}

		log.Info("Berhasil terhubung ke MariaDB", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
	})

	return db
}

// IsDuplicateKey melaporkan apakah err adalah pelanggaran UNIQUE dari MariaDB (1062).
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}
