package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/c14220110/billing-backend/internal/administrasi/models"
	"github.com/c14220110/billing-backend/pkg/storage/mariadb"
)

var (
	ErrPasienNotFound  = errors.New("pasien tidak ditemukan")
	ErrPasienDuplicate = errors.New("no_kpj atau NIK sudah terdaftar")
)

type PasienService struct {
	DB *sql.DB
}

func NewPasienService(db *sql.DB) *PasienService {
	return &PasienService{DB: db}
}

const pasienColumns = "id, no_kpj, nik, name, address, phone, birth_date, gender, created_at"

func scanPasien(row interface{ Scan(...interface{}) error }) (*models.Pasien, error) {
	var (
		p         models.Pasien
		alamat    sql.NullString
		noTelp    sql.NullString
		birthDate time.Time
	)
	if err := row.Scan(&p.ID, &p.NoKPJ, &p.NIK, &p.Nama, &alamat, &noTelp, &birthDate, &p.JenisKelamin, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Alamat = alamat.String
	p.NoTelp = noTelp.String
	p.TanggalLahir = birthDate.Format("2006-01-02")
	return &p, nil
}

// CreatePasien mendaftarkan pasien baru. no_kpj dan NIK harus unik.
func (s *PasienService) CreatePasien(ctx context.Context, req models.CreatePasienRequest) (int64, error) {
	var existingID int64
	err := s.DB.QueryRowContext(ctx, "SELECT id FROM patients WHERE no_kpj = ? OR nik = ? LIMIT 1", req.NoKPJ, req.NIK).Scan(&existingID)
	if err == nil {
		return 0, ErrPasienDuplicate
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("check pasien: %w", err)
	}

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO patients (no_kpj, nik, name, address, phone, birth_date, gender, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.NoKPJ, req.NIK, req.Nama, req.Alamat, req.NoTelp, req.TanggalLahir, req.JenisKelamin, time.Now(), time.Now(),
	)
	if err != nil {
		if mariadb.IsDuplicateKey(err) {
			return 0, ErrPasienDuplicate
		}
		return 0, fmt.Errorf("insert pasien: %w", err)
	}
	return res.LastInsertId()
}

func (s *PasienService) GetPasien(ctx context.Context, id int64) (*models.Pasien, error) {
	p, err := scanPasien(s.DB.QueryRowContext(ctx, "SELECT "+pasienColumns+" FROM patients WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPasienNotFound
		}
		return nil, fmt.Errorf("get pasien %d: %w", id, err)
	}
	return p, nil
}

// ListPasien mencari berdasarkan nama, no_kpj, atau NIK. limit default 20, max 100.
func (s *PasienService) ListPasien(ctx context.Context, q string, limit, page int) ([]models.Pasien, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}

	query := "SELECT " + pasienColumns + " FROM patients"
	params := []interface{}{}
	if q != "" {
		query += " WHERE LOWER(name) LIKE ? OR no_kpj = ? OR nik = ?"
		params = append(params, "%"+strings.ToLower(q)+"%", q, q)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d OFFSET %d", limit, (page-1)*limit)

	rows, err := s.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query pasien: %w", err)
	}
	defer rows.Close()

	list := []models.Pasien{}
	for rows.Next() {
		p, err := scanPasien(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pasien: %w", err)
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}
