package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/c14220110/billing-backend/internal/administrasi/models"
	"github.com/c14220110/billing-backend/pkg/storage/mariadb"
)

var (
	ErrRekamMedisNotFound = errors.New("rekam medis tidak ditemukan")
	ErrRecordNumberTaken  = errors.New("nomor rekam medis sudah dipakai")
)

type RekamMedisService struct {
	DB *sql.DB
}

func NewRekamMedisService(db *sql.DB) *RekamMedisService {
	return &RekamMedisService{DB: db}
}

const rekamMedisSelect = `
	SELECT mr.id, mr.patient_id, p.name, mr.record_number, mr.incident_date, mr.treatment_date,
	       mr.admission_date, mr.discharge_date, mr.diagnosis, mr.complaint, mr.treatment_type,
	       mr.status, mr.created_by, mr.created_at
	FROM medical_records mr
	JOIN patients p ON p.id = mr.patient_id`

func scanRekamMedis(row interface{ Scan(...interface{}) error }) (*models.RekamMedis, error) {
	var (
		rm                             models.RekamMedis
		incident, treatment, admission time.Time
		discharge                      sql.NullTime
		complaint                      sql.NullString
		createdBy                      sql.NullInt64
	)
	err := row.Scan(&rm.ID, &rm.PatientID, &rm.PatientName, &rm.RecordNumber, &incident, &treatment,
		&admission, &discharge, &rm.Diagnosis, &complaint, &rm.TreatmentType, &rm.Status, &createdBy, &rm.CreatedAt)
	if err != nil {
		return nil, err
	}
	rm.IncidentDate = incident.Format("2006-01-02")
	rm.TreatmentDate = treatment.Format("2006-01-02")
	rm.AdmissionDate = admission.Format("2006-01-02")
	if discharge.Valid {
		d := discharge.Time.Format("2006-01-02")
		rm.DischargeDate = &d
	}
	rm.Complaint = complaint.String
	if createdBy.Valid {
		id := createdBy.Int64
		rm.CreatedBy = &id
	}
	return &rm, nil
}

// CreateRekamMedis membuka episode perawatan baru dengan status active.
func (s *RekamMedisService) CreateRekamMedis(ctx context.Context, req models.CreateRekamMedisRequest, createdBy int64) (int64, error) {
	var dummy int
	if err := s.DB.QueryRowContext(ctx, "SELECT 1 FROM patients WHERE id = ?", req.PatientID).Scan(&dummy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPasienNotFound
		}
		return 0, fmt.Errorf("check pasien: %w", err)
	}

	now := time.Now()
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO medical_records
			(patient_id, record_number, incident_date, treatment_date, admission_date, discharge_date,
			 diagnosis, complaint, treatment_type, status, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.PatientID, req.RecordNumber, req.IncidentDate, req.TreatmentDate, req.AdmissionDate, req.DischargeDate,
		req.Diagnosis, req.Complaint, req.TreatmentType, models.RekamMedisActive, createdBy, now, now,
	)
	if err != nil {
		if mariadb.IsDuplicateKey(err) {
			return 0, ErrRecordNumberTaken
		}
		return 0, fmt.Errorf("insert rekam medis: %w", err)
	}
	return res.LastInsertId()
}

func (s *RekamMedisService) GetRekamMedis(ctx context.Context, id int64) (*models.RekamMedis, error) {
	rm, err := scanRekamMedis(s.DB.QueryRowContext(ctx, rekamMedisSelect+" WHERE mr.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRekamMedisNotFound
		}
		return nil, fmt.Errorf("get rekam medis %d: %w", id, err)
	}
	return rm, nil
}

// ListRekamMedis mengambil rekam medis, opsional difilter per pasien dan status.
func (s *RekamMedisService) ListRekamMedis(ctx context.Context, patientID int64, status string) ([]models.RekamMedis, error) {
	query := rekamMedisSelect + " WHERE 1 = 1"
	params := []interface{}{}
	if patientID > 0 {
		query += " AND mr.patient_id = ?"
		params = append(params, patientID)
	}
	if status != "" {
		query += " AND mr.status = ?"
		params = append(params, status)
	}
	query += " ORDER BY mr.admission_date DESC, mr.id DESC"

	rows, err := s.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query rekam medis: %w", err)
	}
	defer rows.Close()

	list := []models.RekamMedis{}
	for rows.Next() {
		rm, err := scanRekamMedis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rekam medis: %w", err)
		}
		list = append(list, *rm)
	}
	return list, rows.Err()
}

// UpdateStatus menutup (completed/cancelled) atau membuka kembali episode perawatan.
func (s *RekamMedisService) UpdateStatus(ctx context.Context, id int64, req models.UpdateRekamMedisStatusRequest) error {
	res, err := s.DB.ExecContext(ctx,
		"UPDATE medical_records SET status = ?, discharge_date = COALESCE(?, discharge_date), updated_at = ? WHERE id = ?",
		req.Status, req.DischargeDate, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update status rekam medis: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRekamMedisNotFound
	}
	return nil
}

// RecordSummary dipakai billing untuk memvalidasi medical_record_id dan kepala cetakan.
func (s *RekamMedisService) RecordSummary(ctx context.Context, id int64) (*models.RecordSummary, error) {
	var sum models.RecordSummary
	err := s.DB.QueryRowContext(ctx,
		`SELECT mr.id, mr.record_number, mr.status, p.id, p.name, p.no_kpj
		 FROM medical_records mr JOIN patients p ON p.id = mr.patient_id
		 WHERE mr.id = ?`, id,
	).Scan(&sum.ID, &sum.RecordNumber, &sum.Status, &sum.PatientID, &sum.PatientName, &sum.NoKPJ)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRekamMedisNotFound
		}
		return nil, fmt.Errorf("get record summary %d: %w", id, err)
	}
	return &sum, nil
}
