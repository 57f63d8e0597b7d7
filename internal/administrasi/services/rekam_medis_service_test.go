package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/billing-backend/internal/administrasi/models"
)

func TestCreateRekamMedisRequiresPatient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	svc := NewRekamMedisService(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM patients WHERE id = ?")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	_, err = svc.CreateRekamMedis(context.Background(), models.CreateRekamMedisRequest{PatientID: 42}, 1)
	assert.ErrorIs(t, err, ErrPasienNotFound)
}

func TestGetRekamMedis(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	svc := NewRekamMedisService(db)

	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	cols := []string{"id", "patient_id", "name", "record_number", "incident_date", "treatment_date", "admission_date",
		"discharge_date", "diagnosis", "complaint", "treatment_type", "status", "created_by", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE mr.id = ?")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(5, 1, "Budi Santoso", "RM-2025-005", day(1), day(1), day(2),
			nil, "Fraktur radius", "Jatuh dari tangga", "inpatient", "active", 1, time.Now()))

	rm, err := svc.GetRekamMedis(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", rm.AdmissionDate)
	assert.Nil(t, rm.DischargeDate)
	require.NotNil(t, rm.CreatedBy)
	assert.Equal(t, int64(1), *rm.CreatedBy)
	assert.Equal(t, "Budi Santoso", rm.PatientName)
}

func TestUpdateStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	svc := NewRekamMedisService(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE medical_records SET status = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = svc.UpdateStatus(context.Background(), 9, models.UpdateRekamMedisStatusRequest{Status: models.RekamMedisCompleted})
	assert.ErrorIs(t, err, ErrRekamMedisNotFound)
}

func TestRecordSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	svc := NewRekamMedisService(db)

	cols := []string{"id", "record_number", "status", "patient_id", "name", "no_kpj"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM medical_records mr JOIN patients p")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(5, "RM-2025-005", "active", 1, "Budi Santoso", "KPJ-0001"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM medical_records mr JOIN patients p")).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows(cols))

	sum, err := svc.RecordSummary(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "KPJ-0001", sum.NoKPJ)

	_, err = svc.RecordSummary(context.Background(), 6)
	assert.ErrorIs(t, err, ErrRekamMedisNotFound)
}
