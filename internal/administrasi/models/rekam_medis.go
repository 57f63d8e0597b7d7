package models

import "time"

const (
	TreatmentOutpatient = "outpatient"
	TreatmentInpatient  = "inpatient"
	TreatmentEmergency  = "emergency"

	RekamMedisActive    = "active"
	RekamMedisCompleted = "completed"
	RekamMedisCancelled = "cancelled"
)

// RekamMedis adalah satu episode perawatan pasien. Tanggal disimpan "2006-01-02".
type RekamMedis struct {
	ID            int64     `json:"id"`
	PatientID     int64     `json:"patient_id"`
	PatientName   string    `json:"patient_name,omitempty"`
	RecordNumber  string    `json:"record_number"`
	IncidentDate  string    `json:"incident_date"`
	TreatmentDate string    `json:"treatment_date"`
	AdmissionDate string    `json:"admission_date"`
	DischargeDate *string   `json:"discharge_date"`
	Diagnosis     string    `json:"diagnosis"`
	Complaint     string    `json:"complaint"`
	TreatmentType string    `json:"treatment_type"`
	Status        string    `json:"status"`
	CreatedBy     *int64    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateRekamMedisRequest struct {
	PatientID     int64   `json:"patient_id" validate:"required,gt=0"`
	RecordNumber  string  `json:"record_number" validate:"required,max=30"`
	IncidentDate  string  `json:"incident_date" validate:"required,datetime=2006-01-02"`
	TreatmentDate string  `json:"treatment_date" validate:"required,datetime=2006-01-02"`
	AdmissionDate string  `json:"admission_date" validate:"required,datetime=2006-01-02"`
	DischargeDate *string `json:"discharge_date" validate:"omitempty,datetime=2006-01-02"`
	Diagnosis     string  `json:"diagnosis" validate:"required,max=255"`
	Complaint     string  `json:"complaint"`
	TreatmentType string  `json:"treatment_type" validate:"required,oneof=outpatient inpatient emergency"`
}

type UpdateRekamMedisStatusRequest struct {
	Status        string  `json:"status" validate:"required,oneof=active completed cancelled"`
	DischargeDate *string `json:"discharge_date" validate:"omitempty,datetime=2006-01-02"`
}

// RecordSummary adalah kepala rekam medis yang dipakai modul billing.
type RecordSummary struct {
	ID           int64  `json:"id"`
	RecordNumber string `json:"record_number"`
	Status       string `json:"status"`
	PatientID    int64  `json:"patient_id"`
	PatientName  string `json:"patient_name"`
	NoKPJ        string `json:"no_kpj"`
}
