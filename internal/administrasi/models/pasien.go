package models

import "time"

// Pasien adalah peserta BPJS Ketenagakerjaan (no_kpj) yang dirawat di RS.
type Pasien struct {
	ID           int64     `json:"id"`
	NoKPJ        string    `json:"no_kpj"`
	NIK          string    `json:"nik"`
	Nama         string    `json:"name"`
	Alamat       string    `json:"address"`
	NoTelp       string    `json:"phone"`
	TanggalLahir string    `json:"birth_date"` // Format: "2006-01-02"
	JenisKelamin string    `json:"gender"`     // L | P
	CreatedAt    time.Time `json:"created_at"`
}

type CreatePasienRequest struct {
	NoKPJ        string `json:"no_kpj" validate:"required,max=30"`
	NIK          string `json:"nik" validate:"required,len=16,numeric"`
	Nama         string `json:"name" validate:"required,max=100"`
	Alamat       string `json:"address"`
	NoTelp       string `json:"phone" validate:"max=20"`
	TanggalLahir string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	JenisKelamin string `json:"gender" validate:"required,oneof=L P"`
}
