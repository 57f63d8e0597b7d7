package models

// Role adalah peran pengguna yang dibawa di token JWT.
type Role string

const (
	RoleAdminRS   Role = "admin_rs"   // admin rumah sakit
	RoleAdminBPJS Role = "admin_bpjs" // admin BPJS Ketenagakerjaan
)

func (r Role) Valid() bool {
	return r == RoleAdminRS || r == RoleAdminBPJS
}

// Actor adalah pengguna yang menjalankan operasi. Selalu dioper eksplisit ke service.
type Actor struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
