package dto

// VerifyPasswordRequest body de POST /api/admin/verify-password.
type VerifyPasswordRequest struct {
	Password string `json:"password"`
}

// VerifyPasswordResponse resultado de la verificación.
type VerifyPasswordResponse struct {
	Valid bool `json:"valid"`
}
