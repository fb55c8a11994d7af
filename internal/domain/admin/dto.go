package admin

// LoginRequest for POST /admin/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the session bearer token. The client keeps it
// in memory only; there is nothing to restore a session from after a
// reload.
type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// ResetRequest for POST /admin/password-reset
type ResetRequest struct {
	Email string `json:"email" validate:"required"`
}

// ResetConfirmRequest for POST /admin/password-reset/confirm
type ResetConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}
