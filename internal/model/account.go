package model

import (
	"database/sql"
	"time"
)

// Account represents a row in the `accounts` table. OTP is nullable: it is
// set only while an email-verification or password-reset flow is pending and
// cleared on a successful check. Token is an opaque string regenerated on
// registration and every successful login; no endpoint verifies it.
type Account struct {
	ID           uint64
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	IsActive     bool
	OTP          sql.NullString
	Token        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountView is the restricted response shape shared by every read
// endpoint. It deliberately omits the password hash, the OTP and the token.
type AccountView struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginView is the login response payload: the restricted fields plus the
// freshly issued session token.
type LoginView struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
	Token    string `json:"token"`
}

// View converts an account to its restricted response shape.
func (a Account) View() AccountView {
	return AccountView{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
