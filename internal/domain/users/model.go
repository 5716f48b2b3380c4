package users

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("user not found")
)

// User es la cuenta local. PasswordHash guarda bcrypt y nunca se proyecta;
// IsActive/IsStaff los administra el colaborador de auth (acá solo lectura).
type User struct {
	ID           string
	Username     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Phone        string
	StatusCode   int
	IsActive     bool
	IsStaff      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type View struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	StatusCode int       `json:"user_status"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToView(u User) View {
	return View{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		StatusCode: u.StatusCode,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
