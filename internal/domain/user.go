package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	BirthDate    *string   `json:"birth_date,omitempty"`
	PhoneNumber  *string   `json:"phone_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the minimal profile returned alongside a session token.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}
