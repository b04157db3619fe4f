package account

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// User is a registered API account. The password hash is write-only and
// never appears in a response.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// RegisterInput carries the fields accepted when creating an account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate applies the declarative field rules for registration.
func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(2, 64)),
		validation.Field(&in.Email, validation.Required, is.Email),
		// bcrypt truncates beyond 72 bytes
		validation.Field(&in.Password, validation.Required, validation.Length(8, 72)),
	)
}
