package client

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Client is an owner-scoped contact record. OwnerID is assigned at creation
// from the authenticated principal and never changes afterwards.
type Client struct {
	ID        string
	Firstname string
	Lastname  string
	Email     string
	OwnerID   string
	CreatedAt time.Time
}

// Input carries the writable client fields for create and update. Ownership
// is deliberately absent; it cannot be supplied by the caller.
type Input struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
}

// Validate applies the declarative field rules shared by create and update.
func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Firstname, validation.Required, validation.Length(1, 64)),
		validation.Field(&in.Lastname, validation.Required, validation.Length(1, 64)),
		validation.Field(&in.Email, validation.Required, is.Email),
	)
}
