package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// User is the passenger a ticket is issued to.  The email address is the
// lookup key for every ticket operation and is compared case-insensitively.
//
// Fields:
//  FirstName – passenger's given name (required).
//  LastName  – passenger's family name (required).
//  Email     – contact address, also used to find the ticket.
type User struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Validate rejects users that must not reach the registry: blank names or
// a missing/malformed email.
func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.FirstName, validation.Required.Error("First name is required")),
		validation.Field(&u.LastName, validation.Required.Error("Last name is required")),
		validation.Field(&u.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Email should be valid"),
		),
	)
}
