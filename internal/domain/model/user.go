package model

import (
	"time"
)

// User mirrors an identity known to the external provider. The ID is the
// provider's opaque subject.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
