package domain

import "time"

// Person is any registered actor: visitor, owner, carrier, business or gov.
type Person struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IDNumber  string    `json:"idNumber,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity is the authenticated caller context supplied by the auth layer.
type Identity struct {
	ID   int64
	Role Role
}
