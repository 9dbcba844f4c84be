package models

import (
	"encoding/json"
	"strings"
)

// User is an account identity as returned by the API.
type User struct {
	ID        ID
	Name      string
	FirstName string
	LastName  string
	Email     string
	Role      Role
	CreatedAt Timestamp
}

type userJSON struct {
	ID        ID        `json:"id,omitempty"`
	MongoID   ID        `json:"_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

func (u *User) UnmarshalJSON(b []byte) error {
	var raw userJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = User{
		ID:        pickID(raw.ID, raw.MongoID),
		Name:      raw.Name,
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		Email:     raw.Email,
		Role:      raw.Role,
		CreatedAt: raw.CreatedAt,
	}
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:        u.ID,
		Name:      u.Name,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	})
}

// DisplayName prefers the single name field and falls back to
// "First Last", then the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return u.Email
}
