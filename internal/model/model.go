// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Role is the authorization level of an account.
type Role string

const (
	// RoleUser can browse, search and purchase.
	RoleUser Role = "USER"
	// RoleAdmin can additionally create, update, delete and restock sweets.
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one of the two known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User represents an account stored on the server. The raw password is never stored.
type User struct {
	ID        uuid.UUID // PK
	Email     string    // unique, stored lowercase
	PwdHash   []byte    // bcrypt(password)
	Role      Role
	CreatedAt time.Time
}

// Sweet is a single inventory item.
type Sweet struct {
	ID          uuid.UUID // PK
	Name        string
	Category    string
	Price       float64 // >= 0
	Quantity    int64   // >= 0, maintained by atomic adjustments
	Description string  // optional
	CreatedAt   time.Time
	UpdatedAt   time.Time // maintained by the repo
}

// SweetPatch is a partial update intent; nil fields are left untouched.
type SweetPatch struct {
	Name        *string
	Category    *string
	Price       *float64
	Quantity    *int64
	Description *string
}

// Empty reports whether the patch touches no fields.
func (p SweetPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Price == nil && p.Quantity == nil && p.Description == nil
}

// SearchFilter narrows a catalog listing. Zero-value fields impose no constraint.
type SearchFilter struct {
	Name     string   // case-insensitive substring match on Name
	MaxPrice *float64 // inclusive upper bound
}

// Tokens collects an issued access token and its expiry (for diagnostics).
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time
}
