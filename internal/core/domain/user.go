package domain

import "time"

// UserRole controls access to administrative operations (counter resets).
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleReception UserRole = "RECEPTION"
)

// User is a back-office staff member who can authenticate against the API.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (UUID)
	Name         string   `json:"name"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
