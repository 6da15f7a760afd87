package models

import "time"

// UserRole identifies the account kind. The product is single-tenant
// per tutor, so there is only one role today.
type UserRole string

const RoleTutor UserRole = "TUTOR"

// User is a login account. Real deployments would delegate to an OAuth
// provider; the local credential exists so the dashboard can be used
// standalone.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
