package models

// User is the database representation of a staff account row.
type User struct {
	UserID       string `db:"user_id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	Role         string `db:"role"`
	PasswordHash string `db:"password_hash"`
	AuthProvider string `db:"auth_provider"`
	ProviderID   string `db:"provider_id"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}
