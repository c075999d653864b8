package domain

// UserRole is the coarse role of a staff account.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleClerk UserRole = "CLERK"
)

// User is a staff account (billing clerk, bursar, administrator). Staff users
// are the actors recorded on every ledger mutation.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (UUID)
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Role         UserRole `json:"role"`
	PasswordHash string   `json:"-"` // bcrypt; empty for SSO-only accounts
	AuthProvider string   `json:"authProvider,omitempty"` // e.g. "google"
	ProviderID   string   `json:"-"`
	IsActive     bool     `json:"isActive"`
	AuditFields
}
