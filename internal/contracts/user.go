package contracts

import "time"

// Role is the account type chosen at signup
type Role string

const (
	RoleCompany    Role = "company"
	RoleContractor Role = "contractor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleCompany, RoleContractor, RoleAdmin:
		return true
	}
	return false
}

// UserStatus mirrors users.status
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserPending  UserStatus = "pending"
)

// User is an account row. PasswordHash never leaves the backend.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Session is what a successful login returns
type Session struct {
	User         User   `json:"user"`
	CompanyID    *int64 `json:"companyId,omitempty"`
	ContractorID *int64 `json:"contractorId,omitempty"`
}
