package model

import "time"

const (
	RoleAdministrator = "Administrator"
	RoleRegularUser   = "Regular User"
)

// User with its loaded role names. Password is the bcrypt hash and never
// leaves the process.
type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	Roles     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the request-scoped caller: the user with roles loaded exactly
// once, admin status resolved up front. Handlers put it on the request
// context and pass it explicitly into the services.
type Identity struct {
	ID      int64
	Name    string
	Email   string
	Roles   []string
	IsAdmin bool
}

func NewIdentity(u User) Identity {
	ident := Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Roles: u.Roles,
	}
	for _, r := range u.Roles {
		if r == RoleAdministrator {
			ident.IsAdmin = true
			break
		}
	}
	return ident
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary is the assignment-dropdown projection.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
