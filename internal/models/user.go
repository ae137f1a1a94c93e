package models

import "time"

// User roles
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// AppUser represents an application user stored in MongoDB
type AppUser struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Role         string    `bson:"role" json:"role"` // "member" or "admin"
	Company      string    `bson:"company" json:"company"`
	AvatarURL    string    `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"` // argon2id, never serialized
	Disabled     bool      `bson:"authDisabled" json:"authDisabled"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
	LastLoginAt  time.Time `bson:"lastLoginAt,omitempty" json:"last_login_at,omitempty"`
}

// CreateUserRequest is the admin request body for creating a user
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Company  string `json:"company"`
	Password string `json:"password,omitempty"` // optional; a default is applied
}

// UpdateUserRequest is the admin request body for updating a user.
// Pointer fields distinguish "not provided" from zero values.
type UpdateUserRequest struct {
	ID      string  `json:"id"`
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Role    *string `json:"role,omitempty"`
	Company *string `json:"company,omitempty"`
	Disable *bool   `json:"disable,omitempty"`
}

// DeleteUsersRequest is the admin request body for bulk user deletion
type DeleteUsersRequest struct {
	IDs []string `json:"ids"`
}

// LoginRequest is the request body for password login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued token pair
type TokenResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         AppUser `json:"user"`
}
