// Package transport defines the request and response shapes of the
// auth HTTP API.
package transport

// SignInRequest carries operator credentials.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// SignOutRequest revokes a refresh token.
type SignOutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// CreateUserRequest registers a new operator account.
type CreateUserRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Roles    []string `json:"roles" validate:"omitempty,dive,oneof=operator admin"`
}

// SetRolesRequest replaces an operator's role set.
type SetRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=operator admin"`
}

// AuthResponse returns a fresh token pair.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ProfileResponse is the caller's own account view.
type ProfileResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"createdAt"`
}
