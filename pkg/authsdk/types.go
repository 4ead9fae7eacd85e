package authsdk

import "time"

// User is the profile shape returned by the API. It mirrors the server's
// sanitized user record; there is no password field by contract.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email"`
	RoleID       int64     `json:"roleId"`
	RoleName     string    `json:"roleName,omitempty"`
	DepartmentID *int64    `json:"departmentId"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AuthResult is the payload of a successful signup or login.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// SignupRequest carries the fields for POST /auth/signup.
type SignupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	RoleID       int64  `json:"roleId"`
	DepartmentID *int64 `json:"departmentId,omitempty"`
}
