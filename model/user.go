package model

import "strings"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthSession is what /auth/login hands back and what the client keeps on disk.
type AuthSession struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

func (a AuthSession) IsAdmin() bool {
	return IsAdminRole(a.Role)
}

// IsAdminRole accepts both the login role ("ADMIN") and the Spring
// authority form ("ROLE_ADMIN").
func IsAdminRole(role string) bool {
	role = strings.ToUpper(strings.TrimSpace(role))
	return role == "ADMIN" || role == "ROLE_ADMIN"
}

// User is an account as GET /profile and GET /admin/users return it.
type User struct {
	Id             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	PhoneNumber    string    `json:"phoneNumber"`
	ProfilePicture string    `json:"profilePicture"`
	Roles          []string  `json:"roles"`
	EmailVerified  bool      `json:"emailVerified"`
	Active         bool      `json:"active"`
	CreatedAt      LocalTime `json:"createdAt"`
	UpdatedAt      LocalTime `json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	for _, role := range u.Roles {
		if IsAdminRole(role) {
			return true
		}
	}
	return false
}

// ProfileUpdate is the body of PUT /profile. Nil fields are left out of the
// request and keep their stored value.
type ProfileUpdate struct {
	FullName    *string `json:"fullName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

func (p ProfileUpdate) Empty() bool {
	return p.FullName == nil && p.PhoneNumber == nil
}

// PasswordChange is the body of POST /profile/change-password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
