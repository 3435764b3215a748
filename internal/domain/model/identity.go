package model

// RoleAdmin grants access to administrative order endpoints.
const RoleAdmin = "admin"

// Identity is the caller as reported by the auth service.
type Identity struct {
	ID    string
	Email string
	Name  string
	Role  string
}
