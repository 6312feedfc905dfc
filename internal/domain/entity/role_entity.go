package entity

// Role tags stored on User.Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
