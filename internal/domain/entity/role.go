package entity

// Roles carried in access token claims.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)
