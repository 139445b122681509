package models

// DefaultAdminPassword is the initial admin password of a fresh install.
const DefaultAdminPassword = "admin111"

// ResetUserPassword is the fixed value an admin reset assigns to a user.
const ResetUserPassword = "123456"

// Settings is the admin-configurable singleton document.
type Settings struct {
	AdminPassword string `json:"admin_password"`
	AutoRefresh   bool   `json:"auto_refresh"`
}

// DefaultSettings returns the first-run settings document.
func DefaultSettings() Settings {
	return Settings{AdminPassword: DefaultAdminPassword, AutoRefresh: true}
}
