package session

// Page enumerates the navigable views. LoggedOut is a pseudo-page: selecting
// it resets the session instead of rendering anything.
type Page string

const (
	PageAuth            Page = "auth"
	PageUserHome        Page = "user_home"
	PageDataEntry       Page = "data_entry"
	PageViewEdit        Page = "view_edit"
	PageFilterExport    Page = "filter_export"
	PageUserSettings    Page = "user_settings"
	PageAdminPanel      Page = "admin_panel"
	PageImpersonateView Page = "impersonate_view"
	PageLoggedOut       Page = "logged_out"
)
