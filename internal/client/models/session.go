package models

// Session is the authenticated-identity record: an opaque bearer token plus
// the cached user. At most one Session is active per state database, and it
// is the sole authority for "is this device authenticated".
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// PendingRegistration is the draft captured before an invitation code or job
// title exists. A PendingRegistration and a Session are mutually exclusive.
type PendingRegistration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// AdminSession is the dashboard-side twin of Session: a bearer token against
// the /admin endpoint family plus the admin's username. It lives under its
// own store keys and never interacts with the user Session.
type AdminSession struct {
	Token string `json:"token"`
	Admin string `json:"admin"`
}

// AdminStats is the aggregate block returned alongside the user listing.
type AdminStats struct {
	TotalUsers         int64 `json:"total_users"`
	ActiveUsers        int64 `json:"active_users"`
	TotalConversations int64 `json:"total_conversations"`
	TotalMessages      int64 `json:"total_messages"`
}
