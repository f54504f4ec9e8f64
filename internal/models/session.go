package models

// SessionState is the position of a visitor session in its lifecycle.
type SessionState string

const (
	SessionUnknown         SessionState = "unknown"
	SessionAuthenticated   SessionState = "authenticated"
	SessionUnauthenticated SessionState = "unauthenticated"
)

// SessionSnapshot is a consistent read of a visitor session.
type SessionSnapshot struct {
	State           SessionState `json:"state"`
	IsLoading       bool         `json:"isLoading"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *AdminUser   `json:"user,omitempty"`
}
