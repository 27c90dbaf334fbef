package constants

const (
	// ContextKeyUserID is the gin context / session key holding the
	// authenticated user's ID.
	ContextKeyUserID = "user_id"
	// ContextKeyUser holds the resolved models.User for the request.
	ContextKeyUser = "current_user"

	// SessionCookieName names the session cookie.
	SessionCookieName = "onboarding_session"

	// HeaderUserID is the legacy caller-identity header accepted when
	// legacy header auth is enabled.
	HeaderUserID = "X-User-Id"
)

const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
