package middleware

import (
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/onboarding-portal/api/internal/constants"
	"github.com/onboarding-portal/api/internal/database"
	apierrors "github.com/onboarding-portal/api/internal/errors"
	"github.com/onboarding-portal/api/internal/models"
)

// RequireAuth resolves the caller identity and loads the matching user
// record into the request context. The session cookie is checked
// first; when allowLegacyHeader is set, the plain X-User-Id header is
// accepted as a fallback for clients predating session support.
func RequireAuth(allowLegacyHeader bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveIdentity(c, allowLegacyHeader)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, &user)
		c.Next()
	}
}

// RequireAdmin gates a route to administrators. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser retrieves the resolved user from the request context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	return user, ok
}

func resolveIdentity(c *gin.Context, allowLegacyHeader bool) (uint64, bool) {
	// The sessions middleware may not be installed on every router
	// (tests exercise handlers with header identity only).
	if _, installed := c.Get(sessions.DefaultKey); installed {
		session := sessions.Default(c)
		if v := session.Get(constants.ContextKeyUserID); v != nil {
			switch id := v.(type) {
			case uint64:
				return id, true
			case int64:
				if id > 0 {
					return uint64(id), true
				}
			case int:
				if id > 0 {
					return uint64(id), true
				}
			}
		}
	}

	if allowLegacyHeader {
		if raw := c.GetHeader(constants.HeaderUserID); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
				return id, true
			}
		}
	}

	return 0, false
}
