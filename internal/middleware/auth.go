package middleware

import (
	"errors"
	"net/http"

	"csss-site/internal/models"
	"csss-site/internal/perms"
	"csss-site/internal/session"
	"csss-site/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "session_id"

const currentUserKey = "currentUser"

// CurrentUser returns the authenticated user placed in the context by
// AuthRequired/AuthOptional, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// resolveUser loads the user bound to the request's session cookie.
// Missing cookie, unknown token and expired token all come back as
// (nil, nil): anonymous, not an error.
func resolveUser(c *gin.Context, store *session.Store, db *gorm.DB) (*models.User, error) {
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return nil, nil
	}
	computingID, err := store.Resolve(token)
	if err != nil {
		return nil, err
	}
	if computingID == "" {
		return nil, nil
	}
	var user models.User
	if err := db.First(&user, "computing_id = ?", computingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// AuthRequired rejects anonymous requests with 401.
func AuthRequired(store *session.Store, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, store, db)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "session lookup failed")
			c.Abort()
			return
		}
		if user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// AuthOptional resolves the session if present but lets anonymous
// requests through; handlers that show extra fields to admins use it.
func AuthOptional(store *session.Store, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, store, db)
		if err == nil && user != nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// RequireSiteAdmin gates a route to users holding a site-admin
// position. Must run after AuthRequired. The 403 is deliberately
// uninformative about which position would have sufficed.
func RequireSiteAdmin(ev *perms.Evaluator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}
		ok, err := ev.IsSiteAdmin(user.ComputingID)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "permission check failed")
			c.Abort()
			return
		}
		if !ok {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireElectionAdmin gates a route to election administrators.
func RequireElectionAdmin(ev *perms.Evaluator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}
		ok, err := ev.IsElectionAdmin(user.ComputingID)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "permission check failed")
			c.Abort()
			return
		}
		if !ok {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}
