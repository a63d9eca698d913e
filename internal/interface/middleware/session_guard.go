package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/rizkypratama/go-accounts/internal/auth"
)

const (
	CtxUserIDKey   = "userID"
	CtxEmailKey    = "userEmail"
	CtxUsernameKey = "userName"
)

// SessionGuard protects page handlers: an unauthenticated request is
// redirected to the login route with the original path in ?next= before
// the handler runs. On success the resolved identity is stored in the Gin
// context.
func SessionGuard(gw auth.Gateway, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			redirectToLogin(c, loginPath)
			return
		}
		id, err := gw.Resolve(c.Request.Context(), token)
		if err != nil {
			redirectToLogin(c, loginPath)
			return
		}
		c.Set(CtxUserIDKey, id.UserID)
		c.Set(CtxEmailKey, id.Email)
		c.Set(CtxUsernameKey, id.Username)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context, loginPath string) {
	next := url.QueryEscape(c.Request.URL.Path)
	c.Redirect(http.StatusFound, loginPath+"?next="+next)
	c.Abort()
}

// CurrentIdentity resolves the request's session without enforcing it.
// Used by the logout flow, which needs "logged in or not" rather than a
// hard gate.
func CurrentIdentity(c *gin.Context, gw auth.Gateway) *auth.Identity {
	token, err := c.Cookie("access_token")
	if err != nil || token == "" {
		return nil
	}
	id, err := gw.Resolve(c.Request.Context(), token)
	if err != nil {
		return nil
	}
	return id
}
