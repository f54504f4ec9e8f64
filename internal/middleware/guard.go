package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/academy-admin/pkg/errors"
	"github.com/noah-isme/academy-admin/pkg/response"
)

// Guard applies the session redirect rules. Page loads are redirected; other methods
// get a 401 envelope naming the redirect target.
func Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, ok := WorkspaceFrom(c)
		if !ok {
			response.Error(c, appErrors.ErrSessionMissing)
			c.Abort()
			return
		}
		target := ws.Session.Redirect(c.Request.URL.Path)
		if target == "" {
			c.Next()
			return
		}
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		response.Failure(c, http.StatusUnauthorized, appErrors.ErrUnauthorized.Message, appErrors.ErrUnauthorized.Code, map[string]interface{}{
			"redirect": target,
		})
		c.Abort()
	}
}
