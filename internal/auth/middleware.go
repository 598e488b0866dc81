package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// RequireAuth guards a route group: the request proceeds only if the
// resolver chain produces an identity, otherwise 401.
func RequireAuth(chain Chain) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := chain.Resolve(c.Request)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by RequireAuth, or nil when
// the route is unguarded.
func CurrentIdentity(c *gin.Context) *Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := value.(*Identity)
	if !ok {
		return nil
	}
	return identity
}
