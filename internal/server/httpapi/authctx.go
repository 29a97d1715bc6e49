package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/manoj-kumar111/sweet-shop/internal/token"
)

const identityKey = "sweetshop.identity"

// withIdentity stores the verified token identity on the request context.
func withIdentity(c *gin.Context, id token.Identity) {
	c.Set(identityKey, id)
}

// identityFrom fetches the verified identity set by the auth middleware.
func identityFrom(c *gin.Context) (token.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return token.Identity{}, false
	}
	id, ok := v.(token.Identity)
	return id, ok
}
