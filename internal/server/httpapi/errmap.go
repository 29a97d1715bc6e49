package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manoj-kumar111/sweet-shop/internal/errs"
)

// abortWithError renders an error as {message} JSON with the status code
// matching its sentinel kind. Unrecognized errors become an opaque 500 so no
// internal detail leaks to the client.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalid):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, errs.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, errs.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, errs.ErrAlreadyExists), errors.Is(err, errs.ErrOutOfStock):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, errs.ErrRateLimited):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many login attempts, try again later"})
	default:
		_ = c.Error(err) // picked up by the logging middleware
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}
