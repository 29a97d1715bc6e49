package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/manoj-kumar111/sweet-shop/internal/errs"
	"github.com/manoj-kumar111/sweet-shop/internal/model"
	"github.com/manoj-kumar111/sweet-shop/internal/token"
)

// TokenVerifier validates bearer tokens; implemented by *token.Service.
type TokenVerifier interface {
	Verify(raw string) (token.Identity, error)
}

// Logging emits one structured access log line per request.
// Metadata only, never payloads.
func Logging(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
			zap.String("peer", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("err", c.Errors.Last().Error()))
		}
		log.Info("http", fields...)
	}
}

// Recovery converts panics into opaque 500 responses.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			}
		}()
		c.Next()
	}
}

// AuthRequired extracts and verifies the bearer token, storing the identity
// on the context. Every failure mode yields the same generic 401 body.
func AuthRequired(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			abortWithError(c, fmt.Errorf("%w: missing bearer token", errs.ErrUnauthorized))
			return
		}
		id, err := verifier.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			abortWithError(c, err)
			return
		}
		withIdentity(c, id)
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Runs after AuthRequired.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFrom(c)
		if !ok {
			abortWithError(c, fmt.Errorf("%w: missing bearer token", errs.ErrUnauthorized))
			return
		}
		if id.Role != model.RoleAdmin {
			abortWithError(c, fmt.Errorf("%w: admin role required", errs.ErrForbidden))
			return
		}
		c.Next()
	}
}
