package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manoj-kumar111/sweet-shop/internal/errs"
	"github.com/manoj-kumar111/sweet-shop/internal/service"
)

// AuthHandlers exposes registration and login endpoints.
type AuthHandlers struct {
	Svc service.AuthService
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandlers) register(c *gin.Context) {
	var in credentialsReq
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, fmt.Errorf("%w: malformed request body", errs.ErrInvalid))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": toUserJSON(*u)})
}

func (h *AuthHandlers) registerAdmin(c *gin.Context) {
	var in credentialsReq
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, fmt.Errorf("%w: malformed request body", errs.ErrInvalid))
		return
	}
	u, err := h.Svc.RegisterAdmin(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": toUserJSON(*u)})
}

func (h *AuthHandlers) login(c *gin.Context) {
	var in credentialsReq
	if err := c.ShouldBindJSON(&in); err != nil {
		// Bad login input still reads as invalid credentials, never 400.
		abortWithError(c, fmt.Errorf("%w: invalid credentials", errs.ErrUnauthorized))
		return
	}
	toks, u, err := h.Svc.LoginWithIP(c.Request.Context(), in.Email, in.Password, c.ClientIP())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": toks.AccessToken, "user": toUserJSON(u)})
}
