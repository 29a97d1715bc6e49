package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"

	"github.com/manoj-kumar111/sweet-shop/internal/errs"
	"github.com/manoj-kumar111/sweet-shop/internal/model"
	"github.com/manoj-kumar111/sweet-shop/internal/service"
)

// SweetHandlers exposes catalog and stock endpoints.
type SweetHandlers struct {
	Svc service.SweetService
}

type createSweetReq struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Description string  `json:"description"`
}

type patchSweetReq struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *int64   `json:"quantity"`
	Description *string  `json:"description"`
}

type restockReq struct {
	Quantity int64 `json:"quantity"`
}

func (h *SweetHandlers) list(c *gin.Context) {
	sweets, err := h.Svc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSweetListJSON(sweets))
}

func (h *SweetHandlers) search(c *gin.Context) {
	f := model.SearchFilter{Name: c.Query("name")}
	if raw := c.Query("maxPrice"); raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			abortWithError(c, fmt.Errorf("%w: maxPrice must be a number", errs.ErrInvalid))
			return
		}
		f.MaxPrice = &max
	}
	sweets, err := h.Svc.Search(c.Request.Context(), f)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSweetListJSON(sweets))
}

func (h *SweetHandlers) create(c *gin.Context) {
	role := actorRole(c)
	var in createSweetReq
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, fmt.Errorf("%w: malformed request body", errs.ErrInvalid))
		return
	}
	s, err := h.Svc.Create(c.Request.Context(), service.CreateSweet{
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
	}, role)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sweet": toSweetJSON(*s)})
}

func (h *SweetHandlers) update(c *gin.Context) {
	role := actorRole(c)
	id, ok := sweetID(c)
	if !ok {
		return
	}
	var in patchSweetReq
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, fmt.Errorf("%w: malformed request body", errs.ErrInvalid))
		return
	}
	s, err := h.Svc.Update(c.Request.Context(), id, model.SweetPatch{
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
	}, role)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sweet": toSweetJSON(*s)})
}

func (h *SweetHandlers) delete(c *gin.Context) {
	role := actorRole(c)
	id, ok := sweetID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, role); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sweet deleted"})
}

func (h *SweetHandlers) purchase(c *gin.Context) {
	id, ok := sweetID(c)
	if !ok {
		return
	}
	if err := h.Svc.Purchase(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "purchase successful"})
}

func (h *SweetHandlers) restock(c *gin.Context) {
	role := actorRole(c)
	id, ok := sweetID(c)
	if !ok {
		return
	}
	var in restockReq
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, fmt.Errorf("%w: malformed request body", errs.ErrInvalid))
		return
	}
	if err := h.Svc.Restock(c.Request.Context(), id, in.Quantity, role); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "restock successful"})
}

// sweetID parses the :id path segment. Unparseable ids read as unknown
// resources, matching the 404 contract of all /sweets/:id routes.
func sweetID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: unknown sweet", errs.ErrNotFound))
		return uuid.Nil, false
	}
	return id, true
}

// actorRole returns the authenticated caller's role. The auth middleware
// guarantees an identity is present on every protected route.
func actorRole(c *gin.Context) model.Role {
	id, _ := identityFrom(c)
	return id.Role
}
