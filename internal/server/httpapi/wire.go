package httpapi

import (
	"github.com/manoj-kumar111/sweet-shop/internal/model"
)

// Wire shapes match the original REST contract: Mongo-style `_id` keys,
// role serialized as "USER"/"ADMIN".

type userJSON struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type sweetJSON struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Description string  `json:"description,omitempty"`
}

func toUserJSON(u model.User) userJSON {
	return userJSON{ID: u.ID.String(), Email: u.Email, Role: string(u.Role)}
}

func toSweetJSON(s model.Sweet) sweetJSON {
	return sweetJSON{
		ID:          s.ID.String(),
		Name:        s.Name,
		Category:    s.Category,
		Price:       s.Price,
		Quantity:    s.Quantity,
		Description: s.Description,
	}
}

func toSweetListJSON(sweets []model.Sweet) []sweetJSON {
	out := make([]sweetJSON, 0, len(sweets))
	for _, s := range sweets {
		out = append(out, toSweetJSON(s))
	}
	return out
}
