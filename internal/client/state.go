package client

import (
	"strings"
	"time"
)

// Session is the authenticated identity held by the client process.
type Session struct {
	User      User
	Token     string
	ExpiresAt time.Time
}

// State is the client's view of the world: the session plus the last
// successfully fetched sweets list. Every transition returns a new snapshot;
// callers apply one only after the corresponding server call succeeded, so a
// failed request leaves the previous state intact.
type State struct {
	Session   *Session
	Sweets    []Sweet
	CartCount int
}

// WithSession returns a state with the session installed. A fresh list fetch
// is expected to follow whenever a token becomes available.
func (s State) WithSession(u User, token string, expiresAt time.Time) State {
	s.Session = &Session{User: u, Token: token, ExpiresAt: expiresAt}
	return s
}

// Logout clears the session and cart count. The stale list is kept on purpose:
// it is advisory, and the next login forces a refetch.
func (s State) Logout() State {
	s.Session = nil
	s.CartCount = 0
	return s
}

// Authenticated reports whether a session is present and not known-expired.
// The server remains the sole authority on token validity.
func (s State) Authenticated() bool {
	return s.Session != nil && (s.Session.ExpiresAt.IsZero() || s.Session.ExpiresAt.After(time.Now()))
}

// WithList replaces the mirrored list after a successful list/search call.
func (s State) WithList(sweets []Sweet) State {
	s.Sweets = copyList(sweets)
	return s
}

// ApplyPurchase decrements the local quantity (floored at zero) and bumps the
// cart count after a confirmed purchase.
func (s State) ApplyPurchase(id string) State {
	out := copyList(s.Sweets)
	for i := range out {
		if out[i].ID == id && out[i].Quantity > 0 {
			out[i].Quantity--
		}
	}
	s.Sweets = out
	s.CartCount++
	return s
}

// ApplyCreate appends a newly created sweet to the mirrored list.
func (s State) ApplyCreate(sweet Sweet) State {
	out := copyList(s.Sweets)
	s.Sweets = append(out, sweet)
	return s
}

// ApplyUpdate replaces the matching record with the server's version.
func (s State) ApplyUpdate(sweet Sweet) State {
	out := copyList(s.Sweets)
	for i := range out {
		if out[i].ID == sweet.ID {
			out[i] = sweet
		}
	}
	s.Sweets = out
	return s
}

// ApplyDelete removes the record from the mirrored list.
func (s State) ApplyDelete(id string) State {
	out := make([]Sweet, 0, len(s.Sweets))
	for _, sw := range s.Sweets {
		if sw.ID != id {
			out = append(out, sw)
		}
	}
	s.Sweets = out
	return s
}

// ApplyRestock adds n units to the local quantity after a confirmed restock.
func (s State) ApplyRestock(id string, n int64) State {
	out := copyList(s.Sweets)
	for i := range out {
		if out[i].ID == id {
			out[i].Quantity += n
		}
	}
	s.Sweets = out
	return s
}

// Filter derives the visible subset of the mirrored list the way the
// storefront does: case-insensitive substring on name or description,
// category match with "all" as a wildcard, inclusive price range.
func (s State) Filter(query, category string, minPrice, maxPrice float64) []Sweet {
	needle := strings.ToLower(query)
	out := []Sweet{}
	for _, sw := range s.Sweets {
		if needle != "" &&
			!strings.Contains(strings.ToLower(sw.Name), needle) &&
			!strings.Contains(strings.ToLower(sw.Description), needle) {
			continue
		}
		if category != "" && category != "all" && sw.Category != category {
			continue
		}
		if sw.Price < minPrice || (maxPrice > 0 && sw.Price > maxPrice) {
			continue
		}
		out = append(out, sw)
	}
	return out
}

func copyList(in []Sweet) []Sweet {
	out := make([]Sweet, len(in))
	copy(out, in)
	return out
}
