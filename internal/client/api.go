// Package client implements the Sweet Shop API client and the local state
// store that mirrors server inventory between calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// User is the wire representation of an account.
type User struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the account carries the ADMIN role.
func (u User) IsAdmin() bool { return u.Role == "ADMIN" }

// Sweet is the wire representation of an inventory item.
type Sweet struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Description string  `json:"description,omitempty"`
}

// SweetInput carries the fields for creating a sweet.
type SweetInput struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Description string  `json:"description,omitempty"`
}

// SweetPatch carries a partial update; nil fields are omitted from the request.
type SweetPatch struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Quantity    *int64   `json:"quantity,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// APIError is a non-2xx response decoded from the {message} error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with %d", e.StatusCode)
}

// Client talks to the Sweet Shop REST API. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New constructs a client for the given base URL (e.g. "http://localhost:3000").
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken installs the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// Register creates a USER account.
func (c *Client) Register(ctx context.Context, email, password string) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.call(ctx, http.MethodPost, "/api/auth/register", map[string]string{"email": email, "password": password}, &resp)
	return resp.User, err
}

// RegisterAdmin creates an ADMIN account.
func (c *Client) RegisterAdmin(ctx context.Context, email, password string) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.call(ctx, http.MethodPost, "/api/auth/register-admin", map[string]string{"email": email, "password": password}, &resp)
	return resp.User, err
}

// LoginResult carries the token and account returned by Login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var resp LoginResult
	err := c.call(ctx, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, &resp)
	if err == nil {
		c.token = resp.Token
	}
	return resp, err
}

// ListSweets fetches the full catalog.
func (c *Client) ListSweets(ctx context.Context) ([]Sweet, error) {
	var out []Sweet
	err := c.call(ctx, http.MethodGet, "/api/sweets", nil, &out)
	return out, err
}

// SearchSweets fetches the catalog filtered by name substring and/or max price.
func (c *Client) SearchSweets(ctx context.Context, name string, maxPrice *float64) ([]Sweet, error) {
	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}
	if maxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*maxPrice, 'f', -1, 64))
	}
	path := "/api/sweets/search"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var out []Sweet
	err := c.call(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// CreateSweet adds a catalog entry (admin token required).
func (c *Client) CreateSweet(ctx context.Context, in SweetInput) (Sweet, error) {
	var resp struct {
		Sweet Sweet `json:"sweet"`
	}
	err := c.call(ctx, http.MethodPost, "/api/sweets", in, &resp)
	return resp.Sweet, err
}

// UpdateSweet applies a partial patch (admin token required).
func (c *Client) UpdateSweet(ctx context.Context, id string, patch SweetPatch) (Sweet, error) {
	var resp struct {
		Sweet Sweet `json:"sweet"`
	}
	err := c.call(ctx, http.MethodPut, "/api/sweets/"+id, patch, &resp)
	return resp.Sweet, err
}

// DeleteSweet permanently removes a catalog entry (admin token required).
func (c *Client) DeleteSweet(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/sweets/"+id, nil, nil)
}

// Purchase decrements the sweet's stock by one.
func (c *Client) Purchase(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodPost, "/api/sweets/"+id+"/purchase", nil, nil)
}

// Restock adds quantity units of stock (admin token required).
func (c *Client) Restock(ctx context.Context, id string, quantity int64) error {
	return c.call(ctx, http.MethodPost, "/api/sweets/"+id+"/restock", map[string]int64{"quantity": quantity}, nil)
}

// call performs one JSON request/response cycle. Non-2xx responses decode the
// {message} body into an APIError; the caller's out value is left untouched.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Message = errBody.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
