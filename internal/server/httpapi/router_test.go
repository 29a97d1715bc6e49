package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/manoj-kumar111/sweet-shop/internal/limiter"
	"github.com/manoj-kumar111/sweet-shop/internal/repository/memory"
	"github.com/manoj-kumar111/sweet-shop/internal/service"
	"github.com/manoj-kumar111/sweet-shop/internal/token"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	tokens := token.NewService([]byte("test-key"), time.Hour)
	lim := limiter.NewMemory(time.Minute, 100, time.Minute)
	auth := service.NewAuthService(memory.NewUserRepo(), tokens, lim, bcrypt.MinCost)
	sweets := service.NewSweetService(memory.NewSweetRepo())

	return NewRouter(RouterServices{
		Auth:     auth,
		Sweets:   sweets,
		Verifier: tokens,
		Logger:   zap.NewNop(),
	})
}

type testClient struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *testClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func (c *testClient) loginAs(path, email string) {
	c.t.Helper()
	w := c.do(http.MethodPost, path, map[string]string{"email": email, "password": "secret1"})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())

	w = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "secret1"})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(c.t, w, &resp)
	require.NotEmpty(c.t, resp.Token)
	c.token = resp.Token
}

func (c *testClient) loginAdmin() { c.loginAs("/api/auth/register-admin", "admin@x.com") }
func (c *testClient) loginUser()  { c.loginAs("/api/auth/register", "user@x.com") }

func (c *testClient) createSweet(name string, price float64, qty int64) string {
	c.t.Helper()
	w := c.do(http.MethodPost, "/api/sweets", map[string]any{
		"name": name, "category": "gummy", "price": price, "quantity": qty,
	})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Sweet struct {
			ID string `json:"_id"`
		} `json:"sweet"`
	}
	decode(c.t, w, &resp)
	return resp.Sweet.ID
}

func TestHealth(t *testing.T) {
	c := &testClient{t: t, router: newTestRouter(t)}

	w := c.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	decode(t, w, &resp)
	require.Equal(t, "ok", resp.Status)
	require.False(t, resp.Timestamp.IsZero())
}

func TestRegister_StatusCodes(t *testing.T) {
	c := &testClient{t: t, router: newTestRouter(t)}

	w := c.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "user@x.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		User struct {
			ID    string `json:"_id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decode(t, w, &resp)
	require.Equal(t, "user@x.com", resp.User.Email)
	require.Equal(t, "USER", resp.User.Role)
	require.NotEmpty(t, resp.User.ID)

	// duplicate (case variant) → 409
	w = c.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "USER@X.COM", "password": "secret1"})
	require.Equal(t, http.StatusConflict, w.Code)

	// malformed email → 400
	w = c.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "nope", "password": "secret1"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// short password → 400
	w = c.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "b@x.com", "password": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_InvalidCredentialsIndistinguishable(t *testing.T) {
	c := &testClient{t: t, router: newTestRouter(t)}

	w := c.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "user@x.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code)

	wrongPwd := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "user@x.com", "password": "wrongpw"})
	noUser := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ghost@x.com", "password": "secret1"})

	require.Equal(t, http.StatusUnauthorized, wrongPwd.Code)
	require.Equal(t, http.StatusUnauthorized, noUser.Code)
	require.JSONEq(t, wrongPwd.Body.String(), noUser.Body.String())
}

func TestProtectedRoutes_Require401(t *testing.T) {
	c := &testClient{t: t, router: newTestRouter(t)}

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/sweets"},
		{http.MethodGet, "/api/sweets/search"},
		{http.MethodPost, "/api/sweets"},
	} {
		w := c.do(route.method, route.path, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
		var resp struct {
			Message string `json:"message"`
		}
		decode(t, w, &resp)
		require.NotEmpty(t, resp.Message)
	}

	c.token = "bogus.token.value"
	w := c.do(http.MethodGet, "/api/sweets", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutes_ForbiddenForUser(t *testing.T) {
	router := newTestRouter(t)
	user := &testClient{t: t, router: router}
	user.loginUser()

	// payload validity is irrelevant; role is checked first
	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/sweets"},
		{http.MethodPut, "/api/sweets/00000000-0000-0000-0000-000000000001"},
		{http.MethodDelete, "/api/sweets/00000000-0000-0000-0000-000000000001"},
		{http.MethodPost, "/api/sweets/00000000-0000-0000-0000-000000000001/restock"},
	} {
		w := user.do(route.method, route.path, map[string]any{"price": -5})
		require.Equal(t, http.StatusForbidden, w.Code, "%s %s", route.method, route.path)
	}
}

func TestSweetCRUDAndSearch(t *testing.T) {
	router := newTestRouter(t)
	admin := &testClient{t: t, router: router}
	admin.loginAdmin()

	admin.createSweet("Gummy Bear", 2.5, 3)
	admin.createSweet("Bubble Gum", 7, 1)
	id := admin.createSweet("Mint Drop", 1, 5)

	w := admin.do(http.MethodGet, "/api/sweets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int64   `json:"quantity"`
	}
	decode(t, w, &list)
	require.Len(t, list, 3)

	w = admin.do(http.MethodGet, "/api/sweets/search?name=gum", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 2)

	w = admin.do(http.MethodGet, "/api/sweets/search?name=gum&maxPrice=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 1)
	require.Equal(t, "Gummy Bear", list[0].Name)

	w = admin.do(http.MethodGet, "/api/sweets/search?maxPrice=half", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// partial update
	w = admin.do(http.MethodPut, "/api/sweets/"+id, map[string]any{"price": 1.5})
	require.Equal(t, http.StatusOK, w.Code)
	var upd struct {
		Sweet struct {
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		} `json:"sweet"`
	}
	decode(t, w, &upd)
	require.Equal(t, "Mint Drop", upd.Sweet.Name)
	require.Equal(t, 1.5, upd.Sweet.Price)

	// invalid patch → 400
	w = admin.do(http.MethodPut, "/api/sweets/"+id, map[string]any{"price": -1})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// unknown id → 404
	w = admin.do(http.MethodPut, "/api/sweets/00000000-0000-0000-0000-0000000000aa", map[string]any{"price": 1.0})
	require.Equal(t, http.StatusNotFound, w.Code)

	// delete, then the id is gone
	w = admin.do(http.MethodDelete, "/api/sweets/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = admin.do(http.MethodDelete, "/api/sweets/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPurchaseRestockScenario(t *testing.T) {
	router := newTestRouter(t)
	admin := &testClient{t: t, router: router}
	admin.loginAdmin()

	id := admin.createSweet("Gummy Bear", 2.5, 3)

	user := &testClient{t: t, router: router}
	user.loginUser()

	for i := 0; i < 3; i++ {
		w := user.do(http.MethodPost, fmt.Sprintf("/api/sweets/%s/purchase", id), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	// fourth purchase → 409 out of stock
	w := user.do(http.MethodPost, fmt.Sprintf("/api/sweets/%s/purchase", id), nil)
	require.Equal(t, http.StatusConflict, w.Code)

	// user cannot restock
	w = user.do(http.MethodPost, fmt.Sprintf("/api/sweets/%s/restock", id), map[string]any{"quantity": 5})
	require.Equal(t, http.StatusForbidden, w.Code)

	// admin restocks by 5 → quantity 5
	w = admin.do(http.MethodPost, fmt.Sprintf("/api/sweets/%s/restock", id), map[string]any{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)

	w = admin.do(http.MethodGet, "/api/sweets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []struct {
		Quantity int64 `json:"quantity"`
	}
	decode(t, w, &list)
	require.Len(t, list, 1)
	require.Equal(t, int64(5), list[0].Quantity)

	// zero restock → 400
	w = admin.do(http.MethodPost, fmt.Sprintf("/api/sweets/%s/restock", id), map[string]any{"quantity": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// unknown id → 404
	w = user.do(http.MethodPost, "/api/sweets/00000000-0000-0000-0000-0000000000aa/purchase", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// unparseable id also reads as unknown
	w = user.do(http.MethodPost, "/api/sweets/not-a-uuid/purchase", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestConcurrentPurchases_ExactlyOneSucceeds(t *testing.T) {
	router := newTestRouter(t)
	admin := &testClient{t: t, router: router}
	admin.loginAdmin()

	id := admin.createSweet("Last One", 2.5, 1)

	const callers = 4
	codes := make(chan int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := &testClient{t: t, router: router, token: admin.token}
			w := c.do(http.MethodPost, fmt.Sprintf("/api/sweets/%s/purchase", id), nil)
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)

	var ok, conflict int
	for code := range codes {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, callers-1, conflict)
}
