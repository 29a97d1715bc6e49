// Package service contains application services for authentication and inventory.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	pkgcrypto "github.com/manoj-kumar111/sweet-shop/internal/crypto"
	"github.com/manoj-kumar111/sweet-shop/internal/errs"
	"github.com/manoj-kumar111/sweet-shop/internal/limiter"
	"github.com/manoj-kumar111/sweet-shop/internal/model"
	"github.com/manoj-kumar111/sweet-shop/internal/repository"
)

// minPasswordLen matches the registration rule enforced since v1.
const minPasswordLen = 6

// TokenIssuer creates signed access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID, role model.Role) (model.Tokens, error)
}

// AuthService defines registration and authentication operations.
type AuthService interface {
	// Register creates a new USER account with secure password hashing.
	Register(ctx context.Context, email, password string) (*model.User, error)
	// RegisterAdmin creates an ADMIN account. Kept as a distinct operation so
	// privilege escalation stays an explicit, auditable call site.
	RegisterAdmin(ctx context.Context, email, password string) (*model.User, error)
	// LoginWithIP applies rate-limiting and authenticates the user.
	LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.User, error)
}

type AuthServiceImpl struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	lim        limiter.Limiter
	bcryptCost int
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer, lim limiter.Limiter, bcryptCost int) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens, lim: lim, bcryptCost: bcryptCost}
}

// Register creates a new account with the USER role.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string) (*model.User, error) {
	return s.register(ctx, email, password, model.RoleUser)
}

// RegisterAdmin creates a new account with the ADMIN role.
func (s *AuthServiceImpl) RegisterAdmin(ctx context.Context, email, password string) (*model.User, error) {
	return s.register(ctx, email, password, model.RoleAdmin)
}

func (s *AuthServiceImpl) register(ctx context.Context, email, password string, role model.Role) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", errs.ErrInvalid, minPasswordLen)
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	hash, err := pkgcrypto.HashPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &model.User{ID: uid, Email: email, PwdHash: hash, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// LoginWithIP authenticates with rate limiting by (email, ip).
// Unknown email and wrong password produce the same failure so the response
// never reveals whether an account exists.
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	if !allowed {
		return model.Tokens{}, model.User{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Tokens{}, model.User{}, errs.ErrRateLimited
		}
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			// repo failure masked as unauthorized; detail stays server-side
			return model.Tokens{}, model.User{}, fmt.Errorf("%w: invalid credentials", errs.ErrUnauthorized)
		}
		return model.Tokens{}, model.User{}, fmt.Errorf("%w: invalid credentials", errs.ErrUnauthorized)
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, email, ipHash)

	toks, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return toks, *u, nil
}

// validateEmail accepts addresses with a single @, a non-empty local part,
// and a domain containing a dot. Deliberately loose; the mailbox is the
// real validator.
func validateEmail(email string) error {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at != strings.LastIndexByte(email, '@') {
		return fmt.Errorf("%w: malformed email", errs.ErrInvalid)
	}
	domain := email[at+1:]
	if domain == "" || !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return fmt.Errorf("%w: malformed email", errs.ErrInvalid)
	}
	if strings.ContainsAny(email, " \t") {
		return fmt.Errorf("%w: malformed email", errs.ErrInvalid)
	}
	return nil
}
