package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/the-articles/articles-api/internal/domain"
)

// Gateway is the in-memory implementation of domain.AuthGateway: a
// principal registry issuing signed JWT session tokens. Suitable for
// local mode and tests; a hosted auth provider would slot in behind the
// same port.
type Gateway struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	users   map[string]*userRecord // keyed by lowercase email
	revoked map[string]struct{}    // token ids invalidated by sign-out
}

type userRecord struct {
	id           domain.ProfileID
	email        string
	passwordHash []byte
	roleClaim    string
}

type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func NewGateway(secret string, ttl time.Duration) *Gateway {
	return &Gateway{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		users:   make(map[string]*userRecord),
		revoked: make(map[string]struct{}),
	}
}

// SignUp registers a principal and issues its first session.
func (g *Gateway) SignUp(_ context.Context, email, password string) (*domain.Session, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domain.ErrUnauthenticated
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	g.mu.Lock()
	if _, exists := g.users[email]; exists {
		g.mu.Unlock()
		return nil, "", domain.ErrAlreadyExists
	}
	rec := &userRecord{
		id:           domain.ProfileID(uuid.NewString()),
		email:        email,
		passwordHash: hash,
	}
	g.users[email] = rec
	g.mu.Unlock()

	return g.issue(rec)
}

// SignIn verifies credentials and issues a fresh session.
func (g *Gateway) SignIn(_ context.Context, email, password string) (*domain.Session, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	g.mu.RLock()
	rec, ok := g.users[email]
	g.mu.RUnlock()
	if !ok {
		return nil, "", domain.ErrUnauthenticated
	}

	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return nil, "", domain.ErrUnauthenticated
	}

	return g.issue(rec)
}

// SignOut revokes the token's session.
func (g *Gateway) SignOut(_ context.Context, token string) error {
	claims, err := g.parse(token)
	if err != nil {
		return domain.ErrUnauthenticated
	}

	g.mu.Lock()
	g.revoked[claims.ID] = struct{}{}
	g.mu.Unlock()
	return nil
}

// CurrentSession resolves a bearer token into the live session, or
// ErrUnauthenticated when the token is invalid, expired or revoked.
func (g *Gateway) CurrentSession(_ context.Context, token string) (*domain.Session, error) {
	claims, err := g.parse(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	g.mu.RLock()
	_, revoked := g.revoked[claims.ID]
	g.mu.RUnlock()
	if revoked {
		return nil, domain.ErrUnauthenticated
	}

	return &domain.Session{
		UserID:    domain.ProfileID(claims.Subject),
		Email:     claims.Email,
		RoleClaim: claims.Role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SetRoleClaim attaches a provider-side role claim to a registered
// principal. Later tokens carry it; the identity layer ORs it into the
// effective role.
func (g *Gateway) SetRoleClaim(email, claim string) {
	email = strings.ToLower(strings.TrimSpace(email))

	g.mu.Lock()
	defer g.mu.Unlock()
	if rec, ok := g.users[email]; ok {
		rec.roleClaim = claim
	}
}

func (g *Gateway) issue(rec *userRecord) (*domain.Session, string, error) {
	now := g.now()
	expires := now.Add(g.ttl)

	claims := sessionClaims{
		Email: rec.email,
		Role:  rec.roleClaim,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(rec.id),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return nil, "", fmt.Errorf("signing session token: %w", err)
	}

	return &domain.Session{
		UserID:    rec.id,
		Email:     rec.email,
		RoleClaim: rec.roleClaim,
		IssuedAt:  now,
		ExpiresAt: expires,
	}, token, nil
}

func (g *Gateway) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return g.now() }))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
