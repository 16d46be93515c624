package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dashideliverycorporation/dashi/internal/domain/user"
)

// ErrInvalidToken is returned when a bearer token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	UserID       string    `json:"uid"`
	Role         user.Role `json:"role"`
	RestaurantID string    `json:"rid,omitempty"`
	jwt.RegisteredClaims
}

// Security issues and verifies HMAC-SHA256 signed bearer tokens.
type Security struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSecurity creates a Security signing tokens with secret, valid for ttl.
func NewSecurity(secret []byte, ttl time.Duration) *Security {
	return &Security{secret: secret, ttl: ttl, now: time.Now}
}

// IssueToken signs a token for u.
func (s *Security) IssueToken(u *user.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:       u.ID,
		Role:         u.Role,
		RestaurantID: u.RestaurantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return token, nil
}

// VerifyToken parses and validates a signed token, returning its claims.
func (s *Security) VerifyToken(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

type claimsKey struct{}

// ClaimsFromContext returns the authenticated claims stored by authenticate,
// or nil for an anonymous request.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey{}).(*Claims)
	return claims
}

// authenticate requires a valid bearer token and stores its claims in the
// request context.
func (h *Handler) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.bearerClaims(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	}
}

// requireRole is authenticate plus a role check.
func (h *Handler) requireRole(role user.Role, next http.HandlerFunc) http.HandlerFunc {
	return h.authenticate(func(w http.ResponseWriter, r *http.Request) {
		if ClaimsFromContext(r.Context()).Role != role {
			respondError(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r)
	})
}

func (h *Handler) bearerClaims(r *http.Request) (*Claims, error) {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		return nil, ErrInvalidToken
	}
	return h.security.VerifyToken(token)
}
