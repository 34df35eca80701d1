package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/kodik/postcard/pkg/logging"
)

// User is the identity of the caller
type User struct {
	Email string `json:"email"`
}

// DisplayName is the local part of the email address
func (u *User) DisplayName() string {
	name, _, _ := strings.Cut(u.Email, "@")
	return name
}

type contextKeyUser struct{}

// WithUser returns a copy of ctx carrying the authenticated user
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, contextKeyUser{}, user)
}

// UserFromContext returns the authenticated user, or nil for anonymous callers
func UserFromContext(ctx context.Context) *User {
	user, ok := ctx.Value(contextKeyUser{}).(*User)
	if !ok {
		return nil
	}
	return user
}

// ContextAuth reads the caller's identity from the request context
type ContextAuth struct{}

// CurrentUser returns the user stored in ctx
func (ContextAuth) CurrentUser(ctx context.Context) *User {
	return UserFromContext(ctx)
}

// IsAuthenticated reports whether ctx carries a user
func (ContextAuth) IsAuthenticated(ctx context.Context) bool {
	return UserFromContext(ctx) != nil
}

// Claims carried by bearer tokens
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var ErrMissingEmail = errors.New("token has no email claim")

// IssueToken signs an HS256 token for email, valid for ttl
func IssueToken(secret, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates tokenString and returns the user it identifies
func ParseToken(secret, tokenString string) (*User, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims.Email == "" {
		return nil, ErrMissingEmail
	}

	return &User{Email: claims.Email}, nil
}

// Middleware attaches the bearer token's user to the request context. Requests
// without a valid token continue anonymously; gating happens per action.
func Middleware(secret string) gin.HandlerFunc {
	logger := logging.WithComponent("auth")

	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}

		scheme, tokenString, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			logger.Debug("Ignoring malformed authorization header")
			c.Next()
			return
		}

		user, err := ParseToken(secret, strings.TrimSpace(tokenString))
		if err != nil {
			logger.Debug("Ignoring invalid bearer token", zap.Error(err))
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))
		c.Next()
	}
}
