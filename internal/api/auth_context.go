package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthDecision is the outcome of resolving a request's authorization context.
type AuthDecision struct {
	Authorized bool
	UserID     string
}

// AuthContext yields the acting user for a request. Handlers and the
// persistence layer never learn which access-control mode is active; they
// only see decisions.
type AuthContext interface {
	Resolve(c *fiber.Ctx) AuthDecision
}

// TokenAuthContext authenticates with an HS256 session token carried in the
// auth cookie or an Authorization bearer header. The token subject is the
// user id. Issuing tokens is the session layer's business, not ours.
type TokenAuthContext struct {
	secretKey []byte
}

func NewTokenAuthContext(secretKey []byte) *TokenAuthContext {
	return &TokenAuthContext{secretKey: secretKey}
}

func (auth *TokenAuthContext) Resolve(c *fiber.Ctx) AuthDecision {
	rawToken := c.Cookies(authCookieName)
	if rawToken == "" {
		header := c.Get(fiber.HeaderAuthorization)
		if strings.HasPrefix(header, "Bearer ") {
			rawToken = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if rawToken == "" {
		return AuthDecision{}
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(rawToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return auth.secretKey, nil
	})
	if err != nil || !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return AuthDecision{}
	}

	return AuthDecision{Authorized: true, UserID: claims.Subject}
}

// StaticAuthContext serves deployments with access control disabled: every
// request acts as one fixed default user and the whole store belongs to it.
type StaticAuthContext struct {
	userID string
}

func NewStaticAuthContext(userID string) *StaticAuthContext {
	return &StaticAuthContext{userID: userID}
}

func (auth *StaticAuthContext) Resolve(*fiber.Ctx) AuthDecision {
	return AuthDecision{Authorized: true, UserID: auth.userID}
}
