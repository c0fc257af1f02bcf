// Package auth resolves the caller's identity from the token cookie and
// gates routes on it. Resolution always runs before any restriction, and
// restrictions abort before the route handler can touch anything.
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/token"
)

// CookieName is the cookie the login flow sets and the gate reads.
const CookieName = "token"

const identityKey = "identity"

// Identity is the resolved caller context. The zero value is Guest, so a
// missing or invalid token never needs a nil check downstream.
type Identity struct {
	UserID int
	Email  string
	Name   string
	Role   string
}

// Guest is the identity of an unauthenticated caller.
var Guest = Identity{}

func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

// DisplayName is the name shown in views, "guest" for unauthenticated callers.
func (i Identity) DisplayName() string {
	if !i.Authenticated() {
		return "guest"
	}
	return i.Name
}

type Gate struct {
	tokens *token.Service
}

func NewGate(tokens *token.Service) *Gate {
	return &Gate{tokens: tokens}
}

// Middleware resolves the identity for every request and never aborts;
// whoever arrives without a valid token proceeds as Guest.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(CookieName)
		if err != nil {
			c.Set(identityKey, Guest)
			c.Next()
			return
		}

		claims, err := g.tokens.Verify(raw)
		if err != nil {
			c.Set(identityKey, Guest)
			c.Next()
			return
		}

		c.Set(identityKey, Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
			Role:   claims.Role,
		})
		c.Next()
	}
}

// Current returns the identity resolved by Middleware. Guest when the
// middleware did not run.
func Current(c *gin.Context) Identity {
	v, exists := c.Get(identityKey)
	if !exists {
		return Guest
	}
	identity, ok := v.(Identity)
	if !ok {
		return Guest
	}
	return identity
}

// RequireAuth aborts with a redirect to the login page when the caller is a
// guest.
func RequireAuth(c *gin.Context) {
	if !Current(c).Authenticated() {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

// RequireRoles aborts unless the caller is authenticated with one of the
// allowed roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := Current(c)
		if !identity.Authenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	}
}
