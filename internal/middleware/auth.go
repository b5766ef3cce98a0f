package middleware

import (
	"net/http"
	"strings"

	"reviewhub/internal/logging"
	"reviewhub/internal/services"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Identity is the verified caller attached to a request.
type Identity struct {
	UserID uint
	Email  string
}

type TokenParser interface {
	Parse(token string) (*services.Claims, error)
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected bearer token")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid or expired token"})
			return
		}

		WithIdentity(c, Identity{UserID: claims.ID, Email: claims.Email})
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and never fails.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := tokens.Parse(raw); err == nil {
				WithIdentity(c, Identity{UserID: claims.ID, Email: claims.Email})
			}
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// WithIdentity attaches id to the request and tags its logger with the user.
func WithIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
	l := logging.Ctx(c.Request.Context()).With().Uint("user_id", id.UserID).Logger()
	c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
}

// CurrentIdentity returns the caller, or false for anonymous requests.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
