package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/auth"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/access"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// ActorResolver loads the caller's current role from the store.
type ActorResolver interface {
	Resolve(ctx context.Context, userID uint) (access.Actor, error)
}

func AuthMiddleware(tokens *auth.Issuer, users ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "expected a Bearer token")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(parts[1]), auth.TypeAccess)
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "token is invalid or expired")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			httperr.Unauthorized(c, "invalid_token_payload", "token subject is not a user id")
			return
		}

		actor, err := users.Resolve(c.Request.Context(), userID)
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		c.Set(ContextUserID, actor.ID)
		c.Set(ContextUserRole, actor.Role)

		c.Next()
	}
}

// RequireElevated lets only barbers and admins through.
func RequireElevated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Actor(c).Elevated() {
			httperr.ForbiddenResponse(c, "forbidden", "only barbers or admins can do this")
			return
		}
		c.Next()
	}
}

// Actor returns the caller set by AuthMiddleware, or the zero Actor.
func Actor(c *gin.Context) access.Actor {
	id, _ := c.Get(ContextUserID)
	role, _ := c.Get(ContextUserRole)

	uid, _ := id.(uint)
	r, _ := role.(access.Role)
	return access.Actor{ID: uid, Role: r}
}
