// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller's session. Every lead route sits behind
// RequireSession; nothing downstream runs for an anonymous request.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-leads-backend/internal/auth"
	"github.com/tbourn/go-leads-backend/internal/domain"
)

const (
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "session"

	ctxKeyUserID    = "userID"
	ctxKeyUserEmail = "userEmail"
)

// SessionResolver maps a raw token to its user. It returns
// auth.ErrUnauthenticated for tokens that must be rejected.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// RequireSession rejects requests without a valid session with 401 and
// stores the user's ID and email in the Gin context otherwise. The token is
// read from "Authorization: Bearer <token>" first, then from the session
// cookie.
func RequireSession(r SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := r.Resolve(c.Request.Context(), sessionToken(c))
		if err != nil && !errors.Is(err, auth.ErrUnauthenticated) {
			LoggerFrom(c).Error().Err(err).Msg("session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "internal_error",
				"message":    "internal server error",
			})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    "authentication required",
			})
			return
		}
		c.Set(ctxKeyUserID, u.ID)
		c.Set(ctxKeyUserEmail, u.Email)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if ck, err := c.Cookie(SessionCookie); err == nil {
		return ck
	}
	return ""
}

// UserID returns the authenticated user's ID, or "" outside RequireSession.
func UserID(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}

// UserEmail returns the authenticated user's email.
func UserEmail(c *gin.Context) string {
	return c.GetString(ctxKeyUserEmail)
}
