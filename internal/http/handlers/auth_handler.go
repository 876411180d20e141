// Session HTTP handlers.
//
//   - POST   /auth/session   (development login by email)
//   - DELETE /auth/session   (clear the session cookie)
//   - GET    /auth/me        (current user)
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-leads-backend/internal/http/middleware"
)

// LoginRequest is the JSON payload for the development login.
type LoginRequest struct {
	Email string `json:"email" binding:"required" example:"agent@example.com"`
	Name  string `json:"name" example:"Demo Agent"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	ID    string `json:"id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Email string `json:"email" example:"agent@example.com"`
}

func secureRequest(c *gin.Context) bool {
	return c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}

// Login godoc
// @ID          login
// @Summary     Sign in (development)
// @Description Creates the user on first use and issues a session token, returned in the body and as an HttpOnly cookie.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
// @Success     200  {object} services.Session
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /auth/session [post]
func (h *Handlers) Login(c *gin.Context) {
	if h.sessions == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "route not found")
		return
	}
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email required")
		return
	}

	sess, err := h.sessions.Login(c.Request.Context(), req.Email, strings.TrimSpace(req.Name))
	if err != nil {
		serviceError(c, err)
		return
	}

	maxAge := int(time.Until(sess.ExpiresAt) / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, sess.Token, maxAge, "/", "", secureRequest(c), true)
	ok(c, http.StatusOK, sess)
}

// Logout godoc
// @ID          logout
// @Summary     Sign out
// @Tags        Auth
// @Success     204  {string} string "No Content"
// @Router      /auth/session [delete]
func (h *Handlers) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", secureRequest(c), true)
	noContent(c)
}

// Me godoc
// @ID          me
// @Summary     Current user
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object} handlers.MeResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	ok(c, http.StatusOK, MeResponse{ID: middleware.UserID(c), Email: middleware.UserEmail(c)})
}
