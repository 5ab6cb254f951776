package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/churn_guard/backend/internal/auth"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body LoginRequest true "Credentials"
// @Success 200 {object} auth.Identity
// @Failure 401 {object} map[string]any
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	if h.Auth == nil {
		c.JSON(http.StatusOK, auth.Identity{Status: auth.StatusAuthenticated})
		return
	}
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Username and password are required", err.Error())
		return
	}

	id, cookie, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.Logger.Warn().Str("username", req.Username).Msg("login rejected")
			writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Username/password is incorrect", id)
			return
		}
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Login failed", err.Error())
		return
	}
	http.SetCookie(c.Writer, cookie)
	c.JSON(http.StatusOK, id)
}

// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} auth.Identity
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if h.Auth != nil {
		http.SetCookie(c.Writer, h.Auth.Logout())
	}
	c.JSON(http.StatusOK, auth.Identity{Status: auth.StatusUnknown})
}

// @Summary Session status
// @Tags auth
// @Produce json
// @Success 200 {object} auth.Identity
// @Router /auth/status [get]
func (h *Handler) AuthStatus(c *gin.Context) {
	if h.Auth == nil {
		c.JSON(http.StatusOK, auth.Identity{Status: auth.StatusAuthenticated})
		return
	}
	c.JSON(http.StatusOK, h.Auth.Check(c.Request))
}
