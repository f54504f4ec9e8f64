package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/academy-admin/internal/apierror"
	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/internal/session"
	"github.com/noah-isme/academy-admin/pkg/apiclient"
	"github.com/noah-isme/academy-admin/pkg/response"
)

// AuthHandler exposes the login screen and session lifecycle endpoints.
type AuthHandler struct {
	validate *validator.Validate
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(validate *validator.Validate) *AuthHandler {
	return &AuthHandler{validate: validate}
}

// LoginPage godoc
// @Summary Login screen state
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /login [get]
func (h *AuthHandler) LoginPage(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, ws.Session.Snapshot())
}

// Login godoc
// @Summary Log in with phone and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	var req models.LoginRequest
	if !bindValid(c, h.validate, &req) {
		return
	}
	result := ws.Session.Login(c.Request.Context(), req.Phone, req.Password)
	if !result.Success {
		response.Failure(c, http.StatusUnauthorized, result.Error, "LOGIN_FAILED", nil)
		return
	}
	response.JSON(c, http.StatusOK, ws.Session.Snapshot(), map[string]interface{}{"redirect": session.DashboardPath})
}

// Logout godoc
// @Summary End the session
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	target := ws.Session.Logout(c.Request.Context())
	response.JSON(c, http.StatusOK, gin.H{"redirect": target})
}

// Refresh godoc
// @Summary Refresh the platform session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	if err := ws.Auth.RefreshSession(c.Request.Context()); err != nil {
		ws.Session.Logout(c.Request.Context())
		respondError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ws.Session.Snapshot())
}

// Session godoc
// @Summary Current session state
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, ws.Session.Snapshot())
}

// RefreshProfile godoc
// @Summary Re-validate the session and reload the admin profile
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/profile/refresh [post]
func (h *AuthHandler) RefreshProfile(c *gin.Context) {
	ws, ok := workspace(c)
	if !ok {
		return
	}
	ws.Session.RefreshUserProfile(c.Request.Context())
	snap := ws.Session.Snapshot()
	if !snap.IsAuthenticated {
		info := apierror.Handle(&apiclient.Error{Status: http.StatusUnauthorized})
		response.Failure(c, http.StatusUnauthorized, info.Message, string(info.Type), map[string]interface{}{
			"canRetry": info.CanRetry,
			"redirect": session.LoginPath,
		})
		return
	}
	response.JSON(c, http.StatusOK, snap)
}
