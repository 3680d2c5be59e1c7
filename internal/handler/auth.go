package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postpilot/backend/internal/config"
	"github.com/postpilot/backend/internal/model"
	"github.com/postpilot/backend/internal/service"
)

const authCookieName = "auth_token"

type AuthHandler struct {
	svc          *service.AuthService
	cookieSecure bool
	cookieMaxAge int
}

func NewAuthHandler(svc *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		svc:          svc,
		cookieSecure: cfg.CookieSecure,
		cookieMaxAge: int(cfg.TokenTTL.Seconds()),
	}
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.SignupRequest true "Username, email and password"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	user, token, err := h.svc.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, model.AuthResponse{
		Message: "User created",
		User:    model.AuthUserInfo{ID: user.ID, Email: user.Email},
	})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, model.AuthResponse{
		Message: "Login successful",
		User:    model.AuthUserInfo{ID: user.ID, Email: user.Email},
	})
}

// Logout godoc
// @Summary Logout
// @Description Clears the session cookie. Issued tokens stay valid until they
// expire; there is no server-side revocation.
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthLogoutResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(authCookieName, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, model.AuthLogoutResponse{Status: "logged_out"})
}

// Me godoc
// @Summary Get current user
// @Tags user
// @Produce json
// @Success 200 {object} model.AuthUser
// @Failure 401 {object} model.ErrorResponse
// @Router /api/user/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, h.cookieMaxAge, "/", "", h.cookieSecure, true)
}
