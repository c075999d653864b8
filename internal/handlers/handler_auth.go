package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/scolaris/school_fees_app/internal/middleware"
)

type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(authSvc portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: authSvc}
}

func registerAuthRoutes(rg *gin.RouterGroup, authSvc portssvc.AuthSvcFacade) {
	h := newAuthHandler(authSvc)
	authRoutes := rg.Group("/auth")
	{
		authRoutes.POST("/login", h.login)
		authRoutes.POST("/google", h.googleExchange)
	}
}

// login godoc
// @Summary Login with email and password
// @Description Authenticates a staff account and returns a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to login")
		return
	}

	logger.Info("User logged in", slog.String("userID", resp.User.UserID))
	c.JSON(http.StatusOK, resp)
}

// googleExchange godoc
// @Summary Login with a Google authorization code
// @Description Exchanges the code, validates the Google ID token, provisions the account on first sign-in and returns a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param exchange body dto.GoogleExchangeRequest true "Authorization code"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string "Google sign-in not configured"
// @Failure 401 {object} map[string]string "Account disabled"
// @Router /auth/google [post]
func (h *authHandler) googleExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GoogleExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.ExchangeGoogleCode(c.Request.Context(), req.Code)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to exchange Google code")
		return
	}

	logger.Info("User logged in via Google", slog.String("userID", resp.User.UserID))
	c.JSON(http.StatusOK, resp)
}
