package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
	"github.com/Sezy0/NeoMart-Backend/internal/middleware"
	"github.com/Sezy0/NeoMart-Backend/internal/usecase"
)

type AuthHandler struct {
	userUC domain.UserUseCase
	authUC usecase.AuthUseCase
	log    *logrus.Logger
}

func NewAuthHandler(userUC domain.UserUseCase, authUC usecase.AuthUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{userUC: userUC, authUC: authUC, log: logger}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type VerifyOTPRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userUC.RegisterUser(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.log.Warnf("Registration failed for %s: %v", req.Email, err)
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "User registered successfully", user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	pair, user, err := h.authUC.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Login successful", gin.H{
		"tokens": pair,
		"user":   user,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	pair, err := h.authUC.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Token refreshed", pair)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.authUC.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

func (h *AuthHandler) RequestOTP(c *gin.Context) {
	userID := middleware.UserID(c)
	if err := h.authUC.RequestOTP(c.Request.Context(), userID); err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Verification code sent", nil)
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	userID := middleware.UserID(c)
	if err := h.authUC.VerifyOTP(c.Request.Context(), userID, req.Code); err != nil {
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Account verified", nil)
}

func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	state := uuid.NewString()
	// State is echoed back by Google; cookie lets the callback check it.
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.authUC.GoogleAuthURL(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != c.Query("state") {
		ErrorResponse(c, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	code := c.Query("code")
	if code == "" {
		ErrorResponse(c, http.StatusBadRequest, "Missing OAuth code")
		return
	}

	pair, user, err := h.authUC.GoogleCallback(c.Request.Context(), code)
	if err != nil {
		h.log.Warnf("Google OAuth callback failed: %v", err)
		RespondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Login successful", gin.H{
		"tokens": pair,
		"user":   user,
	})
}
