package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mobiledorms/mobiledorms-api/internal/apperr"
	"github.com/mobiledorms/mobiledorms-api/internal/auth"
	"github.com/mobiledorms/mobiledorms-api/internal/httpapi"
	"github.com/mobiledorms/mobiledorms-api/internal/validate"
)

// AuthHandler serves the login endpoint.
type AuthHandler struct {
	auth *auth.Service // Auth service issuing tokens.
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(authSvc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authSvc}
}

// loginRequest captures the login payload.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"` // Account email.
	Password string `json:"password" validate:"required"`    // Account password.
}

// Login checks credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) error {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		return apperr.Validation("Invalid request body")
	}
	if errValidate := validate.Struct(body); errValidate != nil {
		return errValidate
	}

	token, identity, errLogin := h.auth.Login(c.Request.Context(), body.Email, body.Password)
	if errLogin != nil {
		return errLogin
	}

	httpapi.Respond(c, http.StatusOK, gin.H{
		"token": token,
		"user":  identity,
	}, "Login successful")
	return nil
}
