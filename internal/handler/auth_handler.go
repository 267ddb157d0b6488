package handler

import (
	"errors"
	"net/http"

	"github.com/Kyle-Pantig/catalog/internal/identity"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	provider identity.Provider
}

func NewAuthHandler(provider identity.Provider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	User        UserModel `json:"user"`
}

type UserModel struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "email and password are required"))
	}

	session, err := h.provider.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "invalid credentials"))
		}
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "login failed"))
	}

	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
		User:        UserModel{ID: session.User.ID, Email: session.User.Email},
	})
}

// Logout exists for client parity; token invalidation is the identity
// provider's business.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, NewMessageResponse("Logged out successfully"))
}
