package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/employee-registry/internal/application/auth"
)

type AuthHandler struct {
	login   app.Login
	refresh app.Refresh
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceName string `json:"device_name"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func NewAuthHandler(login app.Login, refresh app.Refresh) *AuthHandler {
	return &AuthHandler{login: login, refresh: refresh}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.login.Execute(c.Request().Context(), app.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		DeviceName: req.DeviceName,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, apiResponse{Error: &errorBody{
				Code:    "invalid_credentials",
				Message: "invalid credentials",
			}})
		}
		return internalError(c, "unable to create tokens")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.refresh.Execute(c.Request().Context(), app.RefreshInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidToken) || errors.Is(err, app.ErrNotRefreshToken) {
			return c.JSON(http.StatusUnauthorized, apiResponse{Error: &errorBody{
				Code:    "invalid_refresh_token",
				Message: "invalid or expired refresh token",
			}})
		}
		return internalError(c, "unable to create tokens")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

// Logout is stateless: tokens simply expire. The endpoint exists so
// clients have a uniform call to end a session.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, apiResponse{Data: map[string]string{
		"message": "Logout successful.",
	}})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
		Code:    "bad_request",
		Message: message,
	}})
}

func internalError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
		Code:    "internal_error",
		Message: message,
	}})
}
