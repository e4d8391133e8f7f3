package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mosaicolive/mosaico/internal/config"
	"github.com/mosaicolive/mosaico/internal/utils"
)

// AuthHandler exchanges the operator password for an admin token. Only
// registered when auth is configured.
type AuthHandler struct {
	Cfg config.Config
}

// NewAuthHandler constructs an AuthHandler with the loaded config.
func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

// Login handles POST /admin/login with {"password"}.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password is required"})
	}
	if !utils.CheckPassword(h.Cfg.AdminPasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	tok, err := utils.NewAdminToken(h.Cfg.JWTSecret, h.Cfg.TokenTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, tok)
}
