package controllerImp

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"farmhub/pkg/apierr"
	"farmhub/pkg/auth/controller"
	"farmhub/pkg/middleware"
)

const tokenTTL = 24 * time.Hour

type authCtrl struct {
	secret string
	dev    bool
}

func NewAuthController(secret string, dev bool) controller.AuthController {
	return &authCtrl{secret: secret, dev: dev}
}

type tokenReq struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
	Role string `json:"role" validate:"omitempty,oneof=farmer manager worker admin"`
}

// Token mints a bearer token for any user id. Only enabled in dev mode.
func (h *authCtrl) Token(c echo.Context) error {
	if !h.dev {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	if err := c.Validate(&req); err != nil {
		return apierr.Respond(c, err)
	}
	if req.Role == "" {
		req.Role = "farmer"
	}
	tok, err := middleware.IssueToken(h.secret, middleware.User{ID: req.ID, Name: req.Name, Role: req.Role}, tokenTTL)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"token": tok, "expires_in": int(tokenTTL.Seconds())})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
