package staff

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the auth endpoints; they stay outside the
// token-protected group so a fresh browser can log in.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/login", h.Login)
}

type signupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func httpError(err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	case errors.Is(err, ErrDuplicateUsername):
		return echo.NewHTTPError(http.StatusConflict, ErrDuplicateUsername.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.Signup(c.Request().Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	token, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token})
}
