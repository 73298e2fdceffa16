package session

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc     *Service
	metrics LoginMetrics
}

// LoginMetrics records login outcomes; nil-safe via the noop implementation.
type LoginMetrics interface {
	RecordLogin(result string)
}

type noopLoginMetrics struct{}

func (noopLoginMetrics) RecordLogin(string) {}

func NewHandler(svc *Service, m LoginMetrics) *Handler {
	if m == nil {
		m = noopLoginMetrics{}
	}
	return &Handler{svc: svc, metrics: m}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/auth/login", h.Login)
	g.POST("/auth/logout", h.Logout)
	g.GET("/auth/session", h.GetSession)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if !h.svc.Login(req.Email, req.Password) {
		h.metrics.RecordLogin("failure")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	h.metrics.RecordLogin("success")

	return c.JSON(http.StatusOK, h.svc.Current())
}

func (h *Handler) Logout(c echo.Context) error {
	h.svc.Logout()
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetSession(c echo.Context) error {
	sess := h.svc.Current()
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(http.StatusOK, sess)
}
