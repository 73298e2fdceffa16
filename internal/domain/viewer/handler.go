package viewer

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the viewer transform endpoints. Every mutation returns
// the full resulting state so clients never need a follow-up read.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/viewer", h.GetState)
	g.PUT("/viewer/zoom", h.SetZoom)
	g.PUT("/viewer/brightness", h.SetBrightness)
	g.PUT("/viewer/contrast", h.SetContrast)
	g.PUT("/viewer/window-level", h.SetWindowLevel)
	g.PUT("/viewer/heatmap", h.ToggleHeatmap)
	g.PUT("/viewer/heatmap-opacity", h.SetHeatmapOpacity)
	g.PUT("/viewer/heatmap-finding", h.SetHeatmapFinding)
	g.POST("/viewer/reset", h.Reset)
}

func (h *Handler) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.State())
}

type valueRequest struct {
	Value int `json:"value"`
}

func (h *Handler) SetZoom(c echo.Context) error {
	var req valueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.svc.SetZoom(req.Value))
}

func (h *Handler) SetBrightness(c echo.Context) error {
	var req valueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.svc.SetBrightness(req.Value))
}

func (h *Handler) SetContrast(c echo.Context) error {
	var req valueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.svc.SetContrast(req.Value))
}

type windowLevelRequest struct {
	Preset string `json:"preset"`
}

func (h *Handler) SetWindowLevel(c echo.Context) error {
	var req windowLevelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	state, err := h.svc.SetWindowLevel(req.Preset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, state)
}

func (h *Handler) ToggleHeatmap(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.ToggleHeatmap())
}

func (h *Handler) SetHeatmapOpacity(c echo.Context) error {
	var req valueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.svc.SetHeatmapOpacity(req.Value))
}

type heatmapFindingRequest struct {
	Finding string `json:"finding"`
}

func (h *Handler) SetHeatmapFinding(c echo.Context) error {
	var req heatmapFindingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.svc.SetActiveHeatmapFinding(req.Finding))
}

func (h *Handler) Reset(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Reset())
}
