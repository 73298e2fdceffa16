package worklist

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skolyn/workstation/internal/platform/imagestore"
	"github.com/skolyn/workstation/pkg/pagination"
)

// Handler exposes the worklist, workspace, and upload endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/worklist", h.GetWorklist)
	g.GET("/studies", h.ListStudies)
	g.GET("/studies/:id", h.GetStudy)
	g.POST("/studies/upload", h.Upload)

	g.GET("/workspace", h.GetWorkspace)
	g.PUT("/workspace/study/:id", h.SelectStudy)
	g.PUT("/workspace/view", h.SetView)
	g.POST("/workspace/comparison/toggle", h.ToggleComparison)
	g.PUT("/workspace/search", h.SetSearch)
	g.PUT("/workspace/filter", h.SetFilter)
	g.POST("/workspace/analysis", h.StartAnalysis)
	g.GET("/workspace/analysis", h.GetAnalysis)
}

// GetWorklist returns the filtered worklist, paginated in catalog order.
func (h *Handler) GetWorklist(c echo.Context) error {
	studies, err := h.svc.FilteredStudies(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	params := pagination.FromContext(c)
	start, end := params.Slice(len(studies))
	return c.JSON(http.StatusOK, pagination.NewResponse(studies[start:end], len(studies), params.Limit, params.Offset))
}

func (h *Handler) ListStudies(c echo.Context) error {
	studies, err := h.svc.Studies(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, studies)
}

func (h *Handler) GetStudy(c echo.Context) error {
	study, err := h.svc.Study(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrStudyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, study)
}

// Upload accepts a multipart radiograph and hands it to the ingestion
// workflow. Contract violations map to 413/415 so clients can tell a bad
// file from a broken server.
func (h *Handler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	study, err := h.svc.IngestUpload(c.Request().Context(), fileHeader.Filename, contentType, src)
	if err != nil {
		switch {
		case errors.Is(err, imagestore.ErrUnsupportedType):
			return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, imagestore.ErrTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, study)
}

func (h *Handler) GetWorkspace(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Workspace())
}

func (h *Handler) SelectStudy(c echo.Context) error {
	study, err := h.svc.SelectStudy(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrStudyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, study)
}

type setViewRequest struct {
	Index int `json:"index"`
}

func (h *Handler) SetView(c echo.Context) error {
	var req setViewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	index, err := h.svc.SetSelectedView(c.Request().Context(), req.Index)
	if err != nil {
		if errors.Is(err, ErrNoStudySelected) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"selectedView": index})
}

func (h *Handler) ToggleComparison(c echo.Context) error {
	workspace, err := h.svc.ToggleComparisonMode(c.Request().Context())
	if err != nil {
		if errors.Is(err, ErrNoStudySelected) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, workspace)
}

type setSearchRequest struct {
	Query string `json:"query"`
}

func (h *Handler) SetSearch(c echo.Context) error {
	var req setSearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.svc.SetSearchQuery(req.Query)
	return c.JSON(http.StatusOK, h.svc.Workspace())
}

type setFilterRequest struct {
	Status string `json:"status"`
}

func (h *Handler) SetFilter(c echo.Context) error {
	var req setFilterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetFilterStatus(req.Status); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.svc.Workspace())
}

func (h *Handler) StartAnalysis(c echo.Context) error {
	id, err := h.svc.StartAnalysis(c.Request().Context())
	if err != nil {
		switch {
		case errors.Is(err, ErrNoStudySelected):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrAnalysisRunning):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrStudyNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusAccepted, map[string]string{"studyId": id})
}

// GetAnalysis reports the analysis state for the current study.
func (h *Handler) GetAnalysis(c echo.Context) error {
	workspace := h.svc.Workspace()
	if workspace.CurrentStudyID == "" {
		return echo.NewHTTPError(http.StatusConflict, ErrNoStudySelected.Error())
	}

	progress, _ := h.svc.Progress(workspace.CurrentStudyID)
	return c.JSON(http.StatusOK, map[string]any{
		"studyId":     workspace.CurrentStudyID,
		"isAnalyzing": workspace.IsAnalyzing,
		"progress":    progress,
	})
}
