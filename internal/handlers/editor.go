package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"garment-designlab/internal/assembler"
	"garment-designlab/internal/middleware"
	"garment-designlab/internal/models"
	"garment-designlab/internal/store"
	"garment-designlab/internal/workspace"

	"github.com/gin-gonic/gin"
)

// EventLister reads back recorded editor events.
type EventLister interface {
	ListEvents(ctx context.Context, userID, projectID string, limit int) ([]models.Event, error)
}

// maxEventsLimit caps one page of the event log.
const maxEventsLimit = 200

type EditorHandler struct {
	manager        *workspace.Manager
	events         EventLister
	uploadMaxBytes int64
}

func NewEditorHandler(manager *workspace.Manager, events EventLister, uploadMaxBytes int64) *EditorHandler {
	return &EditorHandler{
		manager:        manager,
		events:         events,
		uploadMaxBytes: uploadMaxBytes,
	}
}

// RegisterRoutes mounts the editor endpoints on rg, which must already be
// behind the auth middleware.
func (h *EditorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/session", h.OpenSession)
	rg.DELETE("/session", h.CloseSession)
	rg.GET("/snapshot", h.GetSnapshot)
	rg.GET("/form", h.GetFormOptions)
	rg.GET("/events", h.ListEvents)

	rg.GET("/projects", h.ListProjects)
	rg.POST("/projects", h.CreateProject)
	rg.GET("/projects/:projectId", h.LoadProject)
	rg.PATCH("/projects/:projectId", h.UpdateProjectDetails)
	rg.DELETE("/projects/:projectId", h.DeleteProject)

	panel := rg.Group("/projects/:projectId/layers")
	panel.GET("", h.GetLayerPanel)
	panel.POST("/texts", h.PanelCreateTextLayer)
	panel.POST("/images", h.PanelCreateImageLayer)
	panel.PUT("/:layerId/text", h.PanelUpdateTextLayer)
	panel.PUT("/:layerId/image", h.PanelUpdateImageLayer)
	panel.DELETE("/:layerId", h.PanelDeleteLayer)
	panel.PATCH("/:layerId/position", h.PanelUpdateLayerPosition)
	panel.PUT("/:layerId/opacity", h.PanelUpdateLayerOpacity)
	panel.PUT("/:layerId/visibility", h.PanelUpdateLayerVisibility)
	panel.POST("/:layerId/move-up", h.PanelMoveLayerUp)
	panel.POST("/:layerId/move-down", h.PanelMoveLayerDown)
	panel.PUT("/selection", h.PanelSelectLayer)
	panel.DELETE("/selection", h.PanelClearSelection)

	project := rg.Group("/project")
	project.DELETE("", h.ClearProject)
	project.POST("/layers/texts", h.CreateTextLayer)
	project.POST("/layers/images", h.CreateImageLayer)
	project.POST("/layers/images/upload", h.UploadImageLayer)
	project.PUT("/layers/:layerId/text", h.UpdateTextLayer)
	project.PUT("/layers/:layerId/image", h.UpdateImageLayer)
	project.DELETE("/layers/:layerId", h.DeleteLayer)
	project.PATCH("/layers/:layerId/position", h.UpdateLayerPosition)
	project.PUT("/layers/:layerId/opacity", h.UpdateLayerOpacity)
	project.PUT("/layers/:layerId/visibility", h.UpdateLayerVisibility)
	project.POST("/layers/:layerId/visibility/toggle", h.ToggleLayerVisibility)
	project.POST("/layers/:layerId/move-up", h.MoveLayerUp)
	project.POST("/layers/:layerId/move-down", h.MoveLayerDown)
	project.PUT("/layers/:layerId/coordinates", h.UpdateLayerCoordinates)
	project.POST("/layers/:layerId/coordinates/persist", h.PersistLayerCoordinates)
	project.PUT("/selection", h.SelectLayer)
	project.DELETE("/selection", h.ClearSelection)
}

func (h *EditorHandler) OpenSession(c *gin.Context) {
	token := c.GetString(middleware.TokenKey)
	if token == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "token not found", Status: http.StatusUnauthorized})
		return
	}

	ws, err := h.manager.Open(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := models.SessionResponse{
		UserID:   ws.Session.UserID,
		Username: ws.Session.Username,
	}
	if !ws.Session.ExpiresAt.IsZero() {
		resp.ExpiresAt = ws.Session.ExpiresAt.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EditorHandler) CloseSession(c *gin.Context) {
	h.manager.Close(c.Request.Context(), c.GetString(middleware.UserIDKey))
	c.Status(http.StatusNoContent)
}

func (h *EditorHandler) GetSnapshot(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snapshotResponse(ws))
}

func (h *EditorHandler) GetFormOptions(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	form := ws.Form
	c.JSON(http.StatusOK, models.FormOptionsResponse{
		Options: form.Options(),
		Defaults: map[string]string{
			"gender": form.Gender,
			"size":   form.Size,
			"color":  form.Color,
		},
		Colors: models.GarmentColors,
	})
}

func (h *EditorHandler) ListEvents(c *gin.Context) {
	if h.events == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "event log not available", Status: http.StatusServiceUnavailable})
		return
	}
	userID := c.GetString(middleware.UserIDKey)

	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit > maxEventsLimit {
		limit = maxEventsLimit
	}
	events, err := h.events.ListEvents(c.Request.Context(), userID, c.Query("projectId"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list events",
			Message: err.Error(),
			Status:  http.StatusInternalServerError,
		})
		return
	}

	resp := make([]models.EventResponse, len(events))
	for i, e := range events {
		resp[i] = models.EventResponse{
			ID:        e.ID.String(),
			ProjectID: e.ProjectID,
			LayerID:   e.LayerID,
			Operation: e.Operation,
			Level:     string(e.Level),
			Message:   e.Message,
			CreatedAt: models.NewTimestamp(e.CreatedAt),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EditorHandler) ListProjects(c *gin.Context) {
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		_, err := ws.Projects.LoadProjects(ctx)
		return err
	})
}

func (h *EditorHandler) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	h.run(c, http.StatusCreated, func(ctx context.Context, ws *workspace.Workspace) error {
		// Projects are always created for the signed-in user.
		req.UserID = ws.Session.UserID
		_, err := ws.Projects.CreateProject(ctx, req)
		return err
	})
}

func (h *EditorHandler) LoadProject(c *gin.Context) {
	projectID := c.Param("projectId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		_, err := ws.Projects.LoadProject(ctx, projectID)
		return err
	})
}

func (h *EditorHandler) UpdateProjectDetails(c *gin.Context) {
	var update models.ProjectDetailsUpdate
	if !bindJSON(c, &update) {
		return
	}
	update.ProjectID = c.Param("projectId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Projects.UpdateProjectDetails(ctx, update)
	})
}

func (h *EditorHandler) DeleteProject(c *gin.Context) {
	projectID := c.Param("projectId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Projects.DeleteProject(ctx, projectID)
	})
}

func (h *EditorHandler) ClearProject(c *gin.Context) {
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		ws.Projects.ClearProject()
		return nil
	})
}

// workspace resolves the caller's workspace or writes the error response.
func (h *EditorHandler) workspace(c *gin.Context) (*workspace.Workspace, bool) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found", Status: http.StatusUnauthorized})
		return nil, false
	}

	ws, err := h.manager.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return ws, true
}

// run executes op against the caller's workspace and answers with the
// resulting snapshot.
func (h *EditorHandler) run(c *gin.Context, status int, op func(ctx context.Context, ws *workspace.Workspace) error) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	if err := op(c.Request.Context(), ws); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, snapshotResponse(ws))
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
			Status:  http.StatusBadRequest,
		})
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	status := models.HTTPStatus(err)
	resp := models.ErrorResponse{
		Error:     models.Classify(err).String(),
		Message:   store.ErrorMessage(err),
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	var apiErr *models.APIError
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		resp.Detail = apiErr.Code
	}
	c.JSON(status, resp)
}

func snapshotResponse(ws *workspace.Workspace) models.EditorSnapshot {
	s := ws.Projects.Snapshot()
	resp := models.EditorSnapshot{
		Project:         assembler.ToProjectResponse(s.Project),
		Projects:        assembler.ToProjectResponses(s.Projects),
		SelectedLayerID: s.SelectedLayerID,
		SortedLayers:    assembler.ToLayerResponses(s.Project.LayersSortedByZ()),
		VisibleLayerIDs: []string{},
		Phase:           string(s.Phase),
		Loading:         s.Loading,
		Error:           s.Error,
	}
	for _, l := range s.Project.VisibleLayers() {
		resp.VisibleLayerIDs = append(resp.VisibleLayerIDs, l.ID)
	}
	if panel := ws.Layers.Snapshot(); panel.ProjectID != "" {
		resp.LayerPanel = layerPanelResponse(panel)
	}
	return resp
}

func layerPanelResponse(s store.LayerSnapshot) *models.LayerPanel {
	panel := &models.LayerPanel{
		ProjectID:       s.ProjectID,
		SelectedLayerID: s.SelectedLayerID,
		SortedLayers:    assembler.ToLayerResponses(models.SortLayersByZ(s.Layers)),
		VisibleLayerIDs: []string{},
		Loading:         s.Loading,
		Error:           s.Error,
	}
	for _, l := range models.FilterVisibleLayers(s.Layers) {
		panel.VisibleLayerIDs = append(panel.VisibleLayerIDs, l.ID)
	}
	return panel
}
