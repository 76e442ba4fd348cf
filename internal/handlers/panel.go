package handlers

import (
	"context"
	"net/http"

	"garment-designlab/internal/assembler"
	"garment-designlab/internal/models"
	"garment-designlab/internal/workspace"

	"github.com/gin-gonic/gin"
)

// Layer panel endpoints address a project by id. The panel is rebound when
// the id differs from the one it holds, reusing the editor's project when
// that is the one requested.

func (h *EditorHandler) runPanel(c *gin.Context, status int, op func(ctx context.Context, ws *workspace.Workspace, projectID string) error) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	projectID := c.Param("projectId")

	if ws.Layers.ProjectID() != projectID {
		if current := ws.Projects.CurrentProject(); current != nil && current.ID == projectID {
			ws.Layers.LoadFromProject(current)
		} else if err := ws.Layers.LoadProject(ctx, projectID); err != nil {
			writeError(c, err)
			return
		}
	}

	if err := op(ctx, ws, projectID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, layerPanelResponse(ws.Layers.Snapshot()))
}

func (h *EditorHandler) GetLayerPanel(c *gin.Context) {
	h.runPanel(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		return nil
	})
}

func (h *EditorHandler) PanelCreateTextLayer(c *gin.Context) {
	var payload models.TextDetailsPayload
	if !bindJSON(c, &payload) {
		return
	}
	h.runPanel(c, http.StatusCreated, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		_, err := ws.Layers.CreateTextLayer(ctx, projectID, assembler.ToTextDetails(payload))
		return err
	})
}

func (h *EditorHandler) PanelCreateImageLayer(c *gin.Context) {
	var payload models.ImageDetailsPayload
	if !bindJSON(c, &payload) {
		return
	}
	h.runPanel(c, http.StatusCreated, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		_, err := ws.Layers.CreateImageLayer(ctx, projectID, assembler.ToImageDetails(payload))
		return err
	})
}

func (h *EditorHandler) PanelUpdateTextLayer(c *gin.Context) {
	var payload models.TextDetailsPayload
	if !bindJSON(c, &payload) {
		return
	}
	layerID := c.Param("layerId")
	h.runPanel(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		_, err := ws.Layers.UpdateTextLayerDetails(ctx, projectID, layerID, assembler.ToTextDetails(payload))
		return err
	})
}

func (h *EditorHandler) PanelUpdateImageLayer(c *gin.Context) {
	var payload models.ImageDetailsPayload
	if !bindJSON(c, &payload) {
		return
	}
	layerID := c.Param("layerId")
	h.runPanel(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		_, err := ws.Layers.UpdateImageLayerDetails(ctx, projectID, layerID, assembler.ToImageDetails(payload))
		return err
	})
}

func (h *EditorHandler) PanelDeleteLayer(c *gin.Context) {
	layerID := c.Param("layerId")
	h.runPanel(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		return ws.Layers.DeleteLayer(ctx, projectID, layerID)
	})
}

func (h *EditorHandler) PanelUpdateLayerPosition(c *gin.Context) {
	var pos models.LayerPosition
	if !bindJSON(c, &pos) {
		return
	}
	layerID := c.Param("layerId")
	h.runPanel(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		return ws.Layers.UpdateLayerPosition(ctx, layerID, pos)
	})
}

func (h *EditorHandler) PanelUpdateLayerOpacity(c *gin.Context) {
	var req models.OpacityRequest
	if !bindJSON(c, &req) {
		return
	}
	layerID := c.Param("layerId")
	h.runPanel(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		return ws.Layers.UpdateLayerOpacity(ctx, layerID, req.Opacity)
	})
}

func (h *EditorHandler) PanelUpdateLayerVisibility(c *gin.Context) {
	var req models.VisibilityRequest
	if !bindJSON(c, &req) {
		return
	}
	layerID := c.Param("layerId")
	h.runPanel(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		return ws.Layers.UpdateLayerVisibility(ctx, layerID, req.IsVisible)
	})
}

func (h *EditorHandler) PanelMoveLayerUp(c *gin.Context) {
	layerID := c.Param("layerId")
	h.runPanel(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		return ws.Layers.MoveLayerUp(ctx, layerID)
	})
}

func (h *EditorHandler) PanelMoveLayerDown(c *gin.Context) {
	layerID := c.Param("layerId")
	h.runPanel(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		return ws.Layers.MoveLayerDown(ctx, layerID)
	})
}

func (h *EditorHandler) PanelSelectLayer(c *gin.Context) {
	var req models.SelectLayerRequest
	if !bindJSON(c, &req) {
		return
	}
	h.runPanel(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		return ws.Layers.SelectLayer(ctx, req.LayerID)
	})
}

func (h *EditorHandler) PanelClearSelection(c *gin.Context) {
	h.runPanel(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace, projectID string) error {
		ws.Layers.ClearSelection()
		return nil
	})
}
