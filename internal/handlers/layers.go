package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"garment-designlab/internal/assembler"
	"garment-designlab/internal/models"
	"garment-designlab/internal/workspace"

	"github.com/gin-gonic/gin"
)

// Layer endpoints act on the workspace's current project.

func (h *EditorHandler) CreateTextLayer(c *gin.Context) {
	var payload models.TextDetailsPayload
	if !bindJSON(c, &payload) {
		return
	}
	h.run(c, http.StatusCreated, func(ctx context.Context, ws *workspace.Workspace) error {
		_, err := ws.Projects.CreateTextLayer(ctx, assembler.ToTextDetails(payload))
		return err
	})
}

func (h *EditorHandler) CreateImageLayer(c *gin.Context) {
	var payload models.ImageDetailsPayload
	if !bindJSON(c, &payload) {
		return
	}
	h.run(c, http.StatusCreated, func(ctx context.Context, ws *workspace.Workspace) error {
		_, err := ws.Projects.CreateImageLayer(ctx, assembler.ToImageDetails(payload))
		return err
	})
}

// UploadImageLayer takes a multipart "image" file plus optional centerX and
// centerY fields.
func (h *EditorHandler) UploadImageLayer(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "image file is required",
			Message: err.Error(),
			Status:  http.StatusBadRequest,
		})
		return
	}
	if h.uploadMaxBytes > 0 && fileHeader.Size > h.uploadMaxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error:   "file too large",
			Message: fmt.Sprintf("File size %.2fMB exceeds maximum %.2fMB", float64(fileHeader.Size)/1024/1024, float64(h.uploadMaxBytes)/1024/1024),
			Status:  http.StatusRequestEntityTooLarge,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open file", Message: err.Error(), Status: http.StatusBadRequest})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read file", Message: err.Error(), Status: http.StatusBadRequest})
		return
	}

	centerX, _ := strconv.Atoi(c.PostForm("centerX"))
	centerY, _ := strconv.Atoi(c.PostForm("centerY"))
	upload := models.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
		CenterX:     centerX,
		CenterY:     centerY,
	}

	h.run(c, http.StatusCreated, func(ctx context.Context, ws *workspace.Workspace) error {
		_, err := ws.Projects.CreateImageLayerFromUpload(ctx, upload)
		return err
	})
}

func (h *EditorHandler) UpdateTextLayer(c *gin.Context) {
	var payload models.TextDetailsPayload
	if !bindJSON(c, &payload) {
		return
	}
	layerID := c.Param("layerId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		_, err := ws.Projects.UpdateTextLayerDetails(ctx, layerID, assembler.ToTextDetails(payload))
		return err
	})
}

func (h *EditorHandler) UpdateImageLayer(c *gin.Context) {
	var payload models.ImageDetailsPayload
	if !bindJSON(c, &payload) {
		return
	}
	layerID := c.Param("layerId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		_, err := ws.Projects.UpdateImageLayerDetails(ctx, layerID, assembler.ToImageDetails(payload))
		return err
	})
}

func (h *EditorHandler) DeleteLayer(c *gin.Context) {
	layerID := c.Param("layerId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Projects.DeleteLayer(ctx, layerID)
	})
}

func (h *EditorHandler) UpdateLayerPosition(c *gin.Context) {
	var pos models.LayerPosition
	if !bindJSON(c, &pos) {
		return
	}
	layerID := c.Param("layerId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Projects.UpdateLayerPosition(ctx, layerID, pos)
	})
}

func (h *EditorHandler) UpdateLayerOpacity(c *gin.Context) {
	var req models.OpacityRequest
	if !bindJSON(c, &req) {
		return
	}
	layerID := c.Param("layerId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Projects.UpdateLayerOpacity(ctx, layerID, req.Opacity)
	})
}

func (h *EditorHandler) UpdateLayerVisibility(c *gin.Context) {
	var req models.VisibilityRequest
	if !bindJSON(c, &req) {
		return
	}
	layerID := c.Param("layerId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Projects.UpdateLayerVisibility(ctx, layerID, req.IsVisible)
	})
}

func (h *EditorHandler) ToggleLayerVisibility(c *gin.Context) {
	layerID := c.Param("layerId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Projects.ToggleLayerVisibility(ctx, layerID)
	})
}

func (h *EditorHandler) MoveLayerUp(c *gin.Context) {
	layerID := c.Param("layerId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Projects.MoveLayerUp(ctx, layerID)
	})
}

func (h *EditorHandler) MoveLayerDown(c *gin.Context) {
	layerID := c.Param("layerId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Projects.MoveLayerDown(ctx, layerID)
	})
}

func (h *EditorHandler) UpdateLayerCoordinates(c *gin.Context) {
	var req models.CoordinatesRequest
	if !bindJSON(c, &req) {
		return
	}
	layerID := c.Param("layerId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		_, err := ws.Projects.UpdateLayerCoordinates(ctx, layerID, req)
		return err
	})
}

func (h *EditorHandler) PersistLayerCoordinates(c *gin.Context) {
	layerID := c.Param("layerId")
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		_, err := ws.Projects.PersistLayerCoordinates(ctx, layerID)
		return err
	})
}

func (h *EditorHandler) SelectLayer(c *gin.Context) {
	var req models.SelectLayerRequest
	if !bindJSON(c, &req) {
		return
	}
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Projects.SelectLayer(ctx, req.LayerID)
	})
}

func (h *EditorHandler) ClearSelection(c *gin.Context) {
	h.run(c, http.StatusOK, func(ctx context.Context, ws *workspace.Workspace) error {
		ws.Projects.ClearSelection()
		return nil
	})
}
