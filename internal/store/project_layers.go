package store

import (
	"context"
	"fmt"
	"strings"

	"garment-designlab/internal/assembler"
	"garment-designlab/internal/models"
)

// Layer operations on the current project. Remote ones only merge their
// result if the same project is still current when the response arrives.

func (s *ProjectStore) requireProject() (string, error) {
	id := s.currentID()
	if id == "" {
		return "", models.NewValidationError("No project loaded")
	}
	return id, nil
}

func (s *ProjectStore) CreateTextLayer(ctx context.Context, details models.TextDetails) (layer models.Layer, err error) {
	s.begin()
	defer s.finish(ctx, "CreateTextLayer", &err)

	projectID, err := s.requireProject()
	if err != nil {
		return models.Layer{}, err
	}
	details = assembler.NormalizeTextDetails(details)
	if err := assembler.ValidateTextLayerData(details); err != nil {
		return models.Layer{}, err
	}

	layer, err = s.gateway.CreateTextLayer(ctx, projectID, details)
	if err != nil {
		return models.Layer{}, err
	}
	s.addLayer(ctx, "CreateTextLayer", projectID, layer)
	return layer, nil
}

func (s *ProjectStore) CreateImageLayer(ctx context.Context, details models.ImageDetails) (layer models.Layer, err error) {
	s.begin()
	defer s.finish(ctx, "CreateImageLayer", &err)

	projectID, err := s.requireProject()
	if err != nil {
		return models.Layer{}, err
	}
	details = assembler.NormalizeImageDetails(details)
	if err := assembler.ValidateImageLayerData(details); err != nil {
		return models.Layer{}, err
	}

	layer, err = s.gateway.CreateImageLayer(ctx, projectID, details)
	if err != nil {
		return models.Layer{}, err
	}
	s.addLayer(ctx, "CreateImageLayer", projectID, layer)
	return layer, nil
}

// CreateImageLayerFromUpload stores the file, creates an image layer sized
// for the canvas, and places it centred on the requested point.
func (s *ProjectStore) CreateImageLayerFromUpload(ctx context.Context, upload models.ImageUpload) (layer models.Layer, err error) {
	s.begin()
	defer s.finish(ctx, "CreateImageLayerFromUpload", &err)

	projectID, err := s.requireProject()
	if err != nil {
		return models.Layer{}, err
	}
	if len(upload.Data) == 0 {
		return models.Layer{}, models.NewValidationError("Image file is required")
	}
	if s.uploader == nil {
		return models.Layer{}, fmt.Errorf("image uploads are not configured")
	}

	image, err := s.uploader.ProcessImageForLayer(ctx, s.userID, projectID, upload)
	if err != nil {
		return models.Layer{}, err
	}
	details := image.ImageDetails()
	if err := assembler.ValidateImageLayerData(details); err != nil {
		return models.Layer{}, err
	}

	layer, err = s.gateway.CreateImageLayer(ctx, projectID, details)
	if err != nil {
		s.removeOrphanedImage(ctx, projectID, image.StoragePath)
		return models.Layer{}, err
	}
	layer.SetPosition(image.X, image.Y)
	s.addLayer(ctx, "CreateImageLayerFromUpload", projectID, layer)
	return layer, nil
}

// removeOrphanedImage deletes a stored file no layer refers to. Failures
// are logged only; the layer error is what the caller sees.
func (s *ProjectStore) removeOrphanedImage(ctx context.Context, projectID, storagePath string) {
	cleaner, ok := s.uploader.(ImageCleaner)
	if !ok || storagePath == "" {
		return
	}
	if err := cleaner.DeleteImage(ctx, storagePath); err != nil {
		s.logger(ctx).Warnf("CreateImageLayerFromUpload", "%v", err)
		s.record(ctx, "CreateImageLayerFromUpload", models.EventLevelWarn, projectID, "", err.Error())
	}
}

func (s *ProjectStore) addLayer(ctx context.Context, op, projectID string, layer models.Layer) {
	s.mu.Lock()
	if s.current == nil || s.current.ID != projectID {
		s.mu.Unlock()
		s.logger(ctx).Warnf(op, "project %s is no longer current, layer %s not merged", projectID, layer.ID)
		return
	}
	s.current.AddLayer(layer)
	s.selected = layer.ID
	s.mu.Unlock()

	s.notify(
		Change{Kind: ChangeLayerAdded, ProjectID: projectID, LayerID: layer.ID},
		Change{Kind: ChangeSelection, ProjectID: projectID, LayerID: layer.ID},
	)
}

func (s *ProjectStore) UpdateTextLayerDetails(ctx context.Context, layerID string, details models.TextDetails) (layer models.Layer, err error) {
	s.begin()
	defer s.finish(ctx, "UpdateTextLayerDetails", &err)

	projectID, err := s.requireProject()
	if err != nil {
		return models.Layer{}, err
	}
	if strings.TrimSpace(layerID) == "" {
		return models.Layer{}, models.NewValidationError("Layer ID is required")
	}
	details = assembler.NormalizeTextDetails(details)
	if err := assembler.ValidateTextLayerData(details); err != nil {
		return models.Layer{}, err
	}

	layer, err = s.gateway.UpdateTextLayerDetails(ctx, projectID, layerID, details)
	if err != nil {
		return models.Layer{}, err
	}
	s.replaceLayer(projectID, layer)
	return layer, nil
}

func (s *ProjectStore) UpdateImageLayerDetails(ctx context.Context, layerID string, details models.ImageDetails) (layer models.Layer, err error) {
	s.begin()
	defer s.finish(ctx, "UpdateImageLayerDetails", &err)

	projectID, err := s.requireProject()
	if err != nil {
		return models.Layer{}, err
	}
	if strings.TrimSpace(layerID) == "" {
		return models.Layer{}, models.NewValidationError("Layer ID is required")
	}
	details = assembler.NormalizeImageDetails(details)
	if err := assembler.ValidateImageLayerData(details); err != nil {
		return models.Layer{}, err
	}

	layer, err = s.gateway.UpdateImageLayerDetails(ctx, projectID, layerID, details)
	if err != nil {
		return models.Layer{}, err
	}
	s.replaceLayer(projectID, layer)
	return layer, nil
}

// replaceLayer swaps in a server copy of a layer; a layer deleted meanwhile
// stays deleted.
func (s *ProjectStore) replaceLayer(projectID string, layer models.Layer) {
	s.mu.Lock()
	replaced := s.current != nil && s.current.ID == projectID && s.current.ReplaceLayer(layer)
	s.mu.Unlock()

	if replaced {
		s.notify(Change{Kind: ChangeLayerUpdated, ProjectID: projectID, LayerID: layer.ID})
	}
}

func (s *ProjectStore) DeleteLayer(ctx context.Context, layerID string) (err error) {
	s.begin()
	defer s.finish(ctx, "DeleteLayer", &err)

	projectID, err := s.requireProject()
	if err != nil {
		return err
	}
	if strings.TrimSpace(layerID) == "" {
		return models.NewValidationError("Layer ID is required")
	}

	if err := s.gateway.DeleteLayer(ctx, projectID, layerID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == projectID {
		s.current.RemoveLayer(layerID)
	}
	if s.selected == layerID {
		s.selected = ""
	}
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeLayerRemoved, ProjectID: projectID, LayerID: layerID})
	return nil
}

// UpdateLayerCoordinates persists x, y and z. When the server has no
// coordinates endpoint the change is applied locally only, and later calls
// skip the request.
func (s *ProjectStore) UpdateLayerCoordinates(ctx context.Context, layerID string, coords models.CoordinatesRequest) (layer models.Layer, err error) {
	const op = "UpdateLayerCoordinates"
	s.begin()
	defer s.finish(ctx, op, &err)

	projectID, err := s.requireProject()
	if err != nil {
		return models.Layer{}, err
	}
	if _, ok := s.Layer(layerID); !ok {
		return models.Layer{}, layerNotFound(layerID)
	}

	s.mu.RLock()
	unsupported := s.coordinatesUnsupported
	s.mu.RUnlock()

	if !unsupported {
		layer, err = s.gateway.UpdateLayerCoordinates(ctx, projectID, layerID, coords)
		if err == nil {
			s.replaceLayer(projectID, layer)
			return layer, nil
		}
		if !coordinatesMissing(err) {
			return models.Layer{}, err
		}

		s.mu.Lock()
		s.coordinatesUnsupported = true
		s.mu.Unlock()
		s.logger(ctx).Warnf(op, "coordinates endpoint unavailable, keeping layer %s position locally: %v", layerID, err)
		s.record(ctx, op, models.EventLevelWarn, projectID, layerID, "coordinates endpoint unavailable, applied locally")
	}

	x, y, z := coords.X, coords.Y, coords.Z
	if err := s.UpdateLayerPosition(ctx, layerID, models.LayerPosition{X: &x, Y: &y, Z: &z}); err != nil {
		return models.Layer{}, err
	}
	layer, _ = s.Layer(layerID)
	return layer, nil
}

// PersistLayerCoordinates sends the layer's current local x, y and z.
func (s *ProjectStore) PersistLayerCoordinates(ctx context.Context, layerID string) (models.Layer, error) {
	l, ok := s.Layer(layerID)
	if !ok {
		return models.Layer{}, s.fail(ctx, "PersistLayerCoordinates", layerNotFound(layerID))
	}
	return s.UpdateLayerCoordinates(ctx, layerID, assembler.ToCoordinatesRequest(l))
}

// Local-only mutations. Position, opacity and visibility have no remote
// endpoint of their own.

func (s *ProjectStore) mutateLocal(ctx context.Context, op, layerID string, fn func(layers []models.Layer) func(*models.Layer)) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return s.fail(ctx, op, models.ErrNoProject)
	}
	projectID := s.current.ID
	err := mutateLayer(s.current.Layers, layerID, fn(s.current.Layers))
	s.mu.Unlock()

	if err != nil {
		return s.fail(ctx, op, err)
	}
	s.notify(Change{Kind: ChangeLayerUpdated, ProjectID: projectID, LayerID: layerID})
	return nil
}

func (s *ProjectStore) UpdateLayerPosition(ctx context.Context, layerID string, pos models.LayerPosition) error {
	return s.mutateLocal(ctx, "UpdateLayerPosition", layerID, func([]models.Layer) func(*models.Layer) {
		return applyPosition(pos)
	})
}

// UpdateLayerOpacity clamps opacity into [0,1].
func (s *ProjectStore) UpdateLayerOpacity(ctx context.Context, layerID string, opacity float64) error {
	return s.mutateLocal(ctx, "UpdateLayerOpacity", layerID, func([]models.Layer) func(*models.Layer) {
		return func(l *models.Layer) { l.SetOpacity(opacity) }
	})
}

func (s *ProjectStore) UpdateLayerVisibility(ctx context.Context, layerID string, visible bool) error {
	return s.mutateLocal(ctx, "UpdateLayerVisibility", layerID, func([]models.Layer) func(*models.Layer) {
		return func(l *models.Layer) { l.IsVisible = visible }
	})
}

func (s *ProjectStore) ToggleLayerVisibility(ctx context.Context, layerID string) error {
	return s.mutateLocal(ctx, "ToggleLayerVisibility", layerID, func([]models.Layer) func(*models.Layer) {
		return func(l *models.Layer) { l.IsVisible = !l.IsVisible }
	})
}

func (s *ProjectStore) MoveLayerUp(ctx context.Context, layerID string) error {
	return s.mutateLocal(ctx, "MoveLayerUp", layerID, moveUp)
}

func (s *ProjectStore) MoveLayerDown(ctx context.Context, layerID string) error {
	return s.mutateLocal(ctx, "MoveLayerDown", layerID, moveDown)
}

func (s *ProjectStore) SelectLayer(ctx context.Context, layerID string) error {
	s.mu.Lock()
	if _, ok := s.current.Layer(layerID); !ok {
		s.mu.Unlock()
		return s.fail(ctx, "SelectLayer", layerNotFound(layerID))
	}
	s.selected = layerID
	projectID := s.current.ID
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeSelection, ProjectID: projectID, LayerID: layerID})
	return nil
}

func (s *ProjectStore) ClearSelection() {
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeSelection})
}
