package store

import (
	"context"
	"strings"

	"garment-designlab/internal/assembler"
	"garment-designlab/internal/models"
)

// LayerStore is a standalone layer list for panels that work on a project
// by id rather than on the ProjectStore's current project.
type LayerStore struct {
	base
	gateway Gateway

	projectID string
	layers    []models.Layer
	selected  string
}

func NewLayerStore(gateway Gateway, userID string, opts ...Option) *LayerStore {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	s := &LayerStore{gateway: gateway, layers: []models.Layer{}}
	s.userID = userID
	s.recorder = o.recorder
	return s
}

// LoadFromProject binds the store to p and copies its layers.
func (s *LayerStore) LoadFromProject(p *models.Project) {
	s.mu.Lock()
	if p == nil {
		s.projectID = ""
		s.layers = []models.Layer{}
	} else {
		s.projectID = p.ID
		s.layers = models.CloneLayers(p.Layers)
		if s.layers == nil {
			s.layers = []models.Layer{}
		}
	}
	s.selected = ""
	projectID := s.projectID
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeProject, ProjectID: projectID})
}

// LoadProject fetches projectID and binds the store to it.
func (s *LayerStore) LoadProject(ctx context.Context, projectID string) (err error) {
	s.begin()
	defer s.finish(ctx, "LoadProject", &err)

	if err := requireIDs(projectID); err != nil {
		return err
	}
	project, err := s.gateway.FetchProject(ctx, projectID)
	if err != nil {
		return err
	}
	s.LoadFromProject(project)
	return nil
}

// SyncLayers replaces the layers of projectID without notifying
// subscribers. It is a no-op when the store is bound elsewhere.
func (s *LayerStore) SyncLayers(projectID string, layers []models.Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if projectID == "" || s.projectID != projectID {
		return
	}
	s.layers = models.CloneLayers(layers)
	if s.layers == nil {
		s.layers = []models.Layer{}
	}
	if _, ok := models.FindLayer(s.layers, s.selected); !ok {
		s.selected = ""
	}
}

// LayerSnapshot is a consistent copy of the store's state.
type LayerSnapshot struct {
	ProjectID       string
	Layers          []models.Layer
	SelectedLayerID string
	Loading         bool
	Error           string
}

func (s *LayerStore) Snapshot() LayerSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return LayerSnapshot{
		ProjectID:       s.projectID,
		Layers:          models.CloneLayers(s.layers),
		SelectedLayerID: s.selected,
		Loading:         s.inflight > 0,
		Error:           s.lastErr,
	}
}

func (s *LayerStore) ProjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectID
}

func (s *LayerStore) Layers() []models.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneLayers(s.layers)
}

func (s *LayerStore) HasLayers() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layers) > 0
}

func (s *LayerStore) Layer(id string) (models.Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := models.FindLayer(s.layers, id)
	if !ok {
		return models.Layer{}, false
	}
	return s.layers[i], true
}

func (s *LayerStore) SelectedLayerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

func (s *LayerStore) SelectedLayer() (models.Layer, bool) {
	return s.Layer(s.SelectedLayerID())
}

func (s *LayerStore) LayersSortedByZ() []models.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.SortLayersByZ(s.layers)
}

func (s *LayerStore) VisibleLayers() []models.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.FilterVisibleLayers(s.layers)
}

func requireIDs(projectID string, layerID ...string) error {
	if strings.TrimSpace(projectID) == "" {
		return models.NewValidationError("Project ID is required")
	}
	for _, id := range layerID {
		if strings.TrimSpace(id) == "" {
			return models.NewValidationError("Layer ID is required")
		}
	}
	return nil
}

// bound reports whether results for projectID belong in this store. An
// unbound store accepts any project and binds to it.
func (s *LayerStore) boundLocked(projectID string) bool {
	if s.projectID == "" {
		s.projectID = projectID
		return true
	}
	return s.projectID == projectID
}

func (s *LayerStore) CreateTextLayer(ctx context.Context, projectID string, details models.TextDetails) (layer models.Layer, err error) {
	s.begin()
	defer s.finish(ctx, "CreateTextLayer", &err)

	if err := requireIDs(projectID); err != nil {
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
	s.append(projectID, layer)
	return layer, nil
}

func (s *LayerStore) CreateImageLayer(ctx context.Context, projectID string, details models.ImageDetails) (layer models.Layer, err error) {
	s.begin()
	defer s.finish(ctx, "CreateImageLayer", &err)

	if err := requireIDs(projectID); err != nil {
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
	s.append(projectID, layer)
	return layer, nil
}

func (s *LayerStore) append(projectID string, layer models.Layer) {
	s.mu.Lock()
	if !s.boundLocked(projectID) {
		s.mu.Unlock()
		return
	}
	s.layers = append(s.layers, layer)
	s.selected = layer.ID
	s.mu.Unlock()

	s.notify(
		Change{Kind: ChangeLayerAdded, ProjectID: projectID, LayerID: layer.ID},
		Change{Kind: ChangeSelection, ProjectID: projectID, LayerID: layer.ID},
	)
}

func (s *LayerStore) UpdateTextLayerDetails(ctx context.Context, projectID, layerID string, details models.TextDetails) (layer models.Layer, err error) {
	s.begin()
	defer s.finish(ctx, "UpdateTextLayerDetails", &err)

	if err := requireIDs(projectID, layerID); err != nil {
		return models.Layer{}, err
	}
	details = assembler.NormalizeTextDetails(details)
	if err := assembler.ValidateTextLayerData(details); err != nil {
		return models.Layer{}, err
	}

	layer, err = s.gateway.UpdateTextLayerDetails(ctx, projectID, layerID, details)
	if err != nil {
		return models.Layer{}, err
	}
	s.replace(projectID, layer)
	return layer, nil
}

func (s *LayerStore) UpdateImageLayerDetails(ctx context.Context, projectID, layerID string, details models.ImageDetails) (layer models.Layer, err error) {
	s.begin()
	defer s.finish(ctx, "UpdateImageLayerDetails", &err)

	if err := requireIDs(projectID, layerID); err != nil {
		return models.Layer{}, err
	}
	details = assembler.NormalizeImageDetails(details)
	if err := assembler.ValidateImageLayerData(details); err != nil {
		return models.Layer{}, err
	}

	layer, err = s.gateway.UpdateImageLayerDetails(ctx, projectID, layerID, details)
	if err != nil {
		return models.Layer{}, err
	}
	s.replace(projectID, layer)
	return layer, nil
}

func (s *LayerStore) replace(projectID string, layer models.Layer) {
	s.mu.Lock()
	replaced := false
	if s.projectID == projectID {
		if i, ok := models.FindLayer(s.layers, layer.ID); ok {
			s.layers[i] = layer
			replaced = true
		}
	}
	s.mu.Unlock()

	if replaced {
		s.notify(Change{Kind: ChangeLayerUpdated, ProjectID: projectID, LayerID: layer.ID})
	}
}

func (s *LayerStore) DeleteLayer(ctx context.Context, projectID, layerID string) (err error) {
	s.begin()
	defer s.finish(ctx, "DeleteLayer", &err)

	if err := requireIDs(projectID, layerID); err != nil {
		return err
	}
	if err := s.gateway.DeleteLayer(ctx, projectID, layerID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.projectID == projectID {
		s.layers, _ = removeLayer(s.layers, layerID)
	}
	if s.selected == layerID {
		s.selected = ""
	}
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeLayerRemoved, ProjectID: projectID, LayerID: layerID})
	return nil
}

func (s *LayerStore) mutateLocal(ctx context.Context, op, layerID string, fn func([]models.Layer) func(*models.Layer)) error {
	s.mu.Lock()
	err := mutateLayer(s.layers, layerID, fn(s.layers))
	projectID := s.projectID
	s.mu.Unlock()

	if err != nil {
		return s.fail(ctx, op, err)
	}
	s.notify(Change{Kind: ChangeLayerUpdated, ProjectID: projectID, LayerID: layerID})
	return nil
}

func (s *LayerStore) UpdateLayerPosition(ctx context.Context, layerID string, pos models.LayerPosition) error {
	return s.mutateLocal(ctx, "UpdateLayerPosition", layerID, func([]models.Layer) func(*models.Layer) {
		return applyPosition(pos)
	})
}

func (s *LayerStore) UpdateLayerOpacity(ctx context.Context, layerID string, opacity float64) error {
	return s.mutateLocal(ctx, "UpdateLayerOpacity", layerID, func([]models.Layer) func(*models.Layer) {
		return func(l *models.Layer) { l.SetOpacity(opacity) }
	})
}

func (s *LayerStore) UpdateLayerVisibility(ctx context.Context, layerID string, visible bool) error {
	return s.mutateLocal(ctx, "UpdateLayerVisibility", layerID, func([]models.Layer) func(*models.Layer) {
		return func(l *models.Layer) { l.IsVisible = visible }
	})
}

func (s *LayerStore) MoveLayerUp(ctx context.Context, layerID string) error {
	return s.mutateLocal(ctx, "MoveLayerUp", layerID, moveUp)
}

func (s *LayerStore) MoveLayerDown(ctx context.Context, layerID string) error {
	return s.mutateLocal(ctx, "MoveLayerDown", layerID, moveDown)
}

func (s *LayerStore) SelectLayer(ctx context.Context, layerID string) error {
	if _, ok := s.Layer(layerID); !ok {
		return s.fail(ctx, "SelectLayer", layerNotFound(layerID))
	}
	s.mu.Lock()
	s.selected = layerID
	projectID := s.projectID
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeSelection, ProjectID: projectID, LayerID: layerID})
	return nil
}

func (s *LayerStore) ClearSelection() {
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeSelection})
}

func (s *LayerStore) ClearLayers() {
	s.mu.Lock()
	s.projectID = ""
	s.layers = []models.Layer{}
	s.selected = ""
	s.lastErr = ""
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeProject})
}
