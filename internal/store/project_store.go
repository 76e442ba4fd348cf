package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"garment-designlab/internal/assembler"
	"garment-designlab/internal/models"
)

// ProjectStore holds the project being edited, its layer selection and the
// signed-in user's project list.
type ProjectStore struct {
	base
	gateway  Gateway
	catalog  ProductCatalog
	uploader ImageUploader

	current  *models.Project
	projects []models.Project
	hasList  bool
	selected string

	// Set once the server has shown it has no coordinates endpoint.
	coordinatesUnsupported bool
}

func NewProjectStore(gateway Gateway, userID string, opts ...Option) *ProjectStore {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	s := &ProjectStore{
		gateway:  gateway,
		catalog:  o.catalog,
		uploader: o.uploader,
	}
	s.userID = userID
	s.recorder = o.recorder
	return s
}

// Snapshot is a deep copy of the store state for rendering.
type Snapshot struct {
	Project         *models.Project
	Projects        []models.Project
	SelectedLayerID string
	Phase           Phase
	Loading         bool
	Error           string
}

func (s *ProjectStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Project:         s.current.Clone(),
		Projects:        cloneProjects(s.projects),
		SelectedLayerID: s.selected,
		Phase:           s.phaseLocked(),
		Loading:         s.inflight > 0,
		Error:           s.lastErr,
	}
}

func (s *ProjectStore) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phaseLocked()
}

func (s *ProjectStore) phaseLocked() Phase {
	switch {
	case s.inflight > 0:
		return PhaseLoading
	case s.current != nil:
		return PhaseLoaded
	case s.lastErr != "":
		return PhaseError
	}
	return PhaseEmpty
}

func (s *ProjectStore) CurrentProject() *models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

func (s *ProjectStore) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProjects(s.projects)
}

func (s *ProjectStore) HasProject() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

func (s *ProjectStore) HasProjects() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects) > 0
}

func (s *ProjectStore) HasLayers() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.HasLayers()
}

func (s *ProjectStore) Layer(id string) (models.Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Layer(id)
}

func (s *ProjectStore) SelectedLayerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

func (s *ProjectStore) SelectedLayer() (models.Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == "" {
		return models.Layer{}, false
	}
	return s.current.Layer(s.selected)
}

func (s *ProjectStore) LayersSortedByZ() []models.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.LayersSortedByZ()
}

func (s *ProjectStore) VisibleLayers() []models.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.VisibleLayers()
}

func (s *ProjectStore) LoadProjects(ctx context.Context) (projects []models.Project, err error) {
	s.begin()
	defer s.finish(ctx, "LoadProjects", &err)

	if s.userID == "" {
		return nil, models.NewValidationError("User ID is required")
	}

	projects, err = s.gateway.FetchProjectsByUser(ctx, s.userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.projects = cloneProjects(projects)
	s.hasList = true
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeProjects})
	return projects, nil
}

// LoadProject replaces the current project. A failed load leaves no project
// held so the store reports the error phase.
func (s *ProjectStore) LoadProject(ctx context.Context, projectID string) (project *models.Project, err error) {
	s.begin()
	defer s.finish(ctx, "LoadProject", &err)

	if strings.TrimSpace(projectID) == "" {
		return nil, models.NewValidationError("Project ID is required")
	}

	project, err = s.gateway.FetchProject(ctx, projectID)
	if err != nil {
		s.mu.Lock()
		s.current = nil
		s.selected = ""
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.current = project.Clone()
	s.selected = ""
	s.replaceListEntryLocked(project)
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeProject, ProjectID: projectID})
	return project, nil
}

// CreateProject persists a new project for req. An empty UserID is filled
// with the store's user.
func (s *ProjectStore) CreateProject(ctx context.Context, req models.CreateProjectRequest) (project *models.Project, err error) {
	s.begin()
	defer s.finish(ctx, "CreateProject", &err)

	if req.UserID == "" {
		req.UserID = s.userID
	}
	req.Title = assembler.SanitizeString(req.Title)
	if err := assembler.ValidateCreateProjectData(req); err != nil {
		return nil, err
	}

	project, err = s.gateway.CreateProject(ctx, req)
	if err != nil {
		return nil, err
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusBlueprint
	}
	if project.Layers == nil {
		project.Layers = []models.Layer{}
	}

	s.mu.Lock()
	s.current = project.Clone()
	s.selected = ""
	if s.hasList {
		s.projects = append([]models.Project{*project.Clone()}, s.projects...)
	}
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeProject, ProjectID: project.ID})
	return project, nil
}

// UpdateProjectDetails sends the changed fields and then re-fetches the
// whole project. The selection is kept when the selected layer still exists.
func (s *ProjectStore) UpdateProjectDetails(ctx context.Context, update models.ProjectDetailsUpdate) (err error) {
	s.begin()
	defer s.finish(ctx, "UpdateProjectDetails", &err)

	projectID := update.ProjectID
	if projectID == "" {
		projectID = s.currentID()
	}
	req := assembler.ToUpdateProjectDetailsRequest(update)
	if projectID == "" || req.IsEmpty() {
		return models.NewValidationError("Project and update data are required")
	}

	if err := s.gateway.UpdateProjectDetails(ctx, projectID, req); err != nil {
		return err
	}

	project, err := s.gateway.FetchProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("project updated but refresh failed: %w", err)
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == projectID {
		s.current = project.Clone()
		if _, ok := s.current.Layer(s.selected); !ok {
			s.selected = ""
		}
	}
	s.replaceListEntryLocked(project)
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeProject, ProjectID: projectID})
	return nil
}

// DeleteProject removes a project; an empty projectID means the current
// one. Products built from a Garment project are deleted first, and failures
// there are logged and recorded but never stop the project delete.
func (s *ProjectStore) DeleteProject(ctx context.Context, projectID string) (err error) {
	s.begin()
	defer s.finish(ctx, "DeleteProject", &err)

	if projectID == "" {
		projectID = s.currentID()
	}
	if projectID == "" {
		return models.NewValidationError("No project to delete")
	}

	if s.resolveStatus(ctx, projectID).IsGarment() {
		s.deleteProducts(ctx, projectID)
	}

	if err := s.gateway.DeleteProject(ctx, projectID); err != nil {
		return err
	}

	s.mu.Lock()
	s.projects = removeProject(s.projects, projectID)
	if s.current != nil && s.current.ID == projectID {
		s.current = nil
		s.selected = ""
	}
	s.mu.Unlock()

	s.deleteImages(ctx, projectID)
	s.notify(Change{Kind: ChangeProject, ProjectID: projectID})
	return nil
}

func (s *ProjectStore) deleteImages(ctx context.Context, projectID string) {
	cleaner, ok := s.uploader.(ImageCleaner)
	if !ok {
		return
	}
	if err := cleaner.DeleteProjectImages(ctx, s.userID, projectID); err != nil {
		s.logger(ctx).Warnf("DeleteProject", "%v", err)
		s.record(ctx, "DeleteProject", models.EventLevelWarn, projectID, "", err.Error())
	}
}

func (s *ProjectStore) deleteProducts(ctx context.Context, projectID string) {
	const op = "DeleteProject"
	log := s.logger(ctx)

	if s.catalog == nil {
		log.Warnf(op, "project %s is a garment but no product catalog is configured", projectID)
		s.record(ctx, op, models.EventLevelWarn, projectID, "", "product catalog not configured")
		return
	}

	products, err := s.catalog.ListProducts(ctx, projectID)
	if err != nil {
		log.Warnf(op, "failed to list products for project %s: %v", projectID, err)
		s.record(ctx, op, models.EventLevelWarn, projectID, "", fmt.Sprintf("failed to list products: %v", err))
		return
	}

	for _, p := range products {
		if p.ProjectID != projectID {
			continue
		}
		if err := s.catalog.DeleteProduct(ctx, p.ID); err != nil {
			// Log error but continue
			log.Warnf(op, "failed to delete product %s of project %s: %v", p.ID, projectID, err)
			s.record(ctx, op, models.EventLevelWarn, projectID, "", fmt.Sprintf("failed to delete product %s: %v", p.ID, err))
			continue
		}
		log.Infof(op, "deleted product %s of project %s", p.ID, projectID)
	}
}

// resolveStatus reads the status from local state, fetching the project when
// it is neither current nor listed. A failed fetch is recorded and yields "".
func (s *ProjectStore) resolveStatus(ctx context.Context, projectID string) models.ProjectStatus {
	if status := s.knownStatus(projectID); status != "" {
		return status
	}
	project, err := s.gateway.FetchProject(ctx, projectID)
	if err != nil {
		s.logger(ctx).Warnf("DeleteProject", "could not resolve status of project %s, products are not removed: %v", projectID, err)
		s.record(ctx, "DeleteProject", models.EventLevelWarn, projectID, "", fmt.Sprintf("failed to resolve project status: %v", err))
		return ""
	}
	return project.Status
}

// knownStatus resolves a project's status from local state only.
func (s *ProjectStore) knownStatus(projectID string) models.ProjectStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current != nil && s.current.ID == projectID {
		return s.current.Status
	}
	for _, p := range s.projects {
		if p.ID == projectID {
			return p.Status
		}
	}
	return ""
}

// SetCurrentProject installs p without a remote call.
func (s *ProjectStore) SetCurrentProject(p *models.Project) {
	if p == nil {
		s.ClearProject()
		return
	}
	s.mu.Lock()
	s.current = p.Clone()
	s.selected = ""
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeProject, ProjectID: p.ID})
}

// SyncLayers replaces the current project's layers without notifying
// subscribers. It is a no-op when projectID is not current.
func (s *ProjectStore) SyncLayers(projectID string, layers []models.Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.ID != projectID {
		return
	}
	s.current.Layers = models.CloneLayers(layers)
	if s.current.Layers == nil {
		s.current.Layers = []models.Layer{}
	}
	if _, ok := models.FindLayer(s.current.Layers, s.selected); !ok {
		s.selected = ""
	}
	s.replaceListEntryLocked(s.current)
}

func (s *ProjectStore) ClearProject() {
	s.mu.Lock()
	s.current = nil
	s.selected = ""
	s.lastErr = ""
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeProject})
}

func (s *ProjectStore) ClearProjects() {
	s.mu.Lock()
	s.projects = nil
	s.hasList = false
	s.current = nil
	s.selected = ""
	s.lastErr = ""
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeProjects})
}

func (s *ProjectStore) currentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

func (s *ProjectStore) replaceListEntryLocked(p *models.Project) {
	for i := range s.projects {
		if s.projects[i].ID == p.ID {
			s.projects[i] = *p.Clone()
			return
		}
	}
}

func cloneProjects(ps []models.Project) []models.Project {
	if ps == nil {
		return []models.Project{}
	}
	out := make([]models.Project, len(ps))
	for i := range ps {
		out[i] = *ps[i].Clone()
	}
	return out
}

func removeProject(ps []models.Project, id string) []models.Project {
	out := make([]models.Project, 0, len(ps))
	for _, p := range ps {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// coordinatesMissing reports whether err means the server has no
// coordinates endpoint.
func coordinatesMissing(err error) bool {
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	}
	return false
}
