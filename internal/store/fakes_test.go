package store_test

import (
	"context"
	"fmt"
	"sync"

	"garment-designlab/internal/models"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

// fakeGateway is an in-memory Design Lab API. Hooks override single calls.
type fakeGateway struct {
	mu       sync.Mutex
	projects map[string]*models.Project
	nextID   int
	calls    map[string]int

	fetchErr       error
	createLayerErr error
	deleteErr      error
	coordsErr      error
	refreshErr     error
	beforeDelete   func()
	onCreateLayer  func()
	onUpdateLayer  func(text string)
}

func newFakeGateway(projects ...*models.Project) *fakeGateway {
	g := &fakeGateway{projects: map[string]*models.Project{}, calls: map[string]int{}}
	for _, p := range projects {
		g.projects[p.ID] = p.Clone()
	}
	return g
}

func (g *fakeGateway) count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *fakeGateway) hit(op string) {
	g.mu.Lock()
	g.calls[op]++
	g.mu.Unlock()
}

func (g *fakeGateway) id(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	return fmt.Sprintf("%s-%d", prefix, g.nextID)
}

func (g *fakeGateway) FetchProjectsByUser(ctx context.Context, userID string) ([]models.Project, error) {
	g.hit("FetchProjectsByUser")
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []models.Project
	for _, p := range g.projects {
		if p.UserID == userID {
			out = append(out, *p.Clone())
		}
	}
	return out, nil
}

func (g *fakeGateway) FetchProject(ctx context.Context, projectID string) (*models.Project, error) {
	g.hit("FetchProject")
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	if g.refreshErr != nil && g.count("UpdateProjectDetails") > 0 {
		return nil, g.refreshErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.projects[projectID]
	if !ok {
		return nil, &models.APIError{Message: "Project not found", Code: "NOT_FOUND", Status: 404}
	}
	return p.Clone(), nil
}

func (g *fakeGateway) CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	g.hit("CreateProject")
	p := &models.Project{
		ID:     g.id("p"),
		Title:  req.Title,
		UserID: req.UserID,
		Color:  req.GarmentColor,
		Size:   req.GarmentSize,
		Gender: req.GarmentGender,
	}
	g.mu.Lock()
	g.projects[p.ID] = p.Clone()
	g.mu.Unlock()
	return p, nil
}

func (g *fakeGateway) UpdateProjectDetails(ctx context.Context, projectID string, req models.UpdateProjectDetailsRequest) error {
	g.hit("UpdateProjectDetails")
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.projects[projectID]
	if !ok {
		return &models.APIError{Message: "Project not found", Status: 404}
	}
	if req.Status != nil {
		p.Status = models.ProjectStatus(*req.Status)
	}
	if req.PreviewURL != nil {
		p.PreviewURL = *req.PreviewURL
	}
	return nil
}

func (g *fakeGateway) DeleteProject(ctx context.Context, projectID string) error {
	g.hit("DeleteProject")
	if g.beforeDelete != nil {
		g.beforeDelete()
	}
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.mu.Lock()
	delete(g.projects, projectID)
	g.mu.Unlock()
	return nil
}

func (g *fakeGateway) CreateTextLayer(ctx context.Context, projectID string, d models.TextDetails) (models.Layer, error) {
	g.hit("CreateTextLayer")
	if g.onCreateLayer != nil {
		g.onCreateLayer()
	}
	if g.createLayerErr != nil {
		return models.Layer{}, g.createLayerErr
	}
	return models.NewTextLayer(g.id("l"), d), nil
}

func (g *fakeGateway) CreateImageLayer(ctx context.Context, projectID string, d models.ImageDetails) (models.Layer, error) {
	g.hit("CreateImageLayer")
	if g.createLayerErr != nil {
		return models.Layer{}, g.createLayerErr
	}
	return models.NewImageLayer(g.id("l"), d), nil
}

func (g *fakeGateway) UpdateTextLayerDetails(ctx context.Context, projectID, layerID string, d models.TextDetails) (models.Layer, error) {
	g.hit("UpdateTextLayerDetails")
	if g.onUpdateLayer != nil {
		g.onUpdateLayer(d.Text)
	}
	return models.NewTextLayer(layerID, d), nil
}

func (g *fakeGateway) UpdateImageLayerDetails(ctx context.Context, projectID, layerID string, d models.ImageDetails) (models.Layer, error) {
	g.hit("UpdateImageLayerDetails")
	return models.NewImageLayer(layerID, d), nil
}

func (g *fakeGateway) DeleteLayer(ctx context.Context, projectID, layerID string) error {
	g.hit("DeleteLayer")
	return nil
}

func (g *fakeGateway) UpdateLayerCoordinates(ctx context.Context, projectID, layerID string, c models.CoordinatesRequest) (models.Layer, error) {
	g.hit("UpdateLayerCoordinates")
	if g.coordsErr != nil {
		return models.Layer{}, g.coordsErr
	}
	l := models.NewTextLayer(layerID, models.TextDetails{Text: "server"})
	l.X, l.Y, l.Z = c.X, c.Y, c.Z
	return l, nil
}

type fakeCatalog struct {
	products  []models.Product
	listErr   error
	deleteErr error
	deleted   []string
}

func (c *fakeCatalog) ListProducts(ctx context.Context, projectID string) ([]models.Product, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.products, nil
}

func (c *fakeCatalog) DeleteProduct(ctx context.Context, productID string) error {
	c.deleted = append(c.deleted, productID)
	return c.deleteErr
}

type fakeRecorder struct {
	events []models.Event
}

func (r *fakeRecorder) RecordEvent(ctx context.Context, e models.Event) error {
	r.events = append(r.events, e)
	return nil
}

type fakeUploader struct {
	image models.UploadedImage
	err   error
}

func (u *fakeUploader) ProcessImageForLayer(ctx context.Context, userID, projectID string, upload models.ImageUpload) (models.UploadedImage, error) {
	return u.image, u.err
}

func textLayer(id string, z int) models.Layer {
	l := models.NewTextLayer(id, models.TextDetails{Text: id, FontColor: "#000000", FontFamily: "Arial", FontSize: 24})
	l.Z = z
	return l
}

func testProject(id string, status models.ProjectStatus, layers ...models.Layer) *models.Project {
	if layers == nil {
		layers = []models.Layer{}
	}
	return &models.Project{ID: id, Title: "Tee", UserID: testUserID, Status: status, Layers: layers}
}

type cleaningUploader struct {
	fakeUploader
	cleaned []string
	removed []string
	err     error
}

func (u *cleaningUploader) DeleteImage(ctx context.Context, storagePath string) error {
	u.removed = append(u.removed, storagePath)
	return u.err
}

func (u *cleaningUploader) DeleteProjectImages(ctx context.Context, userID, projectID string) error {
	u.cleaned = append(u.cleaned, userID+"/"+projectID)
	return u.err
}
