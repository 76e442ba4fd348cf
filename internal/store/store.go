// Package store keeps the editor's in-memory project and layer state in step
// with the Design Lab API.
//
// Every operation returns an error instead of panicking, and keeps the
// failure message for LastError. The store mutex guards state
// only; it is never held across a remote call, so concurrent operations run
// independently and the last response to arrive wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"garment-designlab/internal/logging"
	"garment-designlab/internal/models"
)

// Gateway is the remote Design Lab API.
type Gateway interface {
	FetchProjectsByUser(ctx context.Context, userID string) ([]models.Project, error)
	FetchProject(ctx context.Context, projectID string) (*models.Project, error)
	CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error)
	UpdateProjectDetails(ctx context.Context, projectID string, req models.UpdateProjectDetailsRequest) error
	DeleteProject(ctx context.Context, projectID string) error
	CreateTextLayer(ctx context.Context, projectID string, details models.TextDetails) (models.Layer, error)
	CreateImageLayer(ctx context.Context, projectID string, details models.ImageDetails) (models.Layer, error)
	UpdateTextLayerDetails(ctx context.Context, projectID, layerID string, details models.TextDetails) (models.Layer, error)
	UpdateImageLayerDetails(ctx context.Context, projectID, layerID string, details models.ImageDetails) (models.Layer, error)
	DeleteLayer(ctx context.Context, projectID, layerID string) error
	UpdateLayerCoordinates(ctx context.Context, projectID, layerID string, coords models.CoordinatesRequest) (models.Layer, error)
}

// ProductCatalog lists and removes catalog products built from projects.
type ProductCatalog interface {
	ListProducts(ctx context.Context, projectID string) ([]models.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// ImageUploader stores an image file and sizes it for the canvas.
type ImageUploader interface {
	ProcessImageForLayer(ctx context.Context, userID, projectID string, upload models.ImageUpload) (models.UploadedImage, error)
}

// ImageCleaner is implemented by uploaders that can remove stored images,
// either a single orphaned file or everything of a deleted project.
type ImageCleaner interface {
	DeleteImage(ctx context.Context, storagePath string) error
	DeleteProjectImages(ctx context.Context, userID, projectID string) error
}

// EventRecorder keeps failures the store deliberately swallows.
type EventRecorder interface {
	RecordEvent(ctx context.Context, event models.Event) error
}

type Phase string

const (
	PhaseEmpty   Phase = "empty"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseError   Phase = "error"
)

type ChangeKind string

const (
	ChangeProject      ChangeKind = "project"
	ChangeProjects     ChangeKind = "projects"
	ChangeLayerAdded   ChangeKind = "layer_added"
	ChangeLayerUpdated ChangeKind = "layer_updated"
	ChangeLayerRemoved ChangeKind = "layer_removed"
	ChangeSelection    ChangeKind = "selection"
)

// Change is sent to subscribers after state has been merged.
type Change struct {
	Kind      ChangeKind
	ProjectID string
	LayerID   string
}

type options struct {
	catalog  ProductCatalog
	uploader ImageUploader
	recorder EventRecorder
}

type Option func(*options)

func WithCatalog(c ProductCatalog) Option {
	return func(o *options) { o.catalog = c }
}

func WithUploader(u ImageUploader) Option {
	return func(o *options) { o.uploader = u }
}

func WithRecorder(r EventRecorder) Option {
	return func(o *options) { o.recorder = r }
}

// base carries the bookkeeping shared by ProjectStore and LayerStore.
type base struct {
	mu        sync.RWMutex
	userID    string
	inflight  int
	lastErr   string
	recorder  EventRecorder
	listeners []func(Change)
}

func (b *base) begin() {
	b.mu.Lock()
	b.inflight++
	b.lastErr = ""
	b.mu.Unlock()
}

// finish must be deferred directly so that recover sees the panic.
func (b *base) finish(ctx context.Context, op string, errp *error) {
	if r := recover(); r != nil {
		*errp = fmt.Errorf("%s: unexpected panic: %v", op, r)
	}

	b.mu.Lock()
	b.inflight--
	if *errp != nil {
		b.lastErr = ErrorMessage(*errp)
	}
	b.mu.Unlock()

	if *errp != nil {
		b.logger(ctx).Errorf(op, "%v", *errp)
	}
}

// fail records err for a local operation that does not toggle loading.
func (b *base) fail(ctx context.Context, op string, err error) error {
	b.mu.Lock()
	b.lastErr = ErrorMessage(err)
	b.mu.Unlock()
	b.logger(ctx).Warnf(op, "%v", err)
	return err
}

func (b *base) logger(ctx context.Context) *logging.Logger {
	return logging.FromContext(ctx).WithUser(b.userID)
}

func (b *base) record(ctx context.Context, op string, level models.EventLevel, projectID, layerID, message string) {
	if b.recorder == nil {
		return
	}
	event := models.NewEvent(op, level, message)
	event.UserID = b.userID
	event.ProjectID = projectID
	event.LayerID = layerID
	if err := b.recorder.RecordEvent(ctx, event); err != nil {
		b.logger(ctx).Errorf(op, "failed to record event: %v", err)
	}
}

// Subscribe registers fn to be called after every committed change.
func (b *base) Subscribe(fn func(Change)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

func (b *base) notify(changes ...Change) {
	b.mu.RLock()
	listeners := make([]func(Change), len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, c := range changes {
		for _, fn := range listeners {
			fn(c)
		}
	}
}

func (b *base) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.inflight > 0
}

// LastError is the message of the most recent failure, or empty.
func (b *base) LastError() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

func (b *base) ClearError() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastErr = ""
}

func (b *base) UserID() string {
	return b.userID
}

// ErrorMessage is the text shown to the user for err: the backend message
// for API errors, the rule for validation errors.
func ErrorMessage(err error) string {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

func layerNotFound(id string) error {
	return fmt.Errorf("%w: %s", models.ErrLayerNotFound, id)
}
