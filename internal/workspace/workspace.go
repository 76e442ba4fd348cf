// Package workspace owns the per-user editor state. A Workspace is built when
// a user signs in and dropped when they sign out or the API rejects their
// token.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"garment-designlab/internal/designlab"
	"garment-designlab/internal/models"
	"garment-designlab/internal/session"
	"garment-designlab/internal/store"
)

// Workspace is everything one signed-in user edits with.
type Workspace struct {
	Session  *session.Session
	Client   *designlab.Client
	Projects *store.ProjectStore
	Layers   *store.LayerStore
	Form     *store.ProjectForm
}

type Config struct {
	APIBaseURL string
	APITimeout time.Duration
}

type Manager struct {
	cfg      Config
	sessions session.Store
	catalog  store.ProductCatalog
	uploader store.ImageUploader
	recorder store.EventRecorder
	now      func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

type Option func(*Manager)

// WithCatalog replaces the Design Lab products endpoints as the catalog
// used for cascading deletes.
func WithCatalog(c store.ProductCatalog) Option {
	return func(m *Manager) { m.catalog = c }
}

func WithUploader(u store.ImageUploader) Option {
	return func(m *Manager) { m.uploader = u }
}

func WithRecorder(r store.EventRecorder) Option {
	return func(m *Manager) { m.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(cfg Config, sessions session.Store, opts ...Option) *Manager {
	m := &Manager{
		cfg:        cfg,
		sessions:   sessions,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open starts a workspace for the user the token names, replacing any
// workspace that user already had.
func (m *Manager) Open(ctx context.Context, token string) (*Workspace, error) {
	s, err := session.FromToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrNoSession, err)
	}
	if s.Expired(m.now()) {
		return nil, fmt.Errorf("%w: token expired", models.ErrNoSession)
	}
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	ws := m.build(s)
	m.mu.Lock()
	m.workspaces[s.UserID] = ws
	m.mu.Unlock()

	log.Printf("Workspace opened for user %s", s.UserID)
	return ws, nil
}

// Get returns the user's workspace, rebuilding it from the stored session
// when this process has not seen the user yet.
func (m *Manager) Get(ctx context.Context, userID string) (*Workspace, error) {
	m.mu.Lock()
	ws, ok := m.workspaces[userID]
	m.mu.Unlock()
	if ok {
		if !ws.Session.Expired(m.now()) {
			return ws, nil
		}
		m.Close(ctx, userID)
		return nil, fmt.Errorf("%w: session expired", models.ErrNoSession)
	}

	s, err := m.sessions.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, models.ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if s.Expired(m.now()) {
		m.Close(ctx, userID)
		return nil, fmt.Errorf("%w: session expired", models.ErrNoSession)
	}

	m.mu.Lock()
	// Another request may have rebuilt it while the session was loading.
	if existing, ok := m.workspaces[userID]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	ws = m.build(s)
	m.workspaces[userID] = ws
	m.mu.Unlock()
	return ws, nil
}

// Close drops the user's workspace and stored session.
func (m *Manager) Close(ctx context.Context, userID string) {
	m.mu.Lock()
	delete(m.workspaces, userID)
	m.mu.Unlock()

	if err := m.sessions.Delete(ctx, userID); err != nil {
		log.Printf("Warning: Failed to delete session for user %s: %v", userID, err)
	}
}

// closeIfCurrent drops ws only while it is still the user's workspace, so a
// late 401 from a replaced client leaves the newer session alone.
func (m *Manager) closeIfCurrent(ctx context.Context, ws *Workspace) {
	userID := ws.Session.UserID
	m.mu.Lock()
	if m.workspaces[userID] != ws {
		m.mu.Unlock()
		log.Printf("Warning: Ignoring rejected token for replaced workspace of user %s", userID)
		return
	}
	delete(m.workspaces, userID)
	m.mu.Unlock()

	if err := m.sessions.Delete(ctx, userID); err != nil {
		log.Printf("Warning: Failed to delete session for user %s: %v", userID, err)
	}
}

func (m *Manager) build(s *session.Session) *Workspace {
	userID := s.UserID
	ws := &Workspace{Session: s}
	opts := []designlab.Option{
		designlab.WithUnauthorizedHandler(func() {
			log.Printf("Warning: Design Lab API rejected token for user %s, closing workspace", userID)
			m.closeIfCurrent(context.Background(), ws)
		}),
	}
	if m.cfg.APITimeout > 0 {
		opts = append(opts, designlab.WithTimeout(m.cfg.APITimeout))
	}
	client := designlab.NewClient(m.cfg.APIBaseURL, s, opts...)

	var catalog store.ProductCatalog = client
	if m.catalog != nil {
		catalog = m.catalog
	}

	storeOpts := []store.Option{store.WithCatalog(catalog)}
	if m.uploader != nil {
		storeOpts = append(storeOpts, store.WithUploader(m.uploader))
	}
	if m.recorder != nil {
		storeOpts = append(storeOpts, store.WithRecorder(m.recorder))
	}

	ws.Client = client
	ws.Projects = store.NewProjectStore(client, userID, storeOpts...)
	ws.Layers = store.NewLayerStore(client, userID, storeOpts...)
	ws.Form = store.NewProjectForm(store.DefaultFormOptions())
	ws.syncStores()
	return ws
}

// syncStores keeps the layer panel and the current project in step. Layer
// edits flow both ways; loading or clearing a project rebinds the panel.
// SyncLayers does not notify, so changes never echo back.
func (ws *Workspace) syncStores() {
	ws.Projects.Subscribe(func(c store.Change) {
		switch c.Kind {
		case store.ChangeProject:
			if current := ws.Projects.CurrentProject(); current != nil {
				ws.Layers.LoadFromProject(current)
			} else if c.ProjectID == "" || c.ProjectID == ws.Layers.ProjectID() {
				ws.Layers.ClearLayers()
			}
		case store.ChangeLayerAdded, store.ChangeLayerUpdated, store.ChangeLayerRemoved:
			if current := ws.Projects.CurrentProject(); current != nil && current.ID == c.ProjectID {
				ws.Layers.SyncLayers(c.ProjectID, current.Layers)
			}
		}
	})
	ws.Layers.Subscribe(func(c store.Change) {
		switch c.Kind {
		case store.ChangeLayerAdded, store.ChangeLayerUpdated, store.ChangeLayerRemoved:
			if c.ProjectID != "" && c.ProjectID == ws.Layers.ProjectID() {
				ws.Projects.SyncLayers(c.ProjectID, ws.Layers.Layers())
			}
		}
	})
}
