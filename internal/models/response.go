package models

import "encoding/json"

// Response bodies exchanged with the Design Lab API and returned by the
// editor endpoints.

type ProjectResponse struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	UserID     string          `json:"userId"`
	PreviewURL string          `json:"previewUrl"`
	Status     string          `json:"status"`
	Color      string          `json:"color"`
	Size       string          `json:"size"`
	Gender     string          `json:"gender"`
	Layers     []LayerResponse `json:"layers"`
	CreatedAt  Timestamp       `json:"createdAt"`
	UpdatedAt  Timestamp       `json:"updatedAt"`
}

// LayerResponse keeps details raw until the type is known.
type LayerResponse struct {
	ID        string          `json:"id"`
	X         int             `json:"x"`
	Y         int             `json:"y"`
	Z         int             `json:"z"`
	Opacity   *float64        `json:"opacity,omitempty"`
	IsVisible *bool           `json:"isVisible,omitempty"`
	Type      string          `json:"type"`
	CreatedAt Timestamp       `json:"createdAt"`
	UpdatedAt Timestamp       `json:"updatedAt"`
	Details   json.RawMessage `json:"details,omitempty"`
}

type ProductResponse struct {
	ID                string    `json:"id"`
	ProjectID         string    `json:"projectId"`
	PriceAmount       float64   `json:"priceAmount"`
	PriceCurrency     string    `json:"priceCurrency"`
	Status            string    `json:"status"`
	ProjectTitle      string    `json:"projectTitle"`
	ProjectPreviewURL string    `json:"projectPreviewUrl"`
	UserID            string    `json:"userId"`
	LikeCount         int       `json:"likeCount"`
	CreatedAt         Timestamp `json:"createdAt"`
	UpdatedAt         Timestamp `json:"updatedAt"`
}

// ErrorResponse is both the editor's error body and the shape of Design Lab
// API failures (message, error code, status, timestamp).
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Status    int    `json:"status,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// EditorSnapshot is the render state of one user's editor.
type EditorSnapshot struct {
	Project         *ProjectResponse  `json:"project"`
	Projects        []ProjectResponse `json:"projects"`
	SelectedLayerID string            `json:"selectedLayerId,omitempty"`
	SortedLayers    []LayerResponse   `json:"sortedLayers"`
	VisibleLayerIDs []string          `json:"visibleLayerIds"`
	Phase           string            `json:"phase"`
	Loading         bool              `json:"loading"`
	Error           string            `json:"error,omitempty"`
	LayerPanel      *LayerPanel       `json:"layerPanel,omitempty"`
}

// LayerPanel is the layer list bound to one project by id.
type LayerPanel struct {
	ProjectID       string          `json:"projectId"`
	SelectedLayerID string          `json:"selectedLayerId,omitempty"`
	SortedLayers    []LayerResponse `json:"sortedLayers"`
	VisibleLayerIDs []string        `json:"visibleLayerIds"`
	Loading         bool            `json:"loading"`
	Error           string          `json:"error,omitempty"`
}

type SessionResponse struct {
	UserID    string `json:"userId"`
	Username  string `json:"username,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

type UploadResponse struct {
	Image    UploadedImage  `json:"image"`
	Snapshot EditorSnapshot `json:"snapshot"`
}

type EventResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId,omitempty"`
	LayerID   string    `json:"layerId,omitempty"`
	Operation string    `json:"operation"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt Timestamp `json:"createdAt"`
}

// FormOptionsResponse feeds the create-project dialog.
type FormOptionsResponse struct {
	Options  interface{}       `json:"options"`
	Defaults map[string]string `json:"defaults"`
	Colors   []GarmentColor    `json:"colors"`
}
