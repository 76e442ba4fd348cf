package models

import (
	"strings"
	"time"
)

type ProjectStatus string

const (
	ProjectStatusBlueprint ProjectStatus = "Blueprint"
	ProjectStatusGarment   ProjectStatus = "Garment"
	ProjectStatusTemplate  ProjectStatus = "Template"
)

// Is compares statuses ignoring case; the API has sent both "GARMENT" and "Garment".
func (s ProjectStatus) Is(other ProjectStatus) bool {
	return strings.EqualFold(string(s), string(other))
}

func (s ProjectStatus) IsGarment() bool { return s.Is(ProjectStatusGarment) }

// Project is a user's garment design. Layers are unordered; use
// LayersSortedByZ for drawing order.
type Project struct {
	ID         string
	Title      string
	UserID     string
	PreviewURL string
	Status     ProjectStatus
	Color      string
	Size       string
	Gender     string
	Layers     []Layer
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewDraftProject builds an unsaved project with no id and no layers.
func NewDraftProject(title, userID, color, size, gender string) *Project {
	return &Project{
		Title:  title,
		UserID: userID,
		Status: ProjectStatusBlueprint,
		Color:  color,
		Size:   size,
		Gender: gender,
		Layers: []Layer{},
	}
}

func (p *Project) IsPersisted() bool {
	return p != nil && p.ID != ""
}

func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	c.Layers = CloneLayers(p.Layers)
	return &c
}

func (p *Project) HasLayers() bool {
	return p != nil && len(p.Layers) > 0
}

func (p *Project) Layer(id string) (Layer, bool) {
	if p == nil {
		return Layer{}, false
	}
	i, ok := FindLayer(p.Layers, id)
	if !ok {
		return Layer{}, false
	}
	return p.Layers[i], true
}

func (p *Project) LayersSortedByZ() []Layer {
	if p == nil {
		return []Layer{}
	}
	return SortLayersByZ(p.Layers)
}

func (p *Project) VisibleLayers() []Layer {
	if p == nil {
		return []Layer{}
	}
	return FilterVisibleLayers(p.Layers)
}

func (p *Project) AddLayer(l Layer) {
	p.Layers = append(p.Layers, l)
}

// ReplaceLayer swaps the layer with the same id in place.
func (p *Project) ReplaceLayer(l Layer) bool {
	i, ok := FindLayer(p.Layers, l.ID)
	if !ok {
		return false
	}
	p.Layers[i] = l
	return true
}

func (p *Project) RemoveLayer(id string) bool {
	i, ok := FindLayer(p.Layers, id)
	if !ok {
		return false
	}
	p.Layers = append(p.Layers[:i:i], p.Layers[i+1:]...)
	return true
}
