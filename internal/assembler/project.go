// Package assembler maps between the Design Lab wire format and editor
// entities, and validates request payloads before they are sent.
package assembler

import (
	"garment-designlab/internal/models"
)

// ToProjectEntity returns nil for a nil response.
func ToProjectEntity(r *models.ProjectResponse) *models.Project {
	if r == nil {
		return nil
	}

	layers := make([]models.Layer, 0, len(r.Layers))
	for _, lr := range r.Layers {
		layers = append(layers, ToLayerEntity(lr))
	}

	return &models.Project{
		ID:         r.ID,
		Title:      r.Title,
		UserID:     r.UserID,
		PreviewURL: r.PreviewURL,
		Status:     models.ProjectStatus(r.Status),
		Color:      r.Color,
		Size:       r.Size,
		Gender:     r.Gender,
		Layers:     layers,
		CreatedAt:  r.CreatedAt.Time,
		UpdatedAt:  r.UpdatedAt.Time,
	}
}

func ToProjectEntities(rs []models.ProjectResponse) []models.Project {
	projects := make([]models.Project, 0, len(rs))
	for i := range rs {
		projects = append(projects, *ToProjectEntity(&rs[i]))
	}
	return projects
}

func ToProjectResponse(p *models.Project) *models.ProjectResponse {
	if p == nil {
		return nil
	}

	layers := make([]models.LayerResponse, 0, len(p.Layers))
	for _, l := range p.Layers {
		layers = append(layers, ToLayerResponse(l))
	}

	return &models.ProjectResponse{
		ID:         p.ID,
		Title:      p.Title,
		UserID:     p.UserID,
		PreviewURL: p.PreviewURL,
		Status:     string(p.Status),
		Color:      p.Color,
		Size:       p.Size,
		Gender:     p.Gender,
		Layers:     layers,
		CreatedAt:  models.NewTimestamp(p.CreatedAt),
		UpdatedAt:  models.NewTimestamp(p.UpdatedAt),
	}
}

func ToProjectResponses(ps []models.Project) []models.ProjectResponse {
	out := make([]models.ProjectResponse, 0, len(ps))
	for i := range ps {
		out = append(out, *ToProjectResponse(&ps[i]))
	}
	return out
}

func ToCreateProjectRequest(p *models.Project) models.CreateProjectRequest {
	return models.CreateProjectRequest{
		Title:         p.Title,
		UserID:        p.UserID,
		GarmentColor:  p.Color,
		GarmentSize:   p.Size,
		GarmentGender: p.Gender,
	}
}

// ToUpdateProjectDetailsRequest copies only the fields present in u.
func ToUpdateProjectDetailsRequest(u models.ProjectDetailsUpdate) models.UpdateProjectDetailsRequest {
	return models.UpdateProjectDetailsRequest{
		PreviewURL:    u.PreviewURL,
		Status:        u.Status,
		GarmentColor:  u.Color,
		GarmentSize:   u.Size,
		GarmentGender: u.Gender,
	}
}
