package designlab

import (
	"context"
	"net/http"
	"net/url"

	"garment-designlab/internal/assembler"
	"garment-designlab/internal/models"
)

func (c *Client) FetchProjectsByUser(ctx context.Context, userID string) ([]models.Project, error) {
	var resp []models.ProjectResponse
	query := url.Values{"userId": {userID}}
	if err := c.do(ctx, http.MethodGet, "/projects", query, nil, &resp); err != nil {
		return nil, err
	}
	return assembler.ToProjectEntities(resp), nil
}

func (c *Client) FetchProject(ctx context.Context, projectID string) (*models.Project, error) {
	var resp models.ProjectResponse
	if err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID), nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, models.NewInvalidResponseError("project %s: response has no id", projectID)
	}
	return assembler.ToProjectEntity(&resp), nil
}

func (c *Client) CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	var resp models.ProjectResponse
	if err := c.do(ctx, http.MethodPost, "/projects", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, models.NewInvalidResponseError("create project: response has no id")
	}
	return assembler.ToProjectEntity(&resp), nil
}

func (c *Client) UpdateProjectDetails(ctx context.Context, projectID string, req models.UpdateProjectDetailsRequest) error {
	return c.do(ctx, http.MethodPut, "/projects/"+url.PathEscape(projectID)+"/details", nil, req, nil)
}

func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(projectID), nil, nil, nil)
}
