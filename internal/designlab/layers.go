package designlab

import (
	"context"
	"net/http"
	"net/url"

	"garment-designlab/internal/assembler"
	"garment-designlab/internal/models"
)

func layerPath(projectID, layerID string) string {
	return "/projects/" + url.PathEscape(projectID) + "/layers/" + url.PathEscape(layerID)
}

func (c *Client) CreateTextLayer(ctx context.Context, projectID string, details models.TextDetails) (models.Layer, error) {
	return c.sendLayer(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/texts",
		assembler.ToTextDetailsPayload(details))
}

func (c *Client) CreateImageLayer(ctx context.Context, projectID string, details models.ImageDetails) (models.Layer, error) {
	return c.sendLayer(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/images",
		assembler.ToImageDetailsPayload(details))
}

func (c *Client) UpdateTextLayerDetails(ctx context.Context, projectID, layerID string, details models.TextDetails) (models.Layer, error) {
	return c.sendLayer(ctx, http.MethodPut, layerPath(projectID, layerID)+"/text-details",
		assembler.ToTextDetailsPayload(details))
}

func (c *Client) UpdateImageLayerDetails(ctx context.Context, projectID, layerID string, details models.ImageDetails) (models.Layer, error) {
	return c.sendLayer(ctx, http.MethodPut, layerPath(projectID, layerID)+"/image-details",
		assembler.ToImageDetailsPayload(details))
}

func (c *Client) DeleteLayer(ctx context.Context, projectID, layerID string) error {
	return c.do(ctx, http.MethodDelete, layerPath(projectID, layerID), nil, nil, nil)
}

// UpdateLayerCoordinates persists x, y and z. Older servers do not have this
// endpoint and answer 404.
func (c *Client) UpdateLayerCoordinates(ctx context.Context, projectID, layerID string, coords models.CoordinatesRequest) (models.Layer, error) {
	return c.sendLayer(ctx, http.MethodPut, layerPath(projectID, layerID)+"/coordinates", coords)
}

func (c *Client) sendLayer(ctx context.Context, method, path string, body interface{}) (models.Layer, error) {
	var resp models.LayerResponse
	if err := c.do(ctx, method, path, nil, body, &resp); err != nil {
		return models.Layer{}, err
	}
	return assembler.ToLayerEntity(resp), nil
}
