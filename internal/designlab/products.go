package designlab

import (
	"context"
	"net/http"
	"net/url"

	"garment-designlab/internal/assembler"
	"garment-designlab/internal/models"
)

// ListProducts returns catalog products created from projectID. An empty
// projectID lists every product visible to the caller.
func (c *Client) ListProducts(ctx context.Context, projectID string) ([]models.Product, error) {
	var query url.Values
	if projectID != "" {
		query = url.Values{"projectId": {projectID}}
	}
	var resp []models.ProductResponse
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &resp); err != nil {
		return nil, err
	}
	return assembler.ToProductEntities(resp), nil
}

func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(productID), nil, nil, nil)
}
