package supabase

import (
	"context"
	"fmt"
	"time"

	"garment-designlab/internal/models"
)

const productsTable = "products"

// ProductRow is a row of the products table.
type ProductRow struct {
	ID                string    `json:"id"`
	ProjectID         string    `json:"project_id"`
	PriceAmount       float64   `json:"price_amount"`
	PriceCurrency     string    `json:"price_currency"`
	Status            string    `json:"status"`
	ProjectTitle      string    `json:"project_title"`
	ProjectPreviewURL string    `json:"project_preview_url"`
	UserID            string    `json:"user_id"`
	LikeCount         int       `json:"like_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (r ProductRow) ToProduct() models.Product {
	return models.Product{
		ID:                r.ID,
		ProjectID:         r.ProjectID,
		PriceAmount:       r.PriceAmount,
		PriceCurrency:     r.PriceCurrency,
		Status:            r.Status,
		ProjectTitle:      r.ProjectTitle,
		ProjectPreviewURL: r.ProjectPreviewURL,
		UserID:            r.UserID,
		LikeCount:         r.LikeCount,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// Catalog reads and deletes catalog products straight from the Supabase
// products table.
type Catalog struct {
	client *Client
}

func NewCatalog(client *Client) *Catalog {
	return &Catalog{client: client}
}

func (c *Catalog) ListProducts(ctx context.Context, projectID string) ([]models.Product, error) {
	var rows []ProductRow
	_, err := c.client.Supabase.From(productsTable).
		Select("*", "", false).
		Eq("project_id", projectID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for project %s: %w", projectID, err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, r.ToProduct())
	}
	return products, nil
}

func (c *Catalog) DeleteProduct(ctx context.Context, productID string) error {
	_, _, err := c.client.Supabase.From(productsTable).
		Delete("", "").
		Eq("id", productID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", productID, err)
	}
	return nil
}
