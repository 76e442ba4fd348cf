package models

import "time"

// Product is a catalog listing created when a project is published as a garment.
type Product struct {
	ID                string
	ProjectID         string
	PriceAmount       float64
	PriceCurrency     string
	Status            string
	ProjectTitle      string
	ProjectPreviewURL string
	UserID            string
	LikeCount         int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
