package assembler

import "garment-designlab/internal/models"

func ToProductEntity(r models.ProductResponse) models.Product {
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
		CreatedAt:         r.CreatedAt.Time,
		UpdatedAt:         r.UpdatedAt.Time,
	}
}

func ToProductEntities(rs []models.ProductResponse) []models.Product {
	out := make([]models.Product, 0, len(rs))
	for _, r := range rs {
		out = append(out, ToProductEntity(r))
	}
	return out
}
