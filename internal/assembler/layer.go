package assembler

import (
	"encoding/json"
	"log"
	"strings"

	"garment-designlab/internal/models"
)

// ToLayerEntity dispatches on the wire type, ignoring case. An unknown or
// missing type yields a layer with UnknownDetails and a logged warning.
func ToLayerEntity(r models.LayerResponse) models.Layer {
	layer := models.Layer{
		ID:        r.ID,
		X:         r.X,
		Y:         r.Y,
		Z:         r.Z,
		Opacity:   models.DefaultOpacity,
		IsVisible: true,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
	if r.Opacity != nil {
		layer.SetOpacity(*r.Opacity)
	}
	if r.IsVisible != nil {
		layer.IsVisible = *r.IsVisible
	}

	switch models.LayerType(strings.ToUpper(strings.TrimSpace(r.Type))) {
	case models.LayerTypeText:
		var payload models.TextDetailsPayload
		decodeDetails(r, &payload)
		layer.Details = NormalizeTextDetails(ToTextDetails(payload))
	case models.LayerTypeImage:
		var payload models.ImageDetailsPayload
		decodeDetails(r, &payload)
		layer.Details = NormalizeImageDetails(ToImageDetails(payload))
	default:
		log.Printf("Warning: unknown layer type %q for layer %s, keeping it as a generic layer", r.Type, r.ID)
		layer.Details = models.UnknownDetails{RawType: r.Type}
	}

	return layer
}

func decodeDetails(r models.LayerResponse, dst interface{}) {
	if len(r.Details) == 0 || string(r.Details) == "null" {
		return
	}
	if err := json.Unmarshal(r.Details, dst); err != nil {
		log.Printf("Warning: failed to decode %s details for layer %s: %v", r.Type, r.ID, err)
	}
}

// ToLayerResponse is the inverse of ToLayerEntity.
func ToLayerResponse(l models.Layer) models.LayerResponse {
	opacity := l.Opacity
	visible := l.IsVisible
	r := models.LayerResponse{
		ID:        l.ID,
		X:         l.X,
		Y:         l.Y,
		Z:         l.Z,
		Opacity:   &opacity,
		IsVisible: &visible,
		Type:      string(l.Type()),
		CreatedAt: models.NewTimestamp(l.CreatedAt),
		UpdatedAt: models.NewTimestamp(l.UpdatedAt),
	}

	var payload interface{}
	switch d := l.Details.(type) {
	case models.TextDetails:
		payload = ToTextDetailsPayload(d)
	case models.ImageDetails:
		payload = ToImageDetailsPayload(d)
	default:
		return r
	}
	if raw, err := json.Marshal(payload); err == nil {
		r.Details = raw
	}
	return r
}

func ToLayerResponses(layers []models.Layer) []models.LayerResponse {
	out := make([]models.LayerResponse, 0, len(layers))
	for _, l := range layers {
		out = append(out, ToLayerResponse(l))
	}
	return out
}

func ToTextDetailsPayload(d models.TextDetails) models.TextDetailsPayload {
	return models.TextDetailsPayload{
		Text:         d.Text,
		FontColor:    d.FontColor,
		FontFamily:   d.FontFamily,
		FontSize:     d.FontSize,
		IsBold:       d.IsBold,
		IsItalic:     d.IsItalic,
		IsUnderlined: d.IsUnderlined,
	}
}

func ToTextDetails(p models.TextDetailsPayload) models.TextDetails {
	return models.TextDetails{
		Text:         p.Text,
		FontColor:    p.FontColor,
		FontFamily:   p.FontFamily,
		FontSize:     p.FontSize,
		IsBold:       p.IsBold,
		IsItalic:     p.IsItalic,
		IsUnderlined: p.IsUnderlined,
	}
}

func ToImageDetailsPayload(d models.ImageDetails) models.ImageDetailsPayload {
	return models.ImageDetailsPayload{
		ImageURL: d.ImageURL,
		Width:    models.NumericString(d.Width),
		Height:   models.NumericString(d.Height),
	}
}

func ToImageDetails(p models.ImageDetailsPayload) models.ImageDetails {
	return models.ImageDetails{
		ImageURL: p.ImageURL,
		Width:    p.Width.String(),
		Height:   p.Height.String(),
	}
}

func ToCoordinatesRequest(l models.Layer) models.CoordinatesRequest {
	return models.CoordinatesRequest{X: l.X, Y: l.Y, Z: l.Z}
}

func NormalizeTextDetails(d models.TextDetails) models.TextDetails {
	if d.FontColor == "" {
		d.FontColor = models.DefaultFontColor
	}
	if d.FontFamily == "" {
		d.FontFamily = models.DefaultFontFamily
	}
	if d.FontSize == 0 {
		d.FontSize = models.DefaultFontSize
	}
	return d
}

func NormalizeImageDetails(d models.ImageDetails) models.ImageDetails {
	if strings.TrimSpace(d.Width) == "" {
		d.Width = models.DefaultImageWidth
	}
	if strings.TrimSpace(d.Height) == "" {
		d.Height = models.DefaultImageHeight
	}
	return d
}
