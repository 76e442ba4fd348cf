package models

import (
	"math"
	"sort"
	"strings"
	"time"
)

type LayerType string

const (
	LayerTypeText  LayerType = "TEXT"
	LayerTypeImage LayerType = "IMAGE"
)

// Defaults applied when a layer payload omits a field.
const (
	DefaultFontColor   = "#000000"
	DefaultFontFamily  = "Arial"
	DefaultFontSize    = 24
	DefaultImageWidth  = "100"
	DefaultImageHeight = "100"
	DefaultOpacity     = 1.0
)

// LayerDetails is the variant payload of a Layer. The set of implementations
// is closed: TextDetails, ImageDetails and UnknownDetails.
type LayerDetails interface {
	Type() LayerType
	isLayerDetails()
}

type TextDetails struct {
	Text         string
	FontColor    string
	FontFamily   string
	FontSize     int
	IsBold       bool
	IsItalic     bool
	IsUnderlined bool
}

func (TextDetails) Type() LayerType { return LayerTypeText }
func (TextDetails) isLayerDetails() {}

// ImageDetails keeps width and height as numeric strings, the way the
// Design Lab API stores them.
type ImageDetails struct {
	ImageURL string
	Width    string
	Height   string
}

func (ImageDetails) Type() LayerType { return LayerTypeImage }
func (ImageDetails) isLayerDetails() {}

// ScaleProportionally returns a copy resized to newWidth keeping the aspect
// ratio. Details with unparseable dimensions are returned unchanged.
func (d ImageDetails) ScaleProportionally(newWidth int) ImageDetails {
	w, werr := ParseDimension(d.Width)
	h, herr := ParseDimension(d.Height)
	if werr != nil || herr != nil || w == 0 || newWidth <= 0 {
		return d
	}
	ratio := float64(h) / float64(w)
	d.Width = FormatDimension(newWidth)
	d.Height = FormatDimension(int(math.Round(float64(newWidth) * ratio)))
	return d
}

// UnknownDetails marks a layer whose wire type was not recognized.
type UnknownDetails struct {
	RawType string
}

func (d UnknownDetails) Type() LayerType { return LayerType(d.RawType) }
func (UnknownDetails) isLayerDetails()   {}

type Layer struct {
	ID        string
	X         int
	Y         int
	Z         int
	Opacity   float64
	IsVisible bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Details   LayerDetails
}

func NewTextLayer(id string, details TextDetails) Layer {
	return Layer{ID: id, Opacity: DefaultOpacity, IsVisible: true, Details: details}
}

func NewImageLayer(id string, details ImageDetails) Layer {
	return Layer{ID: id, Opacity: DefaultOpacity, IsVisible: true, Details: details}
}

func (l Layer) Type() LayerType {
	if l.Details == nil {
		return ""
	}
	return l.Details.Type()
}

func (l Layer) IsText() bool  { return l.Type() == LayerTypeText }
func (l Layer) IsImage() bool { return l.Type() == LayerTypeImage }

func (l Layer) TextDetails() (TextDetails, bool) {
	d, ok := l.Details.(TextDetails)
	return d, ok
}

func (l Layer) ImageDetails() (ImageDetails, bool) {
	d, ok := l.Details.(ImageDetails)
	return d, ok
}

// SetOpacity stores v clamped to [0,1].
func (l *Layer) SetOpacity(v float64) {
	l.Opacity = ClampOpacity(v)
}

func (l *Layer) SetPosition(x, y int) {
	l.X = x
	l.Y = y
}

// ClampOpacity maps any float into [0,1]. NaN becomes 0.
func ClampOpacity(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// DisplayName is the label shown in layer panels.
func DisplayName(l Layer) string {
	switch d := l.Details.(type) {
	case TextDetails:
		runes := []rune(d.Text)
		if len(runes) > 20 {
			return "Text: " + string(runes[:20]) + "..."
		}
		return "Text: " + d.Text
	case ImageDetails:
		return "Image Layer"
	case UnknownDetails:
		if d.RawType == "" {
			return "Unknown Layer"
		}
		return strings.ToUpper(d.RawType) + " Layer"
	}
	return "Unknown Layer"
}

// CloneLayers returns a copy of layers that shares no backing array.
func CloneLayers(layers []Layer) []Layer {
	if layers == nil {
		return nil
	}
	out := make([]Layer, len(layers))
	copy(out, layers)
	return out
}

// SortLayersByZ returns a copy ordered by ascending Z. Equal Z values keep
// their relative order.
func SortLayersByZ(layers []Layer) []Layer {
	sorted := CloneLayers(layers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Z < sorted[j].Z
	})
	return sorted
}

func FilterVisibleLayers(layers []Layer) []Layer {
	visible := make([]Layer, 0, len(layers))
	for _, l := range layers {
		if l.IsVisible {
			visible = append(visible, l)
		}
	}
	return visible
}

// ZBounds returns the lowest and highest Z in layers, or 0,0 when empty.
func ZBounds(layers []Layer) (minZ, maxZ int) {
	for i, l := range layers {
		if i == 0 || l.Z < minZ {
			minZ = l.Z
		}
		if i == 0 || l.Z > maxZ {
			maxZ = l.Z
		}
	}
	return minZ, maxZ
}

func FindLayer(layers []Layer, id string) (int, bool) {
	for i, l := range layers {
		if l.ID == id {
			return i, true
		}
	}
	return -1, false
}
