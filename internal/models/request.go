package models

// Request bodies sent to the Design Lab API. Field names are camelCase.

type CreateProjectRequest struct {
	Title         string `json:"title"`
	UserID        string `json:"userId"`
	GarmentColor  string `json:"garmentColor"`
	GarmentSize   string `json:"garmentSize"`
	GarmentGender string `json:"garmentGender"`
}

// UpdateProjectDetailsRequest carries only the fields being changed.
type UpdateProjectDetailsRequest struct {
	PreviewURL    *string `json:"previewUrl,omitempty"`
	Status        *string `json:"status,omitempty"`
	GarmentColor  *string `json:"garmentColor,omitempty"`
	GarmentSize   *string `json:"garmentSize,omitempty"`
	GarmentGender *string `json:"garmentGender,omitempty"`
}

func (r UpdateProjectDetailsRequest) IsEmpty() bool {
	return r.PreviewURL == nil && r.Status == nil && r.GarmentColor == nil &&
		r.GarmentSize == nil && r.GarmentGender == nil
}

type TextDetailsPayload struct {
	Text         string `json:"text"`
	FontColor    string `json:"fontColor"`
	FontFamily   string `json:"fontFamily"`
	FontSize     int    `json:"fontSize"`
	IsBold       bool   `json:"isBold"`
	IsItalic     bool   `json:"isItalic"`
	IsUnderlined bool   `json:"isUnderlined"`
}

type ImageDetailsPayload struct {
	ImageURL string        `json:"imageUrl"`
	Width    NumericString `json:"width"`
	Height   NumericString `json:"height"`
}

type CoordinatesRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// ProjectDetailsUpdate is the editor-side form of a details change, using
// the entity field names.
type ProjectDetailsUpdate struct {
	ProjectID  string  `json:"projectId"`
	PreviewURL *string `json:"previewUrl,omitempty"`
	Status     *string `json:"status,omitempty"`
	Color      *string `json:"color,omitempty"`
	Size       *string `json:"size,omitempty"`
	Gender     *string `json:"gender,omitempty"`
}

// LayerPosition is a local-only change to placement and opacity. Nil fields
// are left untouched.
type LayerPosition struct {
	X       *int     `json:"x,omitempty"`
	Y       *int     `json:"y,omitempty"`
	Z       *int     `json:"z,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
}

// Editor HTTP request bodies.

type OpenSessionRequest struct {
	Token string `json:"token,omitempty"`
}

type OpacityRequest struct {
	Opacity float64 `json:"opacity"`
}

type VisibilityRequest struct {
	IsVisible bool `json:"isVisible"`
}

type SelectLayerRequest struct {
	LayerID string `json:"layerId"`
}
