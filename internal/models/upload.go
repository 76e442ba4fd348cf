package models

// ImageUpload is a raw image file destined for an image layer.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
	// Canvas point the layer is centred on. Zero means the default (100,100).
	CenterX int
	CenterY int
}

// UploadedImage is a stored image sized and placed for the canvas.
type UploadedImage struct {
	ImageURL       string `json:"imageUrl"`
	StoragePath    string `json:"storagePath"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	OriginalWidth  int    `json:"originalWidth"`
	OriginalHeight int    `json:"originalHeight"`
	X              int    `json:"x"`
	Y              int    `json:"y"`
}

func (u UploadedImage) ImageDetails() ImageDetails {
	return ImageDetails{
		ImageURL: u.ImageURL,
		Width:    FormatDimension(u.Width),
		Height:   FormatDimension(u.Height),
	}
}
