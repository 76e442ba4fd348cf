package assembler_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"garment-designlab/internal/assembler"
	"garment-designlab/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectJSON = `{
	"id": "p-1",
	"title": "Tee",
	"userId": "11111111-1111-1111-1111-111111111111",
	"previewUrl": "",
	"status": "Blueprint",
	"color": "Black",
	"size": "M",
	"gender": "Unisex",
	"createdAt": "2024-05-01T10:00:00Z",
	"updatedAt": "2024-05-01T10:00:00",
	"layers": [
		{"id": "l-1", "x": 10, "y": 20, "z": 2, "type": "text",
		 "details": {"text": "Hi", "fontSize": 32, "fontColor": "#FF0000"}},
		{"id": "l-2", "x": 0, "y": 0, "z": 1, "opacity": 0.5, "isVisible": false, "type": "IMAGE",
		 "details": {"imageUrl": "https://cdn.example.com/a.png", "width": 150, "height": "80"}},
		{"id": "l-3", "type": "STICKER", "details": {"emoji": "x"}}
	]
}`

func TestToProjectEntity_FromWire(t *testing.T) {
	var resp models.ProjectResponse
	require.NoError(t, json.Unmarshal([]byte(projectJSON), &resp))

	p := assembler.ToProjectEntity(&resp)
	require.NotNil(t, p)
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, models.ProjectStatusBlueprint, p.Status)
	assert.Equal(t, "Black", p.Color)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), p.CreatedAt.UTC())
	require.Len(t, p.Layers, 3)

	text, ok := p.Layers[0].TextDetails()
	require.True(t, ok)
	assert.Equal(t, "Hi", text.Text)
	assert.Equal(t, 32, text.FontSize)
	assert.Equal(t, "Arial", text.FontFamily)
	assert.Equal(t, 1.0, p.Layers[0].Opacity)
	assert.True(t, p.Layers[0].IsVisible)

	img, ok := p.Layers[1].ImageDetails()
	require.True(t, ok)
	assert.Equal(t, "150", img.Width)
	assert.Equal(t, "80", img.Height)
	assert.Equal(t, 0.5, p.Layers[1].Opacity)
	assert.False(t, p.Layers[1].IsVisible)

	assert.Equal(t, models.UnknownDetails{RawType: "STICKER"}, p.Layers[2].Details)
	assert.Equal(t, "STICKER Layer", models.DisplayName(p.Layers[2]))
}

func TestToProjectEntity_Nil(t *testing.T) {
	assert.Nil(t, assembler.ToProjectEntity(nil))
	assert.Nil(t, assembler.ToProjectResponse(nil))
}

func TestToLayerEntity_ClampsOpacity(t *testing.T) {
	high := 3.5
	layer := assembler.ToLayerEntity(models.LayerResponse{ID: "l", Type: "TEXT", Opacity: &high})
	assert.Equal(t, 1.0, layer.Opacity)

	low := -1.0
	layer = assembler.ToLayerEntity(models.LayerResponse{ID: "l", Type: "TEXT", Opacity: &low})
	assert.Equal(t, 0.0, layer.Opacity)
}

func TestToLayerEntity_MissingTypeDegrades(t *testing.T) {
	layer := assembler.ToLayerEntity(models.LayerResponse{ID: "l-9"})
	assert.Equal(t, models.UnknownDetails{}, layer.Details)
	assert.Equal(t, "Unknown Layer", models.DisplayName(layer))
}

func TestLayerRoundTrip_Text(t *testing.T) {
	original := models.Layer{
		ID: "l-1", X: 4, Y: 5, Z: 6, Opacity: 0.25, IsVisible: false,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Details: models.TextDetails{
			Text: "Hello <b>", FontColor: "#00ff00", FontFamily: "Roboto", FontSize: 48,
			IsBold: true, IsItalic: false, IsUnderlined: true,
		},
	}

	raw, err := json.Marshal(assembler.ToLayerResponse(original))
	require.NoError(t, err)

	var decoded models.LayerResponse
	require.NoError(t, json.Unmarshal(raw, &decoded))

	back := assembler.ToLayerEntity(decoded)
	assert.Equal(t, original.Details, back.Details)
	assert.Equal(t, original.X, back.X)
	assert.Equal(t, original.Opacity, back.Opacity)
	assert.Equal(t, original.IsVisible, back.IsVisible)
	assert.True(t, original.CreatedAt.Equal(back.CreatedAt))
}

func TestLayerRoundTrip_Image(t *testing.T) {
	details := models.ImageDetails{ImageURL: "https://cdn.example.com/x.png", Width: "640", Height: "480"}

	raw, err := json.Marshal(assembler.ToImageDetailsPayload(details))
	require.NoError(t, err)

	back := assembler.ToLayerEntity(models.LayerResponse{ID: "l-2", Type: "image", Details: raw})
	assert.Equal(t, details, back.Details)
}

func TestToUpdateProjectDetailsRequest_OnlySetFields(t *testing.T) {
	status := "Garment"
	color := "Red"
	req := assembler.ToUpdateProjectDetailsRequest(models.ProjectDetailsUpdate{Status: &status, Color: &color})

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Garment","garmentColor":"Red"}`, string(raw))
}

func TestValidateCreateProjectData(t *testing.T) {
	t.Run("lists every missing field", func(t *testing.T) {
		err := assembler.ValidateCreateProjectData(models.CreateProjectRequest{Title: "Tee"})
		require.Error(t, err)
		assert.Equal(t, models.KindValidation, models.Classify(err))
		assert.Equal(t, "Missing required fields: userId, garmentColor, garmentSize, garmentGender", err.Error())
	})

	t.Run("rejects malformed user id", func(t *testing.T) {
		err := assembler.ValidateCreateProjectData(models.CreateProjectRequest{
			Title: "Tee", UserID: "user-1", GarmentColor: "Black", GarmentSize: "M", GarmentGender: "Unisex",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "UUID")
	})

	t.Run("blank values count as missing", func(t *testing.T) {
		err := assembler.ValidateCreateProjectData(models.CreateProjectRequest{
			Title: "   ", UserID: "11111111-1111-1111-1111-111111111111",
			GarmentColor: "Black", GarmentSize: "M", GarmentGender: "\t",
		})
		require.Error(t, err)
		assert.Equal(t, "Missing required fields: title, garmentGender", err.Error())
	})

	t.Run("accepts an upper-case user id", func(t *testing.T) {
		err := assembler.ValidateCreateProjectData(models.CreateProjectRequest{
			Title: "Tee", UserID: "ABCDEF01-1111-1111-1111-111111111111",
			GarmentColor: "Black", GarmentSize: "M", GarmentGender: "Unisex",
		})
		assert.NoError(t, err)
	})

	t.Run("accepts a complete request", func(t *testing.T) {
		err := assembler.ValidateCreateProjectData(models.CreateProjectRequest{
			Title: "Tee", UserID: "11111111-1111-1111-1111-111111111111",
			GarmentColor: "Black", GarmentSize: "M", GarmentGender: "Unisex",
		})
		assert.NoError(t, err)
	})
}

func TestValidateTextLayerData(t *testing.T) {
	valid := models.TextDetails{Text: "Hi", FontColor: "#000000", FontFamily: "Arial", FontSize: 24}
	assert.NoError(t, assembler.ValidateTextLayerData(valid))

	cases := map[string]struct {
		mutate func(*models.TextDetails)
		want   string
	}{
		"empty text":      {func(d *models.TextDetails) { d.Text = "   " }, "Text content is required"},
		"font too small":  {func(d *models.TextDetails) { d.FontSize = 0 }, "Font size"},
		"font too large":  {func(d *models.TextDetails) { d.FontSize = 201 }, "Font size"},
		"bad color":       {func(d *models.TextDetails) { d.FontColor = "red" }, "Font color"},
		"short color":     {func(d *models.TextDetails) { d.FontColor = "#FFF" }, "Font color"},
		"alpha color":     {func(d *models.TextDetails) { d.FontColor = "#000000FF" }, "Font color"},
		"first rule wins": {func(d *models.TextDetails) { d.Text = ""; d.FontSize = 0 }, "Text content is required"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			d := valid
			tc.mutate(&d)
			err := assembler.ValidateTextLayerData(d)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateImageLayerData(t *testing.T) {
	valid := models.ImageDetails{ImageURL: "https://cdn.example.com/a.png", Width: "100", Height: "2000"}
	assert.NoError(t, assembler.ValidateImageLayerData(valid))

	cases := map[string]struct {
		mutate func(*models.ImageDetails)
		want   string
	}{
		"missing url":    {func(d *models.ImageDetails) { d.ImageURL = "" }, "Image URL is required"},
		"relative url":   {func(d *models.ImageDetails) { d.ImageURL = "images/a.png" }, "Invalid image URL"},
		"width zero":     {func(d *models.ImageDetails) { d.Width = "0" }, "Width"},
		"width text":     {func(d *models.ImageDetails) { d.Width = "wide" }, "Width"},
		"height too big": {func(d *models.ImageDetails) { d.Height = "2001" }, "Height"},
		"height decimal": {func(d *models.ImageDetails) { d.Height = "10.5" }, "Height"},
		"host missing":   {func(d *models.ImageDetails) { d.ImageURL = "https://" }, "Invalid image URL"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			d := valid
			tc.mutate(&d)
			err := assembler.ValidateImageLayerData(d)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	text := assembler.NormalizeTextDetails(models.TextDetails{Text: "x"})
	assert.Equal(t, "#000000", text.FontColor)
	assert.Equal(t, "Arial", text.FontFamily)
	assert.Equal(t, 24, text.FontSize)

	img := assembler.NormalizeImageDetails(models.ImageDetails{ImageURL: "https://a.b/c.png"})
	assert.Equal(t, "100", img.Width)
	assert.Equal(t, "100", img.Height)
}

func TestToAPIError(t *testing.T) {
	err := assembler.ToAPIError(models.ErrorResponse{Message: "Project not found", Error: "NOT_FOUND"}, 404)
	assert.Equal(t, "Project not found", err.Message)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.True(t, err.IsNotFoundError())

	generic := assembler.ToAPIError(models.ErrorResponse{}, 502)
	assert.Equal(t, "request failed with status 502", generic.Message)
	assert.Equal(t, models.CodeUnknownError, generic.Code)
	assert.True(t, generic.IsServerError())
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "script hi", assembler.SanitizeString("  <script> hi "))
	assert.Equal(t, "", assembler.SanitizeString(strings.Repeat(" ", 3)))
}
