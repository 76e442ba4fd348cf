package designlab_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"garment-designlab/internal/designlab"
	"garment-designlab/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchProjectsByUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/projects", r.URL.Path)
		assert.Equal(t, "user-1", r.URL.Query().Get("userId"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p-1","title":"Tee","status":"Blueprint","layers":[]},{"id":"p-2","title":"Hoodie","status":"Garment"}]`))
	}))
	defer server.Close()

	client := designlab.NewClient(server.URL, designlab.StaticToken("secret-token"))
	projects, err := client.FetchProjectsByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Hoodie", projects[1].Title)
	assert.True(t, projects[1].Status.IsGarment())
	assert.NotNil(t, projects[1].Layers)
}

func TestClient_CreateProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/projects", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Tee", body["title"])
		assert.Equal(t, "Black", body["garmentColor"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"p-9","title":"Tee","status":"Blueprint","color":"Black","size":"M","gender":"Unisex","layers":[]}`))
	}))
	defer server.Close()

	client := designlab.NewClient(server.URL, designlab.StaticToken("t"))
	project, err := client.CreateProject(context.Background(), models.CreateProjectRequest{
		Title: "Tee", UserID: "u", GarmentColor: "Black", GarmentSize: "M", GarmentGender: "Unisex",
	})
	require.NoError(t, err)
	assert.Equal(t, "p-9", project.ID)
	assert.Equal(t, models.ProjectStatusBlueprint, project.Status)
	assert.Empty(t, project.Layers)
}

func TestClient_CreateTextLayer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/p-1/texts", r.URL.Path)

		var body models.TextDetailsPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Hi", body.Text)
		assert.Equal(t, 24, body.FontSize)

		w.Write([]byte(`{"id":"l-1","x":0,"y":0,"z":1,"type":"TEXT","details":{"text":"Hi","fontColor":"#000000","fontFamily":"Arial","fontSize":24}}`))
	}))
	defer server.Close()

	client := designlab.NewClient(server.URL, designlab.StaticToken("t"))
	layer, err := client.CreateTextLayer(context.Background(), "p-1", models.TextDetails{
		Text: "Hi", FontColor: "#000000", FontFamily: "Arial", FontSize: 24,
	})
	require.NoError(t, err)
	assert.Equal(t, "l-1", layer.ID)
	assert.True(t, layer.IsText())
}

func TestClient_LayerEndpoints(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(`{"id":"l-1","type":"IMAGE","details":{"imageUrl":"https://a.b/c.png","width":"10","height":"20"}}`))
	}))
	defer server.Close()

	client := designlab.NewClient(server.URL, designlab.StaticToken("t"))
	ctx := context.Background()
	img := models.ImageDetails{ImageURL: "https://a.b/c.png", Width: "10", Height: "20"}

	_, err := client.CreateImageLayer(ctx, "p", img)
	require.NoError(t, err)
	_, err = client.UpdateImageLayerDetails(ctx, "p", "l-1", img)
	require.NoError(t, err)
	_, err = client.UpdateTextLayerDetails(ctx, "p", "l-1", models.TextDetails{Text: "x"})
	require.NoError(t, err)
	_, err = client.UpdateLayerCoordinates(ctx, "p", "l-1", models.CoordinatesRequest{X: 1, Y: 2, Z: 3})
	require.NoError(t, err)
	require.NoError(t, client.DeleteLayer(ctx, "p", "l-1"))
	require.NoError(t, client.DeleteProject(ctx, "p"))

	assert.Equal(t, []string{
		"POST /api/v1/projects/p/images",
		"PUT /api/v1/projects/p/layers/l-1/image-details",
		"PUT /api/v1/projects/p/layers/l-1/text-details",
		"PUT /api/v1/projects/p/layers/l-1/coordinates",
		"DELETE /api/v1/projects/p/layers/l-1",
		"DELETE /api/v1/projects/p",
	}, seen)
}

func TestClient_UpdateProjectDetailsSendsOnlySetFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/projects/p-1/details", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"previewUrl":"https://a.b/p.png"}`, string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	preview := "https://a.b/p.png"
	client := designlab.NewClient(server.URL, designlab.StaticToken("t"))
	err := client.UpdateProjectDetails(context.Background(), "p-1", models.UpdateProjectDetailsRequest{PreviewURL: &preview})
	assert.NoError(t, err)
}

func TestClient_ErrorNormalization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Project with id p-x not found","error":"NOT_FOUND","timestamp":"2024-05-01T10:00:00Z"}`))
	}))
	defer server.Close()

	client := designlab.NewClient(server.URL, designlab.StaticToken("t"))
	_, err := client.FetchProject(context.Background(), "p-x")
	require.Error(t, err)

	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Project with id p-x not found", apiErr.Message)
	assert.Equal(t, models.KindNotFound, models.Classify(err))
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := designlab.NewClient(server.URL, designlab.StaticToken("t"))
	err := client.DeleteProject(context.Background(), "p")

	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 502", apiErr.Message)
	assert.True(t, apiErr.IsServerError())
}

func TestClient_UnauthorizedHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	calls := 0
	client := designlab.NewClient(server.URL, designlab.StaticToken("expired"),
		designlab.WithUnauthorizedHandler(func() { calls++ }))

	_, err := client.FetchProjectsByUser(context.Background(), "u")
	require.Error(t, err)
	assert.Equal(t, models.KindAuth, models.Classify(err))
	assert.Equal(t, 1, calls)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := designlab.NewClient(url, designlab.StaticToken("t"))
	_, err := client.FetchProject(context.Background(), "p")

	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, models.CodeNetworkError, apiErr.Code)
}

func TestClient_NoTokenSendsNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := designlab.NewClient(server.URL, designlab.StaticToken(""))
	products, err := client.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestClient_Products(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/api/v1/products", r.URL.Path)
			assert.Equal(t, "p-1", r.URL.Query().Get("projectId"))
			w.Write([]byte(`[{"id":"prod-1","projectId":"p-1","priceAmount":25.5,"priceCurrency":"USD","likeCount":3}]`))
		case http.MethodDelete:
			assert.Equal(t, "/api/v1/products/prod-1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	client := designlab.NewClient(server.URL, designlab.StaticToken("t"))
	products, err := client.ListProducts(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 25.5, products[0].PriceAmount)
	assert.Equal(t, 3, products[0].LikeCount)

	assert.NoError(t, client.DeleteProduct(context.Background(), "prod-1"))
}

func TestClient_InvalidResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/projects/p-1":
			w.Write([]byte(`{"title":"no id"}`))
		default:
			w.Write([]byte(`<html>gateway page</html>`))
		}
	}))
	defer server.Close()

	client := designlab.NewClient(server.URL, designlab.StaticToken("t"))
	ctx := context.Background()

	_, err := client.FetchProject(ctx, "p-1")
	require.Error(t, err)
	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, models.CodeInvalidResponse, apiErr.Code)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, models.KindServer, models.Classify(err))

	_, err = client.FetchProjectsByUser(ctx, "user-1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, models.CodeInvalidResponse, apiErr.Code)
	assert.Contains(t, apiErr.Message, "status 200")
	assert.Equal(t, http.StatusBadGateway, models.HTTPStatus(err))
}
