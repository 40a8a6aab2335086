package placesapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/loci/internal/models"
)

func TestSearchPostsRequestBody(t *testing.T) {
	var received searchRequestBody

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(SearchResponse{SearchID: "s1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	req := &models.SearchRequest{
		Query:        "jazz bar",
		Page:         2,
		Location:     &models.Location{Latitude: 48.85, Longitude: 2.35},
		RadiusMeters: 500,
		Country:      "FR",
	}

	resp, err := client.Search(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "s1", resp.SearchID)
	assert.Equal(t, "jazz bar", received.Query)
	assert.Equal(t, 2, received.Page)
	require.NotNil(t, received.Latitude)
	assert.InDelta(t, 48.85, *received.Latitude, 0.0001)
	require.NotNil(t, received.Longitude)
	assert.InDelta(t, 2.35, *received.Longitude, 0.0001)
	assert.Equal(t, 500, received.Radius)
	assert.Equal(t, "FR", received.Country)
}

func TestSearchOmitsAbsentLocation(t *testing.T) {
	var raw map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		json.NewEncoder(w).Encode(SearchResponse{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Search(context.Background(), &models.SearchRequest{Query: "coffee", Page: 1})
	require.NoError(t, err)

	_, hasLat := raw["latitude"]
	_, hasLon := raw["longitude"]
	assert.False(t, hasLat, "latitude should be omitted without a location")
	assert.False(t, hasLon, "longitude should be omitted without a location")
}

func TestSearchDecodesPermissively(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Records with missing optional fields must still decode.
		w.Write([]byte(`{
			"places": [
				{"displayName": {"text": "Duc des Lombards"}, "rating": 4.2},
				{"googleMapsUri": "https://maps.google.com/?cid=99"},
				{}
			],
			"searchId": "abc"
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Search(context.Background(), &models.SearchRequest{Query: "jazz", Page: 1})
	require.NoError(t, err)

	require.Len(t, resp.Places, 3)
	assert.Equal(t, "Duc des Lombards", resp.Places[0].DisplayName.Text)
	require.NotNil(t, resp.Places[0].Rating)
	assert.InDelta(t, 4.2, *resp.Places[0].Rating, 0.0001)
	assert.Nil(t, resp.Places[0].GoogleMapsURI)
	assert.Equal(t, "https://maps.google.com/?cid=99", *resp.Places[1].GoogleMapsURI)
	assert.Nil(t, resp.Places[2].Rating)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Search(context.Background(), &models.SearchRequest{Query: "jazz", Page: 1})

	var te *models.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, models.TransportServerError, te.Kind)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
}

func TestSearchMalformedTopLevel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"places": "not-an-array"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Search(context.Background(), &models.SearchRequest{Query: "jazz", Page: 1})
	assert.True(t, errors.Is(err, models.ErrDecoding), "expected ErrDecoding, got %v", err)
}

func TestSearchConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Search(context.Background(), &models.SearchRequest{Query: "jazz", Page: 1})

	var te *models.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, models.TransportNoConnection, te.Kind)
}
