package nutritionix

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instantPayload = `{
  "common": [
    {
      "food_name": "chicken breast",
      "tag_id": "4025",
      "serving_qty": 1,
      "serving_unit": "breast",
      "serving_weight_grams": 172,
      "photo": {"thumb": "https://nix-tag-images.s3.amazonaws.com/4025_thumb.jpg"},
      "full_nutrients": [
        {"attr_id": 203, "value": 53.3},
        {"attr_id": 204, "value": 6.16},
        {"attr_id": 205, "value": 0},
        {"attr_id": 208, "value": 284.04},
        {"attr_id": 307, "value": 127.28}
      ]
    }
  ],
  "branded": [
    {
      "food_name": "Grilled Chicken Breast Strips",
      "brand_name": "Tyson",
      "nix_item_id": "5a2b3c",
      "serving_qty": "3",
      "serving_unit": "oz",
      "serving_weight_grams": null,
      "nf_calories": 110,
      "photo": {"thumb": ""},
      "full_nutrients": [
        {"attr_id": 203, "value": 19},
        {"attr_id": 204, "value": 3},
        {"attr_id": 205, "value": 1},
        {"attr_id": 269, "value": 1},
        {"attr_id": 291, "value": 0}
      ]
    }
  ]
}`

func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/search/instant", r.URL.Path)
		assert.Equal(t, "chicken breast", r.URL.Query().Get("query"))
		assert.Equal(t, "true", r.URL.Query().Get("detailed"))
		assert.Equal(t, "app-id", r.Header.Get("x-app-id"))
		assert.Equal(t, "app-key", r.Header.Get("x-app-key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(instantPayload))
	}))
	defer server.Close()

	client := NewClient("app-id", provider.Config{BaseURL: server.URL, APIKey: "app-key", Timeout: time.Second}, nil)

	results, err := client.Search(context.Background(), "chicken breast")
	require.NoError(t, err)
	require.Len(t, results, 2)

	branded := results[0]
	assert.Equal(t, "nutritionix_5a2b3c", branded.ID)
	assert.Equal(t, "Tyson", branded.Brand)
	assert.Equal(t, float64(110), branded.Calories, "nf_calories is the fallback when 208 is absent")
	assert.Equal(t, float64(19), branded.Protein)
	assert.Equal(t, float64(3), branded.ServingSize)
	assert.Equal(t, "oz", branded.ServingUnit)
	assert.Empty(t, branded.ServingDescription)
	require.NotNil(t, branded.Fiber)
	assert.Equal(t, float64(0), *branded.Fiber)
	assert.Nil(t, branded.Sodium)

	common := results[1]
	assert.Equal(t, "nutritionix_4025", common.ID)
	assert.Equal(t, "chicken breast", common.Name)
	assert.Equal(t, float64(284), common.Calories)
	assert.Equal(t, 53.3, common.Protein)
	assert.Equal(t, 6.2, common.Fat)
	assert.Equal(t, "172g", common.ServingDescription)
	assert.Equal(t, "breast", common.ServingUnit)
	require.NotNil(t, common.Sodium)
	assert.Equal(t, float64(127), *common.Sodium)
	assert.NotEmpty(t, common.ImageURL)
	assert.True(t, common.Verified)
}

func TestSearch_DisabledWithoutCredentials(t *testing.T) {
	tests := []struct {
		name  string
		appID string
		key   string
	}{
		{name: "missing app id", appID: "", key: "key"},
		{name: "missing app key", appID: "id", key: ""},
		{name: "missing both", appID: "", key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.appID, provider.Config{BaseURL: "http://127.0.0.1:1", APIKey: tt.key}, nil)

			results, err := client.Search(context.Background(), "rice")

			assert.Nil(t, results)
			assert.ErrorIs(t, err, domain.ErrProviderDisabled)
		})
	}
}

func TestSearch_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("id", provider.Config{BaseURL: server.URL, APIKey: "bad"}, nil)

	_, err := client.Search(context.Background(), "rice")

	var statusErr *provider.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestMapCommon_FallsBackToSlugID(t *testing.T) {
	got := mapCommon(&commonFood{FoodName: "Brown Rice, cooked"})

	assert.Equal(t, "nutritionix_brown-rice-cooked", got.ID)
	assert.Equal(t, float64(1), got.ServingSize)
	assert.Equal(t, "serving", got.ServingUnit)
}
