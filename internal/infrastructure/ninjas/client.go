package ninjas

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/provider"
	"go.uber.org/zap"
)

// ProviderName identifies API Ninjas results in ids and attribution
const ProviderName = "ninjas"

// DefaultBaseURL is the API Ninjas root
const DefaultBaseURL = "https://api.api-ninjas.com"

// item is one element of the flat /v1/nutrition array.
// Values are for serving_size_g grams of the named food.
type item struct {
	Name         string             `json:"name"`
	Calories     provider.FlexFloat `json:"calories"`
	ServingSizeG provider.FlexFloat `json:"serving_size_g"`
	FatTotalG    provider.FlexFloat `json:"fat_total_g"`
	ProteinG     provider.FlexFloat `json:"protein_g"`
	CarbsTotalG  provider.FlexFloat `json:"carbohydrates_total_g"`
	FiberG       provider.FlexFloat `json:"fiber_g"`
	SugarG       provider.FlexFloat `json:"sugar_g"`
	SodiumMg     provider.FlexFloat `json:"sodium_mg"`
}

// Client queries the API Ninjas nutrition endpoint
type Client struct {
	*provider.Client
}

// NewClient creates an API Ninjas adapter
func NewClient(cfg provider.Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{Client: provider.NewClient(ProviderName, cfg, logger)}
}

// Search parses the query as natural-language food text
func (c *Client) Search(ctx context.Context, query string) ([]domain.FoodResult, error) {
	if !c.Enabled() {
		return nil, domain.ErrProviderDisabled
	}

	params := url.Values{}
	params.Add("query", query)
	reqURL := fmt.Sprintf("%s/v1/nutrition?%s", c.BaseURL(), params.Encode())

	var items []item
	if err := c.GetJSON(ctx, reqURL, map[string]string{"X-Api-Key": c.APIKey()}, &items); err != nil {
		return nil, err
	}

	results := make([]domain.FoodResult, 0, len(items))
	for i := range items {
		results = append(results, mapItem(&items[i], i))
	}

	return provider.Finalize(results, c.Limit()), nil
}

func mapItem(it *item, index int) domain.FoodResult {
	name := strings.TrimSpace(it.Name)

	result := domain.FoodResult{
		ID:          fmt.Sprintf("%s_%s_%d", ProviderName, provider.Slug(name), index),
		Name:        name,
		Calories:    provider.RoundCalories(it.Calories.OrZero()),
		Protein:     provider.RoundGrams(it.ProteinG.OrZero()),
		Carbs:       provider.RoundGrams(it.CarbsTotalG.OrZero()),
		Fat:         provider.RoundGrams(it.FatTotalG.OrZero()),
		Fiber:       provider.OptionalGrams(it.FiberG.Ptr()),
		Sugar:       provider.OptionalGrams(it.SugarG.Ptr()),
		Sodium:      provider.OptionalMilligrams(it.SodiumMg.Ptr()),
		ServingSize: 100,
		ServingUnit: "g",
		Source:      ProviderName,
		Verified:    true,
	}

	if it.ServingSizeG.Valid && it.ServingSizeG.Value > 0 {
		grams := provider.RoundGrams(it.ServingSizeG.Value)
		result.ServingSize = grams
		result.ServingDescription = fmt.Sprintf("%gg", grams)
	}

	return result
}
