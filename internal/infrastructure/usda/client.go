package usda

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/provider"
	"go.uber.org/zap"
)

// ProviderName identifies USDA results in ids and attribution
const ProviderName = "usda"

// DefaultBaseURL is the FoodData Central API root
const DefaultBaseURL = "https://api.nal.usda.gov/fdc"

// Client handles communication with the USDA FoodData Central API
type Client struct {
	*provider.Client
}

// NewClient creates a new USDA API client
func NewClient(cfg provider.Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{Client: provider.NewClient(ProviderName, cfg, logger)}
}

// Search searches for foods in the USDA database
func (c *Client) Search(ctx context.Context, query string) ([]domain.FoodResult, error) {
	if !c.Enabled() {
		return nil, domain.ErrProviderDisabled
	}

	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.APIKey())
	params.Add("dataType", "Foundation,SR Legacy,Survey (FNDDS),Branded")
	params.Add("pageSize", strconv.Itoa(c.Limit()))

	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.BaseURL(), params.Encode())

	var searchResp searchResponse
	if err := c.GetJSON(ctx, reqURL, nil, &searchResp); err != nil {
		return nil, err
	}

	results := make([]domain.FoodResult, 0, len(searchResp.Foods))
	for i := range searchResp.Foods {
		results = append(results, mapFood(&searchResp.Foods[i]))
	}

	c.Logger().Debug("usda search completed",
		zap.String("query", query),
		zap.Int("total_hits", searchResp.TotalHits),
		zap.Int("mapped", len(results)),
	)

	return provider.Finalize(results, c.Limit()), nil
}
