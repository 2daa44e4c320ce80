package nutritionix

import (
	"context"
	"fmt"
	"net/url"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/provider"
	"go.uber.org/zap"
)

// ProviderName identifies Nutritionix results in ids and attribution
const ProviderName = "nutritionix"

// DefaultBaseURL is the Nutritionix API root
const DefaultBaseURL = "https://trackapi.nutritionix.com"

// Client queries the Nutritionix instant search endpoint
type Client struct {
	*provider.Client
	appID string
}

// NewClient creates a Nutritionix adapter. Both appID and cfg.APIKey are required
// for the adapter to be enabled.
func NewClient(appID string, cfg provider.Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		Client: provider.NewClient(ProviderName, cfg, logger),
		appID:  appID,
	}
}

// Enabled reports whether both the application id and key are configured
func (c *Client) Enabled() bool {
	return c.appID != "" && c.Client.Enabled()
}

// Search returns branded items first, then common foods
func (c *Client) Search(ctx context.Context, query string) ([]domain.FoodResult, error) {
	if !c.Enabled() {
		return nil, domain.ErrProviderDisabled
	}

	params := url.Values{}
	params.Add("query", query)
	params.Add("detailed", "true")

	reqURL := fmt.Sprintf("%s/v2/search/instant?%s", c.BaseURL(), params.Encode())
	headers := map[string]string{
		"x-app-id":  c.appID,
		"x-app-key": c.APIKey(),
	}

	var resp instantResponse
	if err := c.GetJSON(ctx, reqURL, headers, &resp); err != nil {
		return nil, err
	}

	results := make([]domain.FoodResult, 0, len(resp.Branded)+len(resp.Common))
	for i := range resp.Branded {
		results = append(results, mapBranded(&resp.Branded[i]))
	}
	for i := range resp.Common {
		results = append(results, mapCommon(&resp.Common[i]))
	}

	c.Logger().Debug("nutritionix search completed",
		zap.String("query", query),
		zap.Int("branded", len(resp.Branded)),
		zap.Int("common", len(resp.Common)),
	)

	return provider.Finalize(results, c.Limit()), nil
}
