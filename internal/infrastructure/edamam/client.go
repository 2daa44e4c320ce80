package edamam

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/provider"
	"go.uber.org/zap"
)

// ProviderName identifies Edamam results in ids and attribution
const ProviderName = "edamam"

// DefaultBaseURL is the Edamam API root
const DefaultBaseURL = "https://api.edamam.com"

// parserResponse is the body of /api/food-database/v2/parser
type parserResponse struct {
	Text  string `json:"text"`
	Hints []hint `json:"hints"`
}

type hint struct {
	Food food `json:"food"`
}

type food struct {
	FoodID    string    `json:"foodId"`
	Label     string    `json:"label"`
	Brand     string    `json:"brand"`
	Category  string    `json:"category"`
	Image     string    `json:"image"`
	Nutrients nutrients `json:"nutrients"`
}

// nutrients are reported per 100 g
type nutrients struct {
	EnergyKcal provider.FlexFloat `json:"ENERC_KCAL"`
	Protein    provider.FlexFloat `json:"PROCNT"`
	Fat        provider.FlexFloat `json:"FAT"`
	Carbs      provider.FlexFloat `json:"CHOCDF"`
	Fiber      provider.FlexFloat `json:"FIBTG"`
	Sugar      provider.FlexFloat `json:"SUGAR"`
	Sodium     provider.FlexFloat `json:"NA"`
}

// Client queries the Edamam food database parser
type Client struct {
	*provider.Client
	appID string
}

// NewClient creates an Edamam adapter. cfg.APIKey is the app_key.
func NewClient(appID string, cfg provider.Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		Client: provider.NewClient(ProviderName, cfg, logger),
		appID:  appID,
	}
}

// Enabled reports whether both app_id and app_key are configured
func (c *Client) Enabled() bool {
	return c.appID != "" && c.Client.Enabled()
}

// Search runs a parser lookup and maps the hint list
func (c *Client) Search(ctx context.Context, query string) ([]domain.FoodResult, error) {
	if !c.Enabled() {
		return nil, domain.ErrProviderDisabled
	}

	params := url.Values{}
	params.Add("app_id", c.appID)
	params.Add("app_key", c.APIKey())
	params.Add("ingr", query)
	params.Add("nutrition-type", "logging")

	reqURL := fmt.Sprintf("%s/api/food-database/v2/parser?%s", c.BaseURL(), params.Encode())

	var resp parserResponse
	if err := c.GetJSON(ctx, reqURL, nil, &resp); err != nil {
		return nil, err
	}

	results := make([]domain.FoodResult, 0, len(resp.Hints))
	for i := range resp.Hints {
		results = append(results, mapFood(&resp.Hints[i].Food))
	}

	c.Logger().Debug("edamam search completed",
		zap.String("query", query),
		zap.Int("hints", len(resp.Hints)),
	)

	return provider.Finalize(results, c.Limit()), nil
}

func mapFood(f *food) domain.FoodResult {
	id := f.FoodID
	if id == "" {
		id = provider.Slug(f.Brand + " " + f.Label)
	}

	return domain.FoodResult{
		ID:          fmt.Sprintf("%s_%s", ProviderName, id),
		Name:        strings.TrimSpace(f.Label),
		Brand:       strings.TrimSpace(f.Brand),
		Calories:    provider.RoundCalories(f.Nutrients.EnergyKcal.OrZero()),
		Protein:     provider.RoundGrams(f.Nutrients.Protein.OrZero()),
		Carbs:       provider.RoundGrams(f.Nutrients.Carbs.OrZero()),
		Fat:         provider.RoundGrams(f.Nutrients.Fat.OrZero()),
		Fiber:       provider.OptionalGrams(f.Nutrients.Fiber.Ptr()),
		Sugar:       provider.OptionalGrams(f.Nutrients.Sugar.Ptr()),
		Sodium:      provider.OptionalMilligrams(f.Nutrients.Sodium.Ptr()),
		ServingSize: 100,
		ServingUnit: "g",
		Source:      ProviderName,
		ImageURL:    f.Image,
		Verified:    true,
	}
}
