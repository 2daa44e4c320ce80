package openfoodfacts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/provider"
	"go.uber.org/zap"
)

// ProviderName identifies Open Food Facts results in ids and attribution
const ProviderName = "openfoodfacts"

// DefaultBaseURL is the Open Food Facts world instance
const DefaultBaseURL = "https://world.openfoodfacts.org"

// Client queries Open Food Facts. It needs no credentials, so it is always enabled.
type Client struct {
	*provider.Client
}

// NewClient creates an Open Food Facts adapter
func NewClient(cfg provider.Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{Client: provider.NewClient(ProviderName, cfg, logger)}
}

// Enabled is always true; Open Food Facts is keyless
func (c *Client) Enabled() bool {
	return true
}

// Search runs a full-text product search
func (c *Client) Search(ctx context.Context, query string) ([]domain.FoodResult, error) {
	params := url.Values{}
	params.Add("search_terms", query)
	params.Add("search_simple", "1")
	params.Add("action", "process")
	params.Add("json", "1")
	params.Add("page_size", strconv.Itoa(c.Limit()))

	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.BaseURL(), params.Encode())

	var resp searchResponse
	if err := c.GetJSON(ctx, reqURL, nil, &resp); err != nil {
		return nil, err
	}

	results := make([]domain.FoodResult, 0, len(resp.Products))
	for i := range resp.Products {
		p := &resp.Products[i]
		if p.Code == "" {
			continue
		}
		results = append(results, mapProduct(p, p.Code))
	}

	return provider.Finalize(results, c.Limit()), nil
}

// LookupByCode fetches one product by its barcode.
// Unknown codes return domain.ErrProductNotFound.
func (c *Client) LookupByCode(ctx context.Context, code string) (*domain.FoodResult, error) {
	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.BaseURL(), url.PathEscape(code))

	var resp productResponse
	if err := c.GetJSON(ctx, reqURL, nil, &resp); err != nil {
		var statusErr *provider.HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	if resp.Status.OrZero() != 1 || resp.Product == nil {
		return nil, domain.ErrProductNotFound
	}

	result := mapProduct(resp.Product, code)
	if result.Name == "" {
		return nil, domain.ErrProductNotFound
	}
	result.Barcode = code

	return &result, nil
}

func mapProduct(p *product, code string) domain.FoodResult {
	name := strings.TrimSpace(p.ProductName)
	if name == "" {
		name = strings.TrimSpace(p.GenericName)
	}

	image := p.ImageFrontSmallURL
	if image == "" {
		image = p.ImageURL
	}

	n := p.Nutriments
	result := domain.FoodResult{
		ID:                 fmt.Sprintf("%s_%s", ProviderName, code),
		Name:               name,
		Brand:              firstBrand(p.Brands),
		Calories:           provider.RoundCalories(n.EnergyKcal100g.OrZero()),
		Protein:            provider.RoundGrams(n.Proteins100g.OrZero()),
		Carbs:              provider.RoundGrams(n.Carbohydrates100g.OrZero()),
		Fat:                provider.RoundGrams(n.Fat100g.OrZero()),
		Fiber:              provider.OptionalGrams(n.Fiber100g.Ptr()),
		Sugar:              provider.OptionalGrams(n.Sugars100g.Ptr()),
		ServingSize:        100,
		ServingUnit:        "g",
		ServingDescription: strings.TrimSpace(p.ServingSize),
		Source:             ProviderName,
		ImageURL:           image,
		Verified:           true,
	}

	// sodium is published in grams
	if mg := n.Sodium100g.Value * 1000; n.Sodium100g.Valid && !math.IsInf(mg, 0) {
		result.Sodium = domain.Float(provider.RoundMilligrams(mg))
	}

	return result
}

// firstBrand keeps the leading entry of the comma-separated brands field
func firstBrand(brands string) string {
	if i := strings.IndexByte(brands, ','); i >= 0 {
		brands = brands[:i]
	}
	return strings.TrimSpace(brands)
}
