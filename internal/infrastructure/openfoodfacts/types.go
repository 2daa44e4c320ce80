package openfoodfacts

import "github.com/force3dev/Forc3-sub001/internal/infrastructure/provider"

// searchResponse is the body of /cgi/search.pl
type searchResponse struct {
	Count    provider.FlexFloat `json:"count"`
	PageSize provider.FlexFloat `json:"page_size"`
	Products []product          `json:"products"`
}

// productResponse is the body of /api/v0/product/{code}.json.
// Status is 1 when the code is known and 0 otherwise.
type productResponse struct {
	Code          string             `json:"code"`
	Status        provider.FlexFloat `json:"status"`
	StatusVerbose string             `json:"status_verbose"`
	Product       *product           `json:"product"`
}

type product struct {
	Code               string     `json:"code"`
	ProductName        string     `json:"product_name"`
	GenericName        string     `json:"generic_name"`
	Brands             string     `json:"brands"`
	ServingSize        string     `json:"serving_size"`
	ImageFrontSmallURL string     `json:"image_front_small_url"`
	ImageURL           string     `json:"image_url"`
	Nutriments         nutriments `json:"nutriments"`
}

// nutriments are the per-100g values. OFF stores some of them as strings.
type nutriments struct {
	EnergyKcal100g    provider.FlexFloat `json:"energy-kcal_100g"`
	Proteins100g      provider.FlexFloat `json:"proteins_100g"`
	Carbohydrates100g provider.FlexFloat `json:"carbohydrates_100g"`
	Fat100g           provider.FlexFloat `json:"fat_100g"`
	Fiber100g         provider.FlexFloat `json:"fiber_100g"`
	Sugars100g        provider.FlexFloat `json:"sugars_100g"`
	Sodium100g        provider.FlexFloat `json:"sodium_100g"`
}
