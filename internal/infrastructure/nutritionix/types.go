package nutritionix

import "github.com/force3dev/Forc3-sub001/internal/infrastructure/provider"

// instantResponse is the body of /v2/search/instant
type instantResponse struct {
	Common  []commonFood  `json:"common"`
	Branded []brandedFood `json:"branded"`
}

type commonFood struct {
	FoodName           string             `json:"food_name"`
	TagID              string             `json:"tag_id"`
	ServingQty         provider.FlexFloat `json:"serving_qty"`
	ServingUnit        string             `json:"serving_unit"`
	ServingWeightGrams provider.FlexFloat `json:"serving_weight_grams"`
	Photo              photo              `json:"photo"`
	FullNutrients      []fullNutrient     `json:"full_nutrients"`
}

type brandedFood struct {
	FoodName           string             `json:"food_name"`
	BrandName          string             `json:"brand_name"`
	NixItemID          string             `json:"nix_item_id"`
	ServingQty         provider.FlexFloat `json:"serving_qty"`
	ServingUnit        string             `json:"serving_unit"`
	ServingWeightGrams provider.FlexFloat `json:"serving_weight_grams"`
	NfCalories         provider.FlexFloat `json:"nf_calories"`
	Photo              photo              `json:"photo"`
	FullNutrients      []fullNutrient     `json:"full_nutrients"`
}

type photo struct {
	Thumb string `json:"thumb"`
}

type fullNutrient struct {
	AttrID int     `json:"attr_id"`
	Value  float64 `json:"value"`
}
