package nutritionix

import (
	"fmt"
	"strings"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/provider"
)

// Nutritionix full_nutrients attribute ids (USDA SR numbering)
const (
	attrEnergy  = 208
	attrProtein = 203
	attrFat     = 204
	attrCarbs   = 205
	attrSugar   = 269
	attrFiber   = 291
	attrSodium  = 307
)

// serving is the per-serving basis shared by common and branded records
type serving struct {
	qty    provider.FlexFloat
	unit   string
	weight provider.FlexFloat
}

func mapCommon(f *commonFood) domain.FoodResult {
	id := f.TagID
	if id == "" {
		id = provider.Slug(f.FoodName)
	}

	result := mapNutrients(f.FullNutrients, provider.FlexFloat{})
	result.ID = fmt.Sprintf("%s_%s", ProviderName, id)
	result.Name = strings.TrimSpace(f.FoodName)
	result.ImageURL = f.Photo.Thumb
	applyServing(&result, serving{qty: f.ServingQty, unit: f.ServingUnit, weight: f.ServingWeightGrams})

	return result
}

func mapBranded(f *brandedFood) domain.FoodResult {
	id := f.NixItemID
	if id == "" {
		id = provider.Slug(f.BrandName + " " + f.FoodName)
	}

	result := mapNutrients(f.FullNutrients, f.NfCalories)
	result.ID = fmt.Sprintf("%s_%s", ProviderName, id)
	result.Name = strings.TrimSpace(f.FoodName)
	result.Brand = strings.TrimSpace(f.BrandName)
	result.ImageURL = f.Photo.Thumb
	applyServing(&result, serving{qty: f.ServingQty, unit: f.ServingUnit, weight: f.ServingWeightGrams})

	return result
}

// mapNutrients reads macros from full_nutrients. fallbackCalories is used when the
// attribute list carries no energy entry (branded instant results).
func mapNutrients(nutrients []fullNutrient, fallbackCalories provider.FlexFloat) domain.FoodResult {
	values := make(map[int]float64, len(nutrients))
	for _, n := range nutrients {
		if _, seen := values[n.AttrID]; !seen {
			values[n.AttrID] = n.Value
		}
	}

	optional := func(attr int) *float64 {
		if v, ok := values[attr]; ok {
			return domain.Float(v)
		}
		return nil
	}

	calories, ok := values[attrEnergy]
	if !ok {
		calories = fallbackCalories.OrZero()
	}

	return domain.FoodResult{
		Calories: provider.RoundCalories(calories),
		Protein:  provider.RoundGrams(values[attrProtein]),
		Carbs:    provider.RoundGrams(values[attrCarbs]),
		Fat:      provider.RoundGrams(values[attrFat]),
		Fiber:    provider.OptionalGrams(optional(attrFiber)),
		Sugar:    provider.OptionalGrams(optional(attrSugar)),
		Sodium:   provider.OptionalMilligrams(optional(attrSodium)),
		Source:   ProviderName,
		Verified: true,
	}
}

// applyServing fills the per-serving basis; nutrients are reported per serving_qty serving_unit
func applyServing(result *domain.FoodResult, s serving) {
	result.ServingSize = 1
	if s.qty.Valid && s.qty.Value > 0 {
		result.ServingSize = s.qty.Value
	}

	result.ServingUnit = strings.TrimSpace(s.unit)
	if result.ServingUnit == "" {
		result.ServingUnit = "serving"
	}

	if s.weight.Valid && s.weight.Value > 0 {
		result.ServingDescription = fmt.Sprintf("%gg", provider.RoundGrams(s.weight.Value))
	}
}
