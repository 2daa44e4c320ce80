package usda

import (
	"fmt"
	"strings"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/provider"
)

// USDA Nutrient IDs for the nutrients we surface
const (
	NutrientIDEnergy       = 1008 // Calories (kcal)
	NutrientIDProtein      = 1003 // Protein (g)
	NutrientIDCarbohydrate = 1005 // Carbohydrate, by difference (g)
	NutrientIDTotalFat     = 1004 // Total lipid (fat) (g)
	NutrientIDFiber        = 1079 // Fiber, total dietary (g)
	NutrientIDSugars       = 2000 // Sugars, total including NLEA (g)
	NutrientIDSodium       = 1093 // Sodium, Na (mg)
)

// nutrientNames is the name fallback used when a record lacks nutrient ids
var nutrientNames = map[string]int{
	"energy":                       NutrientIDEnergy,
	"protein":                      NutrientIDProtein,
	"carbohydrate, by difference":  NutrientIDCarbohydrate,
	"total lipid (fat)":            NutrientIDTotalFat,
	"fiber, total dietary":         NutrientIDFiber,
	"sugars, total including nlea": NutrientIDSugars,
	"total sugars":                 NutrientIDSugars,
	"sodium, na":                   NutrientIDSodium,
}

// mapFood converts a FoodData Central record to a FoodResult.
// Values are reported per 100 g.
func mapFood(f *food) domain.FoodResult {
	values := extractNutrients(f.Nutrients)

	brand := f.BrandName
	if brand == "" {
		brand = f.BrandOwner
	}

	result := domain.FoodResult{
		ID:          fmt.Sprintf("%s_%d", ProviderName, f.FdcID),
		Name:        strings.TrimSpace(f.Description),
		Brand:       strings.TrimSpace(brand),
		Calories:    provider.RoundCalories(values[NutrientIDEnergy].OrZero()),
		Protein:     provider.RoundGrams(values[NutrientIDProtein].OrZero()),
		Carbs:       provider.RoundGrams(values[NutrientIDCarbohydrate].OrZero()),
		Fat:         provider.RoundGrams(values[NutrientIDTotalFat].OrZero()),
		Fiber:       provider.OptionalGrams(values[NutrientIDFiber].Ptr()),
		Sugar:       provider.OptionalGrams(values[NutrientIDSugars].Ptr()),
		Sodium:      provider.OptionalMilligrams(values[NutrientIDSodium].Ptr()),
		ServingSize: 100,
		ServingUnit: "g",
		Source:      ProviderName,
		Verified:    true,
	}

	if f.HouseholdServingFullText != "" {
		result.ServingDescription = f.HouseholdServingFullText
	} else if f.ServingSize > 0 && f.ServingSizeUnit != "" {
		result.ServingDescription = fmt.Sprintf("%g%s", f.ServingSize, strings.ToLower(f.ServingSizeUnit))
	}

	return result
}

// extractNutrients indexes the nutrient list by id, resolving names when ids are missing.
// Energy reported in kJ is ignored in favor of the kcal entry.
func extractNutrients(nutrients []nutrient) map[int]provider.FlexFloat {
	values := make(map[int]provider.FlexFloat)

	for _, n := range nutrients {
		id := n.NutrientID
		if id == 0 {
			id = nutrientNames[strings.ToLower(strings.TrimSpace(n.NutrientName))]
		}
		if id == 0 {
			continue
		}
		if id == NutrientIDEnergy && strings.EqualFold(n.UnitName, "kJ") {
			continue
		}
		if _, seen := values[id]; seen {
			continue
		}
		values[id] = provider.FlexFloat{Value: n.Value, Valid: true}
	}

	return values
}
