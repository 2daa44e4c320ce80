package provider

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/force3dev/Forc3-sub001/internal/domain"
)

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// RoundCalories rounds an energy value to whole kcal
func RoundCalories(v float64) float64 {
	return math.Round(v)
}

// RoundGrams rounds a mass value to one decimal place
func RoundGrams(v float64) float64 {
	return math.Round(v*10) / 10
}

// RoundMilligrams rounds a milligram value to a whole number
func RoundMilligrams(v float64) float64 {
	return math.Round(v)
}

// OptionalGrams rounds an optional gram value, keeping nil as nil
func OptionalGrams(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return domain.Float(RoundGrams(*v))
}

// OptionalMilligrams rounds an optional milligram value, keeping nil as nil
func OptionalMilligrams(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return domain.Float(RoundMilligrams(*v))
}

// Slug turns a free-text name into an id-safe token
func Slug(s string) string {
	return strings.Trim(slugRegex.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Finalize drops unnamed records, records with non-finite numbers and
// repeated ids, then caps the list at limit
func Finalize(results []domain.FoodResult, limit int) []domain.FoodResult {
	seen := make(map[string]bool, len(results))
	kept := make([]domain.FoodResult, 0, len(results))

	for _, r := range results {
		if r.Name == "" || seen[r.ID] || !finiteResult(&r) {
			continue
		}
		seen[r.ID] = true
		kept = append(kept, r)
		if limit > 0 && len(kept) == limit {
			break
		}
	}

	return kept
}

// finiteResult reports whether every numeric field can be encoded as JSON
func finiteResult(r *domain.FoodResult) bool {
	for _, v := range []float64{r.Calories, r.Protein, r.Carbs, r.Fat, r.ServingSize} {
		if !isFinite(v) {
			return false
		}
	}
	for _, v := range []*float64{r.Fiber, r.Sugar, r.Sodium} {
		if v != nil && !isFinite(*v) {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FlexFloat decodes JSON numbers as well as numeric strings ("12.5").
// Null, empty, non-numeric or non-finite ("NaN", "Infinity", 1e400) values
// leave Valid false.
type FlexFloat struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = FlexFloat{}
		return nil
	}

	var text string
	switch {
	case data[0] == '"':
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		text = string(data)
	default:
		var v float64
		return json.Unmarshal(data, &v)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || !isFinite(v) {
		*f = FlexFloat{}
		return nil
	}
	*f = FlexFloat{Value: v, Valid: true}
	return nil
}

// Ptr returns the value as an optional field
func (f FlexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	return domain.Float(f.Value)
}

// OrZero returns the value, or 0 when absent
func (f FlexFloat) OrZero() float64 {
	if !f.Valid {
		return 0
	}
	return f.Value
}
