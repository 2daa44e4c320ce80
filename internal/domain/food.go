package domain

import "time"

// FoodResult is the canonical nutrition record returned by every provider.
//
// Serving basis is provider-specific: some providers report per 100 g,
// others per serving. ServingSize and ServingUnit describe that basis.
type FoodResult struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Brand              string   `json:"brand,omitempty"`
	Calories           float64  `json:"calories"`         // kcal
	Protein            float64  `json:"protein"`          // grams
	Carbs              float64  `json:"carbs"`            // grams
	Fat                float64  `json:"fat"`              // grams
	Fiber              *float64 `json:"fiber,omitempty"`  // grams
	Sugar              *float64 `json:"sugar,omitempty"`  // grams
	Sodium             *float64 `json:"sodium,omitempty"` // milligrams
	ServingSize        float64  `json:"servingSize"`
	ServingUnit        string   `json:"servingUnit"`
	ServingDescription string   `json:"servingDescription,omitempty"`
	Source             string   `json:"source"`
	Barcode            string   `json:"barcode,omitempty"`
	ImageURL           string   `json:"imageUrl,omitempty"`
	Verified           bool     `json:"verified"`
}

// CacheEntry is the persisted form of a computed search result list.
type CacheEntry struct {
	Query     string       `json:"query"`
	Results   []FoodResult `json:"results"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Expired reports whether the entry is no longer usable at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Float returns a pointer to v, for populating optional nutrient fields.
func Float(v float64) *float64 {
	return &v
}
