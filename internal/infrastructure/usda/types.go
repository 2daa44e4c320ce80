package usda

// searchResponse represents the response from the FoodData Central search API
type searchResponse struct {
	Foods       []food `json:"foods"`
	TotalHits   int    `json:"totalHits"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
}

// food represents a food item from the FoodData Central API
type food struct {
	FdcID                    int        `json:"fdcId"`
	Description              string     `json:"description"`
	DataType                 string     `json:"dataType"`
	BrandOwner               string     `json:"brandOwner,omitempty"`
	BrandName                string     `json:"brandName,omitempty"`
	GtinUpc                  string     `json:"gtinUpc,omitempty"`
	ServingSize              float64    `json:"servingSize,omitempty"`
	ServingSizeUnit          string     `json:"servingSizeUnit,omitempty"`
	HouseholdServingFullText string     `json:"householdServingFullText,omitempty"`
	Nutrients                []nutrient `json:"foodNutrients"`
}

// nutrient represents a single nutrient from FoodData Central data
type nutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientName   string  `json:"nutrientName"`
	NutrientNumber string  `json:"nutrientNumber,omitempty"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}
