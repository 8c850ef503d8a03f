package models

// FoodSearchItem is one nutrition-data match for a food search query.
type FoodSearchItem struct {
	Name                string  `json:"name"`
	Calories            float64 `json:"calories"`
	ServingSizeG        float64 `json:"serving_size_g"`
	ProteinG            float64 `json:"protein_g"`
	FatTotalG           float64 `json:"fat_total_g"`
	FatSaturatedG       float64 `json:"fat_saturated_g"`
	CarbohydratesTotalG float64 `json:"carbohydrates_total_g"`
	FiberG              float64 `json:"fiber_g"`
	SugarG              float64 `json:"sugar_g"`
	SodiumMG            float64 `json:"sodium_mg"`
	PotassiumMG         float64 `json:"potassium_mg"`
	CholesterolMG       float64 `json:"cholesterol_mg"`
}

// FoodSearchResponse is the response for a food search.
type FoodSearchResponse struct {
	Query string           `json:"query"`
	Items []FoodSearchItem `json:"items"`
	Count int              `json:"count"`
}
