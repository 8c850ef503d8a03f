package models

// MacronutrientDistribution is the stored nutrition insight for a user:
// daily energy target plus the macro split in grams.
type MacronutrientDistribution struct {
	TDEE         float64   `json:"tdee"`
	ProteinGrams int       `json:"protein_grams"`
	CarbsGrams   int       `json:"carbs_grams"`
	FatsGrams    int       `json:"fats_grams"`
	UpdatedAt    Timestamp `json:"updated_at"`
}
