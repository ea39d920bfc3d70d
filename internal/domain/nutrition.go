package domain

import "strconv"

// MissingValue is rendered for absent nutrition fields.
const MissingValue = "-"

type Nutrition struct {
	Kcal          *float64 `json:"kcal"`
	CarbohydrateG *float64 `json:"carbohydrate_g"`
	SugarG        *float64 `json:"sugar_g"`
	FatG          *float64 `json:"fat_g"`
	SaturatedFatG *float64 `json:"saturated_fat_g"`
	TransFatG     *float64 `json:"trans_fat_g"`
	ProteinG      *float64 `json:"protein_g"`
	SodiumMg      *float64 `json:"sodium_mg"`
}

type NutritionRow struct {
	Label string
	Value string
}

// Rows returns the nutrition table in display order. A nil receiver yields
// the same rows with every value missing.
func (n *Nutrition) Rows() []NutritionRow {
	var nf Nutrition
	if n != nil {
		nf = *n
	}

	return []NutritionRow{
		{Label: "에너지", Value: formatAmount(nf.Kcal, "kcal")},
		{Label: "탄수화물", Value: formatAmount(nf.CarbohydrateG, "g")},
		{Label: "당류", Value: formatAmount(nf.SugarG, "g")},
		{Label: "지방", Value: formatAmount(nf.FatG, "g")},
		{Label: "포화지방", Value: formatAmount(nf.SaturatedFatG, "g")},
		{Label: "트랜스지방", Value: formatAmount(nf.TransFatG, "g")},
		{Label: "단백질", Value: formatAmount(nf.ProteinG, "g")},
		{Label: "나트륨", Value: formatAmount(nf.SodiumMg, "mg")},
	}
}

func formatAmount(v *float64, unit string) string {
	if v == nil {
		return MissingValue
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + " " + unit
}
