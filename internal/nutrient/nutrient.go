package nutrient

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Summary holds the macronutrients extracted from a product's
// nutriments object. nil means the source record carried no value for
// that field; zero values are never invented.
type Summary struct {
	Kcal100g       *float64 `json:"kcal_100g,omitempty"`
	Protein100g    *float64 `json:"protein_100g,omitempty"`
	Fat100g        *float64 `json:"fat_100g,omitempty"`
	Carbs100g      *float64 `json:"carbs_100g,omitempty"`
	KcalServing    *float64 `json:"kcal_serving,omitempty"`
	ProteinServing *float64 `json:"protein_serving,omitempty"`
	FatServing     *float64 `json:"fat_serving,omitempty"`
	CarbsServing   *float64 `json:"carbs_serving,omitempty"`
}

func Extract(nutriments map[string]any) Summary {
	s := Summary{
		Kcal100g:       floatValue(nutriments, "energy-kcal_100g"),
		Protein100g:    floatValue(nutriments, "proteins_100g"),
		Fat100g:        floatValue(nutriments, "fat_100g"),
		Carbs100g:      floatValue(nutriments, "carbohydrates_100g"),
		KcalServing:    floatValue(nutriments, "energy-kcal_serving"),
		ProteinServing: floatValue(nutriments, "proteins_serving"),
		FatServing:     floatValue(nutriments, "fat_serving"),
		CarbsServing:   floatValue(nutriments, "carbohydrates_serving"),
	}

	// The database spells kcal energy two ways; the alternate spelling
	// counts only when the primary key is absent.
	if s.Kcal100g == nil {
		s.Kcal100g = floatValue(nutriments, "energy-kcal_value")
	}
	return s
}

func (s Summary) Empty() bool {
	return s.Kcal100g == nil && s.Protein100g == nil && s.Fat100g == nil && s.Carbs100g == nil &&
		!s.HasServing()
}

func (s Summary) HasServing() bool {
	return s.KcalServing != nil || s.ProteinServing != nil || s.FatServing != nil || s.CarbsServing != nil
}

// floatValue reads one nutrient key. The remote encodes numbers as
// JSON numbers or strings depending on the product; anything else is
// treated as absent.
func floatValue(m map[string]any, key string) *float64 {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
