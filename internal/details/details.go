package details

import (
	"strings"

	"github.com/darcons/kcal/internal/nutrient"
	"github.com/darcons/kcal/internal/off"
	"github.com/darcons/kcal/internal/pkg/prodview"
)

const (
	placeholder = "—"
	noDataLine  = "  no nutrition data found"
)

// Format renders one product as a fixed-order text block. Header
// fields fall back to a placeholder dash; absent nutrients are skipped
// entirely.
func Format(p off.Product) string {
	sum := nutrient.Extract(p.Nutriments())

	lines := make([]string, 0, 16)
	lines = append(lines,
		"Name: "+orPlaceholder(p.Name()),
		"Brand: "+orPlaceholder(p.Brands()),
		"Barcode: "+orPlaceholder(p.Code()),
		"Package: "+orPlaceholder(p.Quantity()),
		"Serving: "+orPlaceholder(p.ServingSize()),
		"",
		"Nutrition facts:",
	)

	if sum.Empty() {
		lines = append(lines, noDataLine)
		return strings.Join(lines, "\n")
	}

	lines = appendNutrient(lines, "Calories per 100 g", sum.Kcal100g)
	lines = appendNutrient(lines, "Protein per 100 g", sum.Protein100g)
	lines = appendNutrient(lines, "Fat per 100 g", sum.Fat100g)
	lines = appendNutrient(lines, "Carbs per 100 g", sum.Carbs100g)

	if sum.HasServing() {
		lines = append(lines, "", "Per serving:")
		lines = appendNutrient(lines, "Calories per serving", sum.KcalServing)
		lines = appendNutrient(lines, "Protein per serving", sum.ProteinServing)
		lines = appendNutrient(lines, "Fat per serving", sum.FatServing)
		lines = appendNutrient(lines, "Carbs per serving", sum.CarbsServing)
	}

	return strings.Join(lines, "\n")
}

func appendNutrient(lines []string, label string, v *float64) []string {
	if v == nil {
		return lines
	}
	return append(lines, "  "+label+": "+prodview.FormatValue(v))
}

func orPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}
