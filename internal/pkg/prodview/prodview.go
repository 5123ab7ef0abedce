package prodview

import (
	"strconv"

	"github.com/darcons/kcal/internal/nutrient"
	"github.com/darcons/kcal/internal/off"
)

// Row is the summary projection shared by the search table and the
// browse shell: barcode, name, brand, kcal per 100 g.
type Row struct {
	Code  string
	Name  string
	Brand string
	Kcal  string
}

func RowFromProduct(p off.Product) Row {
	sum := nutrient.Extract(p.Nutriments())

	return Row{
		Code:  p.Code(),
		Name:  p.Name(),
		Brand: p.Brands(),
		Kcal:  FormatValue(sum.Kcal100g),
	}
}

func RowsFromProducts(products []off.Product) []Row {
	rows := make([]Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, RowFromProduct(p))
	}
	return rows
}

func FormatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
