package report

import (
	"fmt"
	"os"

	"github.com/darcons/kcal/internal/details"
	"github.com/darcons/kcal/internal/off"
	"github.com/darcons/kcal/internal/pkg/prodview"
	"github.com/jedib0t/go-pretty/v6/table"
)

func PrintSearchTable(result *off.SearchResult) error {
	if result == nil || len(result.Products) == 0 {
		fmt.Fprintln(os.Stdout, "no products found.")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"CODE", "NAME", "BRAND", "KCAL/100G"})

	for _, row := range prodview.RowsFromProducts(result.Products) {
		tw.AppendRow(table.Row{row.Code, row.Name, row.Brand, row.Kcal})
	}

	tw.Render()

	if result.Count > len(result.Products) {
		fmt.Fprintf(os.Stdout, "\nshowing %d of %d results\n", len(result.Products), result.Count)
	}
	return nil
}

func PrintDetails(p off.Product) error {
	_, err := fmt.Fprintln(os.Stdout, details.Format(p))
	return err
}
