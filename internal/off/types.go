package off

import (
	"strconv"
	"strings"
)

// Product is the raw decoded JSON object for one product. The remote
// omits fields freely, so values are read through accessors instead of
// a fixed schema.
type Product map[string]any

func (p Product) Code() string        { return p.stringValue("code") }
func (p Product) Name() string        { return p.stringValue("product_name") }
func (p Product) Brands() string      { return p.stringValue("brands") }
func (p Product) Quantity() string    { return p.stringValue("quantity") }
func (p Product) ServingSize() string { return p.stringValue("serving_size") }

func (p Product) Nutriments() map[string]any {
	m, ok := p["nutriments"].(map[string]any)
	if !ok || m == nil {
		return map[string]any{}
	}
	return m
}

func (p Product) stringValue(key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

type GetProductRequest struct {
	Code    string
	Fields  []string
	Lang    string
	Country string
}

type SearchRequest struct {
	Query    string
	PageSize int
	Fields   []string
	Lang     string
	Country  string
}

type SearchResult struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}
