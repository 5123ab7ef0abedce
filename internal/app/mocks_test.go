package app

import (
	"context"

	"github.com/darcons/kcal/internal/off"
)

var (
	_ productGetter   = (*mockProductGetter)(nil)
	_ productSearcher = (*mockProductSearcher)(nil)
)

type mockProductGetter struct {
	getProductFunc func(context.Context, off.GetProductRequest) (off.Product, error)
}

func (m *mockProductGetter) GetProduct(ctx context.Context, req off.GetProductRequest) (off.Product, error) {
	return m.getProductFunc(ctx, req)
}

type mockProductSearcher struct {
	searchProductsFunc func(context.Context, off.SearchRequest) (*off.SearchResult, error)
}

func (m *mockProductSearcher) SearchProducts(ctx context.Context, req off.SearchRequest) (*off.SearchResult, error) {
	return m.searchProductsFunc(ctx, req)
}
