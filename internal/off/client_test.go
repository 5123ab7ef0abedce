package off

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient()
		require.NoError(t, err)
		assert.Equal(t, defaultBaseURL, client.baseURL)
		assert.Equal(t, defaultUserAgent, client.userAgent)
		assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
	})

	t.Run("rejects invalid base url", func(t *testing.T) {
		t.Parallel()

		_, err := NewClient(WithBaseURL("not-a-url"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid base url")
	})

	t.Run("trims trailing slash from base url", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient(WithBaseURL("https://example.invalid/"))
		require.NoError(t, err)
		assert.Equal(t, "https://example.invalid", client.baseURL)
	})
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	t.Run("returns product and sends fixed headers and params", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v2/product/5449000000996", r.URL.Path)
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

			q := r.URL.Query()
			assert.Equal(t, "ru", q.Get("lc"))
			assert.Equal(t, "ru", q.Get("cc"))
			assert.Contains(t, q.Get("fields"), "product_name")
			assert.Contains(t, q.Get("fields"), "nutriments")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"code":"5449000000996","status":1,"product":{"code":"5449000000996","product_name":"Coca-Cola","nutriments":{"energy-kcal_100g":42}}}`))
		}))
		defer srv.Close()

		client, err := NewClient(WithBaseURL(srv.URL), WithUserAgent("test-agent"))
		require.NoError(t, err)

		product, err := client.GetProduct(context.Background(), GetProductRequest{Code: "5449000000996"})
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Coca-Cola", product.Name())
		assert.Equal(t, "5449000000996", product.Code())
	})

	t.Run("passes custom fields lang and country", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "code,product_name", q.Get("fields"))
			assert.Equal(t, "en", q.Get("lc"))
			assert.Equal(t, "us", q.Get("cc"))
			_, _ = w.Write([]byte(`{"product":{"code":"1"}}`))
		}))
		defer srv.Close()

		client, err := NewClient(WithBaseURL(srv.URL))
		require.NoError(t, err)

		_, err = client.GetProduct(context.Background(), GetProductRequest{
			Code:    "1",
			Fields:  []string{"code", "product_name"},
			Lang:    "en",
			Country: "us",
		})
		require.NoError(t, err)
	})

	t.Run("treats 404 as not found", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"status":0,"status_verbose":"product not found"}`, http.StatusNotFound)
		}))
		defer srv.Close()

		client, err := NewClient(WithBaseURL(srv.URL))
		require.NoError(t, err)

		product, err := client.GetProduct(context.Background(), GetProductRequest{Code: "0000000000000"})
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("treats missing product key as not found", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
		}))
		defer srv.Close()

		client, err := NewClient(WithBaseURL(srv.URL))
		require.NoError(t, err)

		product, err := client.GetProduct(context.Background(), GetProductRequest{Code: "0000000000000"})
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("returns status error with code and body on server failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client, err := NewClient(WithBaseURL(srv.URL))
		require.NoError(t, err)

		_, err = client.GetProduct(context.Background(), GetProductRequest{Code: "1"})
		require.Error(t, err)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Equal(t, "boom", statusErr.Body)
	})

	t.Run("wraps network failures as transport errors", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		client, err := NewClient(WithBaseURL(srv.URL), WithTimeout(time.Second))
		require.NoError(t, err)

		_, err = client.GetProduct(context.Background(), GetProductRequest{Code: "1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTransport)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient()
		require.NoError(t, err)

		_, err = client.GetProduct(context.Background(), GetProductRequest{Code: "  "})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "code is empty")
	})
}

func TestSearchProducts(t *testing.T) {
	t.Parallel()

	t.Run("returns products and sends search params", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v2/search", r.URL.Path)

			q := r.URL.Query()
			assert.Equal(t, "tvorog 5%", q.Get("search_terms"))
			assert.Equal(t, "5", q.Get("page_size"))
			assert.Equal(t, "ru", q.Get("lc"))
			assert.Equal(t, "ru", q.Get("cc"))
			assert.Contains(t, q.Get("fields"), "brands")

			_, _ = w.Write([]byte(`{"count":2,"page":1,"page_size":5,"products":[{"code":"1","product_name":"Tvorog 5%"},{"code":"2","product_name":"Tvorog 9%"}]}`))
		}))
		defer srv.Close()

		client, err := NewClient(WithBaseURL(srv.URL))
		require.NoError(t, err)

		result, err := client.SearchProducts(context.Background(), SearchRequest{Query: "tvorog 5%"})
		require.NoError(t, err)
		require.Len(t, result.Products, 2)
		assert.Equal(t, "Tvorog 5%", result.Products[0].Name())
		assert.Equal(t, 2, result.Count)
		assert.Equal(t, 5, result.PageSize)
	})

	t.Run("empty products array is a normal outcome", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"count":0,"page":1,"page_size":5,"products":[]}`))
		}))
		defer srv.Close()

		client, err := NewClient(WithBaseURL(srv.URL))
		require.NoError(t, err)

		result, err := client.SearchProducts(context.Background(), SearchRequest{Query: "zzzz"})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Empty(t, result.Products)
	})

	t.Run("missing products key yields empty non-nil slice", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"count":0}`))
		}))
		defer srv.Close()

		client, err := NewClient(WithBaseURL(srv.URL))
		require.NoError(t, err)

		result, err := client.SearchProducts(context.Background(), SearchRequest{Query: "zzzz"})
		require.NoError(t, err)
		require.NotNil(t, result.Products)
		assert.Empty(t, result.Products)
	})

	t.Run("honors requested page size", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "10", r.URL.Query().Get("page_size"))
			_, _ = w.Write([]byte(`{"count":0,"products":[]}`))
		}))
		defer srv.Close()

		client, err := NewClient(WithBaseURL(srv.URL))
		require.NoError(t, err)

		_, err = client.SearchProducts(context.Background(), SearchRequest{Query: "milk", PageSize: 10})
		require.NoError(t, err)
	})

	t.Run("surfaces status errors", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client, err := NewClient(WithBaseURL(srv.URL))
		require.NoError(t, err)

		_, err = client.SearchProducts(context.Background(), SearchRequest{Query: "milk"})
		require.Error(t, err)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	})

	t.Run("rejects empty query", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient()
		require.NoError(t, err)

		_, err = client.SearchProducts(context.Background(), SearchRequest{Query: ""})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query is empty")
	})
}

func TestStatusError(t *testing.T) {
	t.Parallel()

	withBody := &StatusError{StatusCode: 500, Body: "boom"}
	assert.Equal(t, "open food facts returned status 500: boom", withBody.Error())

	withoutBody := &StatusError{StatusCode: 502}
	assert.Equal(t, "open food facts returned status 502", withoutBody.Error())
	assert.False(t, errors.Is(withoutBody, ErrTransport))
}
