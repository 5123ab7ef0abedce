package off

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/darcons/kcal/internal/pkg/strx"
)

const (
	defaultBaseURL   = "https://world.openfoodfacts.org"
	defaultUserAgent = "kcal/dev (+https://github.com/darcons/kcal)"
	defaultTimeout   = 20 * time.Second

	defaultLang     = "ru"
	defaultCountry  = "ru"
	defaultPageSize = 5

	maxErrorBodyBytes = 4 << 10
)

var (
	defaultProductFields = []string{"code", "product_name", "nutriments", "brands", "quantity", "serving_size", "language", "lang", "lc"}
	defaultSearchFields  = []string{"code", "product_name", "brands", "nutriments", "quantity", "serving_size", "ecoscore_grade"}
)

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewClient(opts ...Option) (*Client, error) {
	var cfg options
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	baseURL := cfg.baseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("could not create open food facts client: invalid base url %q", baseURL)
	}

	userAgent := cfg.userAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		timeout := cfg.timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
	}, nil
}

// GetProduct fetches a single product by barcode. A nil product with a
// nil error means the remote does not know the code: not-found is a
// normal outcome, not an error.
func (c *Client) GetProduct(ctx context.Context, req GetProductRequest) (Product, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, errors.New("could not get product: code is empty")
	}

	fields := req.Fields
	if len(fields) == 0 {
		fields = defaultProductFields
	}

	params := url.Values{}
	params.Set("fields", strx.JoinCSV(fields))
	params.Set("lc", valueOrDefault(req.Lang, defaultLang))
	params.Set("cc", valueOrDefault(req.Country, defaultCountry))

	reqURL := fmt.Sprintf("%s/api/v2/product/%s?%s", c.baseURL, url.PathEscape(code), params.Encode())

	var body struct {
		Product Product `json:"product"`
	}
	if err := c.getJSON(ctx, reqURL, &body); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("could not get product %q: %w", code, err)
	}

	if len(body.Product) == 0 {
		return nil, nil
	}
	return body.Product, nil
}

// SearchProducts runs a free-text query. An empty result set is a
// normal outcome and comes back as a non-nil result with no products.
func (c *Client) SearchProducts(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, errors.New("could not search products: query is empty")
	}

	fields := req.Fields
	if len(fields) == 0 {
		fields = defaultSearchFields
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("fields", strx.JoinCSV(fields))
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("lc", valueOrDefault(req.Lang, defaultLang))
	params.Set("cc", valueOrDefault(req.Country, defaultCountry))

	reqURL := fmt.Sprintf("%s/api/v2/search?%s", c.baseURL, params.Encode())

	var body SearchResult
	if err := c.getJSON(ctx, reqURL, &body); err != nil {
		return nil, fmt.Errorf("could not search products %q: %w", query, err)
	}

	if body.Products == nil {
		body.Products = []Product{}
	}
	if body.PageSize == 0 {
		body.PageSize = pageSize
	}
	return &body, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

func valueOrDefault(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
