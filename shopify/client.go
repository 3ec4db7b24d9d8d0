package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Hoc27/cerropunta-app/util"
)

const (
	apiVersion = "2024-01"

	// Shopify caps REST listing pages at 250 items.
	pageLimit = 250
)

// Client talks to the Shopify Admin REST API. Requests are throttled to
// stay under the standard 2 req/s bucket.
type Client struct {
	// BaseURL may be overridden (tests, proxies). Defaults to the shop's
	// admin API root.
	BaseURL string

	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

func NewClient(shopName, accessToken string) *Client {
	return &Client{
		BaseURL:     fmt.Sprintf("https://%s.myshopify.com/admin/api/%s", shopName, apiVersion),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(2), 4),
	}
}

// ListProducts pages through every product in the store.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	return c.list(ctx, url.Values{})
}

// ListCollectionProducts pages through the products of a single collection.
func (c *Client) ListCollectionProducts(ctx context.Context, collectionID string) ([]Product, error) {
	params := url.Values{}
	params.Set("collection_id", collectionID)
	return c.list(ctx, params)
}

func (c *Client) list(ctx context.Context, params url.Values) ([]Product, error) {
	params.Set("limit", fmt.Sprintf("%d", pageLimit))

	var products []Product
	for {
		batch, next, err := c.listPage(ctx, params)
		if err != nil {
			return nil, err
		}
		products = append(products, batch...)

		if next == "" || len(batch) < pageLimit {
			break
		}
		// Cursor requests may only carry limit and page_info.
		params = url.Values{}
		params.Set("limit", fmt.Sprintf("%d", pageLimit))
		params.Set("page_info", next)
	}

	util.InfoLogger.Infof("Fetched %d products from Shopify", len(products))
	return products, nil
}

func (c *Client) listPage(ctx context.Context, params url.Values) ([]Product, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	endpoint := c.BaseURL + "/products.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building products request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("listing products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("listing products: unexpected status %s", resp.Status)
	}

	var payload struct {
		Products []Product `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("decoding products response: %w", err)
	}

	return payload.Products, nextPageInfo(resp.Header.Get("Link")), nil
}

// nextPageInfo extracts the page_info cursor from a Shopify Link header,
// e.g. `<https://shop.myshopify.com/...products.json?page_info=abc&limit=250>; rel="next"`.
func nextPageInfo(linkHeader string) string {
	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start < 0 || end < 0 || end <= start {
			continue
		}
		u, err := url.Parse(part[start+1 : end])
		if err != nil {
			continue
		}
		return u.Query().Get("page_info")
	}
	return ""
}
