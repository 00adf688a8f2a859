package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// PlaceholderImageURL is served for products with no stored image.
const PlaceholderImageURL = "https://placehold.co/600x400"

type CatalogProduct struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

func (cc *CatalogClient) ListProducts(ctx context.Context) ([]CatalogProduct, error) {
	resp, err := cc.c.Do(ctx, http.MethodGet, "/api/products", nil, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		drainAndClose(resp)
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var products []CatalogProduct
	if err := decodeJSON(resp, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == "" || p.Price < 0 {
			return nil, fmt.Errorf("catalog returned malformed product %+v", p)
		}
	}
	return products, nil
}

// FetchProductImage streams the product's image bytes. A missing or empty
// image is not an error: callers get (nil, PlaceholderImageURL, nil) and
// render the placeholder instead.
func (cc *CatalogClient) FetchProductImage(ctx context.Context, productID string) ([]byte, string, error) {
	resp, err := cc.c.Do(ctx, http.MethodGet, "/api/products/"+productID+"/image", nil, "")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, PlaceholderImageURL, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, PlaceholderImageURL, nil
	}
	return data, "", nil
}
