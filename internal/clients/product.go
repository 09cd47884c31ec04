package clients

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"

	"github.com/THARU12342000/CMS/internal/domain/product"
)

// Product checks product existence against the product service.
type Product struct {
	baseURL string
	opts    Options
}

// NewProduct creates a product lookup client for the given base URL.
func NewProduct(baseURL string, opts Options) *Product {
	return &Product{baseURL: baseURL, opts: opts.withDefaults()}
}

// Exists returns nil when the product exists, product.ErrNotFound when the
// catalog answered 404, and *UnavailableError when the catalog could not
// be reached or answered with a server fault.
func (c *Product) Exists(ctx context.Context, productID string) error {
	u := c.baseURL + "/products/" + url.PathEscape(productID)

	resp, err := doRetry(ctx, c.opts, "product", func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	})
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return product.ErrNotFound
	case resp.StatusCode >= 500:
		return &UnavailableError{Service: "product", Err: errors.Errorf("status %d", resp.StatusCode)}
	default:
		return errors.Errorf("product lookup: unexpected status %d", resp.StatusCode)
	}
}
