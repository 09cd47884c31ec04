package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"

	"github.com/THARU12342000/CMS/internal/domain/order"
)

// Consent performs the caller-scoped consent read against the agreement
// service. The caller's bearer credential is always forwarded; this client
// never uses the unauthenticated broad listing.
type Consent struct {
	baseURL string
	opts    Options
}

// NewConsent creates a consent query client for the given base URL.
func NewConsent(baseURL string, opts Options) *Consent {
	return &Consent{baseURL: baseURL, opts: opts.withDefaults()}
}

type consentRecord struct {
	UserID      string `json:"userId"`
	ConsentType string `json:"consentType"`
	Status      string `json:"status"`
}

// ActiveGranted reports whether the authenticated caller holds a granted
// consent of the given type. Expiry filtering is the agreement service's
// concern; this side only looks for a granted status among the returned
// records.
func (c *Consent) ActiveGranted(ctx context.Context, consentType, credential string) (bool, error) {
	u := c.baseURL + "/agreements?consentType=" + url.QueryEscape(consentType)

	resp, err := doRetry(ctx, c.opts, "consent", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+credential)
		return req, nil
	})
	if err != nil {
		return false, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return false, order.ErrConsentNotFound
	case resp.StatusCode >= 500:
		return false, &UnavailableError{Service: "consent", Err: errors.Errorf("status %d", resp.StatusCode)}
	default:
		return false, errors.Errorf("consent query: unexpected status %d", resp.StatusCode)
	}

	var records []consentRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return false, errors.Wrap(err, "decode consent records")
	}

	for _, r := range records {
		if r.Status == "granted" {
			return true, nil
		}
	}
	return false, nil
}
