package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-faster/errors"

	"github.com/THARU12342000/CMS/internal/domain/audit"
)

var _ audit.Store = (*Audit)(nil)

// Audit implements audit.Store over the audit service's HTTP API. It backs
// the audit.Recorder in every service that emits events; the recorder, not
// this client, is what makes the emission best-effort.
type Audit struct {
	baseURL string
	opts    Options
}

// NewAudit creates an audit emission client for the given base URL.
func NewAudit(baseURL string, opts Options) *Audit {
	return &Audit{baseURL: baseURL, opts: opts.withDefaults()}
}

type auditPayload struct {
	UserID    string         `json:"userId"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp,omitzero"`
}

// Append posts one entry to the audit service.
func (c *Audit) Append(ctx context.Context, e audit.Entry) error {
	body, err := json.Marshal(auditPayload{
		UserID:    e.UserID,
		Action:    e.Action,
		Details:   e.Details,
		Timestamp: e.CreatedAt,
	})
	if err != nil {
		return errors.Wrap(err, "marshal audit entry")
	}

	resp, err := doRetry(ctx, c.opts, "audit", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audit-logs", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusCreated {
		return errors.Errorf("audit append: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// List fetches entries from the audit service, optionally filtered by user.
func (c *Audit) List(ctx context.Context, userID string) ([]audit.Entry, error) {
	u := c.baseURL + "/audit-logs"
	if userID != "" {
		u += "?userId=" + url.QueryEscape(userID)
	}

	resp, err := doRetry(ctx, c.opts, "audit", func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("audit list: unexpected status %d", resp.StatusCode)
	}

	var payloads []auditPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, errors.Wrap(err, "decode audit entries")
	}

	entries := make([]audit.Entry, len(payloads))
	for i, p := range payloads {
		entries[i] = audit.Entry{
			UserID:    p.UserID,
			Action:    p.Action,
			Details:   p.Details,
			CreatedAt: p.Timestamp,
		}
	}
	return entries, nil
}
