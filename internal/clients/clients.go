// Package clients holds the HTTP clients the order workflow uses to reach
// its collaborator services. Each client distinguishes three outcomes:
// semantic not-found (the service answered 404), a normal answer, and
// transport failure (connection refused, timeout, 5xx). The last is an
// *UnavailableError so callers can fail with "we couldn't check" instead
// of silently collapsing outages into rejections.
package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/THARU12342000/CMS/internal/domain/order"
)

// UnavailableError marks a collaborator as unreachable: the request never
// produced a usable answer.
type UnavailableError struct {
	Service string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s service unavailable: %v", e.Service, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, order.ErrUpstreamUnavailable) match any
// UnavailableError regardless of the underlying transport fault.
func (e *UnavailableError) Is(target error) bool {
	return target == order.ErrUpstreamUnavailable
}

// Options configures the shared client behavior.
type Options struct {
	// Timeout bounds each individual attempt. Zero means 10s.
	Timeout time.Duration
	// Retries is the number of extra attempts after a transport failure.
	// Semantic responses (any HTTP status) are never retried. Zero means 1.
	Retries int
	// Client overrides the underlying http.Client, mainly for tests.
	Client *http.Client
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.Retries <= 0 {
		o.Retries = 1
	}
	if o.Client == nil {
		o.Client = &http.Client{}
	}
	return o
}

// doRetry performs the request built by build, retrying transport failures
// up to opts.Retries times with a fresh per-attempt timeout. A response
// with any status code counts as an answer and stops the retries.
func doRetry(ctx context.Context, opts Options, service string, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &UnavailableError{Service: service, Err: err}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		req, err := build(attemptCtx)
		if err != nil {
			cancel()
			return nil, errors.Wrap(err, "build request")
		}

		resp, err := opts.Client.Do(req)
		if err == nil {
			// The cancel is tied to the response body: the caller must
			// close the body, which ends the attempt context.
			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		}
		cancel()
		lastErr = err
	}
	return nil, &UnavailableError{Service: service, Err: lastErr}
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}
