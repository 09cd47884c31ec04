// Package gateway implements the reverse proxy that fronts the backend
// services. It is a thin routing layer: no load balancing, no retries,
// just prefix-based forwarding with a JSON error fallback.
package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Routes maps each public /api prefix to a backend base URL.
type Routes struct {
	CustomerURL  string
	ProductURL   string
	AgreementURL string
	OrderURL     string
	AuditURL     string
}

// New builds the gateway handler from the routing table.
func New(routes Routes) (http.Handler, error) {
	r := chi.NewRouter()

	// Backends serve at their roots, so the public /api prefix is
	// stripped before forwarding.
	mounts := []struct {
		prefix string
		target string
	}{
		{prefix: "/api/customers", target: routes.CustomerURL},
		{prefix: "/api/products", target: routes.ProductURL},
		{prefix: "/api/agreements", target: routes.AgreementURL},
		{prefix: "/api/orders", target: routes.OrderURL},
		{prefix: "/api/audit-logs", target: routes.AuditURL},
	}

	for _, m := range mounts {
		proxy, err := newProxy(m.target, "/api")
		if err != nil {
			return nil, errors.Wrapf(err, "proxy for %s", m.prefix)
		}
		r.Handle(m.prefix, proxy)
		r.Handle(m.prefix+"/*", proxy)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"API Gateway: Route not found"}`))
	})

	return r, nil
}

func newProxy(target, strip string) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
			if strip != "" {
				pr.Out.URL.Path = strings.TrimPrefix(pr.Out.URL.Path, strip)
				if pr.Out.URL.Path == "" {
					pr.Out.URL.Path = "/"
				}
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			zctx.From(r.Context()).Error("proxy error",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"message":"Proxy error"}`))
		},
	}
	return proxy, nil
}
