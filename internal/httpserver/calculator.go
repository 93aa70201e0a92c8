package httpserver

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"github.com/wbunit/web/internal/observability"
)

// newCalculatorProxy forwards the calculator route tree to the service that
// owns it. The path is kept as-is so the upstream sees /calculator/... too.
func newCalculatorProxy(upstream string) (http.Handler, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("parse calculator upstream: %w", err)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			observability.FromContext(r.Context()).Warn("calculator upstream failed",
				zap.String("upstream", target.Host),
				zap.Error(err),
			)
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		},
	}
	return proxy, nil
}
