package middleware

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// WithTracing 为入站请求建立 span 并提取 traceparent，下游 provider 的 otelhttp transport 会把它带到上游。
func WithTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "proxy_request",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
	)
}
