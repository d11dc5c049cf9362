package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	appconfig "dataproxy/internal/config"
)

// MaxBodyBytes 上游响应体上限，超过视为 ErrMalformedBody。
const MaxBodyBytes = 10 << 20

// Client 向固定的上游端点发起带 Bearer 凭证的 GET。并发安全。
type Client struct {
	url    string
	apiKey string
	http   *http.Client
}

func New(cfg appconfig.Upstream) *Client {
	timeout := time.Duration(appconfig.DefaultTimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.MaxIdleConnsPerHost = 100

	return &Client{
		url:    strings.TrimSpace(cfg.URL),
		apiKey: cfg.APIKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(base),
		},
	}
}

// Fetch 执行一次上游调用，ctx 一般是入站请求的 context。
// 非 2xx、响应体不是合法 JSON、网络错误、超时都会返回错误；不重试。
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	if c.url == "" {
		return nil, errors.WithStack(ErrNoEndpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build upstream request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "call upstream")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, errors.Wrapf(ErrUnexpectedStatus, "status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "read upstream body")
	}
	if len(body) > MaxBodyBytes {
		return nil, errors.Wrapf(ErrMalformedBody, "body exceeds %d bytes", MaxBodyBytes)
	}
	if !json.Valid(body) {
		return nil, errors.Wrap(ErrMalformedBody, "invalid json")
	}
	return body, nil
}
