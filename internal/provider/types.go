package provider

import (
	"context"

	"github.com/pkg/errors"
)

// Fetcher 定义了上游服务的最小接口：发起一次调用并返回原始 JSON。
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

var (
	ErrNoEndpoint       = errors.New("upstream endpoint not configured")
	ErrUnexpectedStatus = errors.New("unexpected upstream status")
	ErrMalformedBody    = errors.New("malformed upstream body")
)

// Outcome labels for metrics and logs.
const (
	OutcomeOK         = "ok"
	OutcomeNoEndpoint = "no_endpoint"
	OutcomeStatus     = "status"
	OutcomeMalformed  = "malformed"
	OutcomeTimeout    = "timeout"
	OutcomeTransport  = "transport"
)

// IsProxyFailure 报告 err 是否为上游失败。Fetch 返回的任何非 nil 错误都是，
// 处理器据此统一返回 500。
func IsProxyFailure(err error) bool {
	return err != nil
}

// Outcome 将 Fetch 的错误归类。对调用方来说所有非 nil 错误都是同一种失败，
// 这里的细分只用于日志与指标。
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNoEndpoint):
		return OutcomeNoEndpoint
	case errors.Is(err, ErrUnexpectedStatus):
		return OutcomeStatus
	case errors.Is(err, ErrMalformedBody):
		return OutcomeMalformed
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return OutcomeTimeout
	default:
		return OutcomeTransport
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
