package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appconfig "dataproxy/internal/config"
	"dataproxy/internal/handler"
	"dataproxy/internal/metrics"
	"dataproxy/internal/middleware"
	"dataproxy/internal/provider"
)

// NewRouter 组装 gin 路由：只有 GET /api/data 一个业务路由。
func NewRouter(client provider.Fetcher, rec *metrics.Recorder) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.Metrics(rec))
	router.Use(middleware.ErrorHandler())

	handler.NewDataHandler(client, rec).RegisterRoutes(router)
	return router
}

// New 根据配置创建 proxy 的 http.Server。入站请求先经过 otelhttp，trace context 随请求 context 传到上游调用。
func New(cfg *appconfig.Config, rec *metrics.Recorder) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           middleware.WithTracing(NewRouter(provider.New(cfg.Upstream), rec)),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewMetricsServer 在独立端口上提供 /metrics；addr 为空时返回 nil。
func NewMetricsServer(addr string, rec *metrics.Recorder) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
