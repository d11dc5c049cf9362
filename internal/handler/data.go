package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dataproxy/internal/metrics"
	"dataproxy/internal/provider"
)

const (
	DataPath = "/api/data"

	// errorBody 是所有上游失败的统一响应体，不携带任何原因。
	errorBody = "Error"
)

// DataHandler 把 GET /api/data 转发到固定的上游端点。无状态，可并发使用。
type DataHandler struct {
	client  provider.Fetcher
	metrics *metrics.Recorder
}

func NewDataHandler(client provider.Fetcher, rec *metrics.Recorder) *DataHandler {
	return &DataHandler{client: client, metrics: rec}
}

// RegisterRoutes 注册 GET /api/data。
func (h *DataHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET(DataPath, h.handleData)
}

func (h *DataHandler) handleData(c *gin.Context) {
	start := time.Now()
	body, err := h.client.Fetch(c.Request.Context())
	h.metrics.ObserveUpstream(provider.Outcome(err), time.Since(start))

	if provider.IsProxyFailure(err) {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, errorBody)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
