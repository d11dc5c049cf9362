package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort           = "3000"
	DefaultTimeoutSeconds = 30
)

// Upstream 外部 API 的转发配置。URL 没有默认值，必须由配置文件或 API_URL 提供。
type Upstream struct {
	URL            string `yaml:"url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Config 定义了应用的顶层配置结构，对应 configs/config.yaml。
type Config struct {
	Server struct {
		Port  string `yaml:"port"`
		Debug bool   `yaml:"debug"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text | json
	} `yaml:"log"`

	Upstream Upstream `yaml:"upstream"`

	// Metrics.Addr 非空时在独立端口上暴露 /metrics。
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	// Telemetry.OTLPEndpoint 为 OTLP gRPC 地址（host:port），为空时只传播 trace context 不导出 span。
	Telemetry struct {
		OTLPEndpoint string `yaml:"otlp_endpoint"`
	} `yaml:"telemetry"`
}

// Default 返回未读取任何文件和环境变量时的配置。
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = DefaultPort
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Upstream.TimeoutSeconds = DefaultTimeoutSeconds
	return cfg
}

// Load 从给定路径加载 YAML 配置，文件中未出现的字段保持默认值。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault 与 Load 相同，但文件不存在时返回 Default()。
func LoadOrDefault(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv 用环境变量覆盖配置。空值视为未设置（PORT= 仍使用 3000）。
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set("PORT", &c.Server.Port)
	set("API_URL", &c.Upstream.URL)
	set("LOG_LEVEL", &c.Log.Level)
	set("METRICS_ADDR", &c.Metrics.Addr)
	set("LOG_FORMAT", &c.Log.Format)
	set("OTLP_ENDPOINT", &c.Telemetry.OTLPEndpoint)

	// 凭证原样使用：不 trim、不校验，设置为空也生效
	if v, ok := lookup("API_KEY"); ok {
		c.Upstream.APIKey = v
	}
}

// Validate 只检查启动必需项；API_KEY 与上游 URL 在请求时才使用，不在此校验。
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}
	if c.Upstream.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid upstream timeout_seconds %d", c.Upstream.TimeoutSeconds)
	}
	return nil
}

// Addr 返回 proxy 监听地址，如 ":3000"。
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
