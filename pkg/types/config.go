package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "medscan/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ValidatorConfig holds settings for the external drug-name validator.
type ValidatorConfig struct {
	HTTPConfig `yaml:",inline"`

	// Enabled controls whether the validator tier runs at all.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// MaxRetries is the retry budget for rate-limited requests (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// OCRConfig holds settings for the OCR front-end.
type OCRConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the Cloud Vision API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// HistoryConfig holds settings for the scan-history store.
type HistoryConfig struct {
	// HistoryDir is the base directory for the history database and exports.
	HistoryDir string `json:"history_dir" yaml:"history_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ServiceConfig holds settings for the HTTP scan service.
type ServiceConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Validator ValidatorConfig `json:"validator" yaml:"validator"`
	OCR       OCRConfig       `json:"ocr" yaml:"ocr"`
	History   HistoryConfig   `json:"history" yaml:"history"`
	Service   ServiceConfig   `json:"service" yaml:"service"`
}
