package models

// Response common response structure
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RuntimeInfo tells clients where the API is served.
type RuntimeInfo struct {
	HTTPBaseURL string `json:"http_base_url"`
	WSBaseURL   string `json:"ws_base_url"`
	Port        int    `json:"port"`
}

// HealthStatus is returned by /healthz.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
