package models

// Health is the response for the health endpoint.
type Health struct {
	Status  HealthStatus `json:"status"`
	Version string       `json:"version"`
}

// Readiness is the response for the readiness endpoint.
type Readiness struct {
	Status HealthStatus `json:"status"`
	Checks []Check      `json:"checks"`
}

// Check is a single readiness check result.
type Check struct {
	Name   string       `json:"name"`
	Status HealthStatus `json:"status"`
	Detail string       `json:"detail,omitempty"`
}

// SystemStatus is the authenticated operational status response.
type SystemStatus struct {
	Status    HealthStatus      `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Providers []ProviderStatus  `json:"providers"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ProviderStatus reports circuit-breaker health for one external provider.
type ProviderStatus struct {
	Name         string       `json:"name"`
	Status       HealthStatus `json:"status"`
	CircuitState string       `json:"circuit_state"`
	Failures     uint32       `json:"failures,omitempty"`
}
