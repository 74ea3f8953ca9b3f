package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopnow/storefront/gateway/config"
)

// InstanceHealth represents the health of one storefront instance
type InstanceHealth struct {
	URL       string        `json:"url"`
	Status    string        `json:"status"`
	Latency   time.Duration `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// GatewayHealth represents the overall gateway health
type GatewayHealth struct {
	Gateway   string           `json:"gateway"`
	Status    string           `json:"status"`
	Instances []InstanceHealth `json:"instances"`
	Uptime    float64          `json:"uptime_seconds"`
}

// HealthChecker probes storefront instances
type HealthChecker struct {
	config    *config.GatewayConfig
	client    *http.Client
	startTime time.Time
}

func NewHealthChecker(cfg *config.GatewayConfig) *HealthChecker {
	return &HealthChecker{
		config: cfg,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		startTime: time.Now(),
	}
}

// CheckInstance probes one storefront instance
func (h *HealthChecker) CheckInstance(ctx context.Context, baseURL string) InstanceHealth {
	start := time.Now()

	result := InstanceHealth{
		URL:       baseURL,
		Timestamp: time.Now(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+h.config.Upstream.HealthCheck, nil)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = err.Error()
		result.Latency = time.Since(start)
		return result
	}

	resp, err := h.client.Do(req)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Failed to reach instance: %v", err)
		result.Latency = time.Since(start)
		return result
	}
	defer resp.Body.Close()

	result.Latency = time.Since(start)

	if resp.StatusCode == http.StatusOK {
		result.Status = "healthy"
	} else {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Unexpected status code: %d", resp.StatusCode)
	}

	return result
}

// CheckAll probes every configured instance concurrently
func (h *HealthChecker) CheckAll(ctx context.Context) GatewayHealth {
	instances := make([]InstanceHealth, len(h.config.Upstream.Instances))
	var wg sync.WaitGroup

	for i, url := range h.config.Upstream.Instances {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			instances[idx] = h.CheckInstance(ctx, u)
		}(i, url)
	}

	wg.Wait()

	healthyCount := 0
	for _, inst := range instances {
		if inst.Status == "healthy" {
			healthyCount++
		}
	}

	status := "unhealthy"
	switch {
	case healthyCount == len(instances):
		status = "healthy"
	case healthyCount > 0:
		status = "degraded"
	}

	return GatewayHealth{
		Gateway:   "storefront-gateway",
		Status:    status,
		Instances: instances,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
}

// QuickCheck reports gateway liveness without probing instances
func (h *HealthChecker) QuickCheck() map[string]interface{} {
	return map[string]interface{}{
		"status":    "healthy",
		"gateway":   "storefront-gateway",
		"uptime":    time.Since(h.startTime).Seconds(),
		"timestamp": time.Now(),
	}
}
