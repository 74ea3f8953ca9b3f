package proxy

import (
	"bytes"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/shopnow/storefront/gateway/config"
	"github.com/shopnow/storefront/gateway/loadbalancer"
	"github.com/shopnow/storefront/pkg/logger"
)

const (
	maxAttempts = 3
	baseBackoff = time.Second
	maxBackoff  = 30 * time.Second
)

// ReverseProxy forwards requests to storefront instances, retrying
// idempotent requests with exponential backoff
type ReverseProxy struct {
	config *config.GatewayConfig
	client *http.Client
	lb     *loadbalancer.RoundRobin
}

func NewReverseProxy(cfg *config.GatewayConfig) *ReverseProxy {
	return &ReverseProxy{
		config: cfg,
		lb:     loadbalancer.NewRoundRobin(cfg.Upstream.Instances),
		client: &http.Client{
			Timeout: cfg.Upstream.Timeout,
		},
	}
}

// backoffDelay grows exponentially per attempt and is capped
func backoffDelay(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * baseBackoff
	if delay > maxBackoff {
		delay = maxBackoff
	}
	return delay
}

func retryable(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// ProxyRequest forwards the request to the storefront service
func (p *ReverseProxy) ProxyRequest(c *fiber.Ctx) error {
	body := c.Body()

	attempts := 1
	if retryable(c.Method()) {
		attempts = maxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt - 1)
			logger.Logger.Warn().
				Int("attempt", attempt+1).
				Dur("backoff", delay).
				Str("path", c.Path()).
				Msg("Retrying upstream request")
			time.Sleep(delay)
		}

		serverURL := p.lb.Next()
		if serverURL == "" {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "No available storefront instances",
			})
		}

		resp, err := p.forward(c, serverURL, body)
		if err != nil {
			lastErr = err
			continue
		}

		// 5xx from the upstream counts as a retryable failure
		if resp.StatusCode >= http.StatusInternalServerError && attempt < attempts-1 {
			resp.Body.Close()
			lastErr = fiber.NewError(resp.StatusCode, "upstream server error")
			continue
		}

		return p.writeResponse(c, resp)
	}

	logger.Logger.Error().
		Err(lastErr).
		Str("path", c.Path()).
		Int("attempts", attempts).
		Msg("Upstream request failed after retries")

	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error":   "Failed to reach storefront service",
		"details": lastErr.Error(),
	})
}

func (p *ReverseProxy) forward(c *fiber.Ctx, serverURL string, body []byte) (*http.Response, error) {
	targetURL := buildTargetURL(c, serverURL)

	req, err := http.NewRequestWithContext(c.UserContext(), c.Method(), targetURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	copyRequestHeaders(c, req)
	return p.client.Do(req)
}

func (p *ReverseProxy) writeResponse(c *fiber.Ctx, resp *http.Response) error {
	defer resp.Body.Close()

	for key, values := range resp.Header {
		if strings.ToLower(key) == "content-length" {
			continue
		}
		for _, value := range values {
			c.Set(key, value)
		}
	}

	c.Status(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read upstream response",
		})
	}

	return c.Send(body)
}

// LoadBalancer exposes the instance pool for health and stats endpoints
func (p *ReverseProxy) LoadBalancer() *loadbalancer.RoundRobin {
	return p.lb
}

func buildTargetURL(c *fiber.Ctx, serverURL string) string {
	path := string(c.Request().URI().Path())

	queryString := string(c.Request().URI().QueryString())
	if queryString != "" {
		queryString = "?" + queryString
	}

	return serverURL + path + queryString
}

func copyRequestHeaders(c *fiber.Ctx, req *http.Request) {
	c.Request().Header.VisitAll(func(key, value []byte) {
		keyStr := string(key)
		if strings.ToLower(keyStr) == "host" {
			return
		}
		req.Header.Set(keyStr, string(value))
	})

	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Proto", c.Protocol())
	req.Header.Set("X-Forwarded-Host", c.Hostname())
}
