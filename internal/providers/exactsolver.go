package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/jaydenshimshi/LineUp-sub000/internal/solver"
)

// ProviderExact identifies results produced by the exact solver sidecar.
const ProviderExact = "exact"

const breakerResetTimeout = 30 * time.Second

type exactSolveRequest struct {
	Players []solver.Player `json:"players"`
}

// ExactSolverClient calls the optional exact solver sidecar over HTTP.
type ExactSolverClient struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	logger      *logrus.Logger

	mu      sync.RWMutex
	probeOK bool
}

// NewExactSolverClient creates a client for the exact solver sidecar.
// An empty baseURL yields a disabled client.
func NewExactSolverClient(baseURL string, timeout time.Duration, breakerThreshold int, logger *logrus.Logger) *ExactSolverClient {
	settings := gobreaker.Settings{
		Name:        "exact-solver",
		MaxRequests: uint32(breakerThreshold),
		Timeout:     breakerResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &ExactSolverClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(10), 20), // sidecar handles one roster at a time, keep bursts short
		breaker:     gobreaker.NewCircuitBreaker(settings),
		logger:      logger,
	}
}

// Enabled reports whether a sidecar URL is configured.
func (c *ExactSolverClient) Enabled() bool {
	return c.baseURL != ""
}

// Healthy reports whether the sidecar answered its last probe and the breaker allows traffic.
func (c *ExactSolverClient) Healthy() bool {
	if !c.Enabled() {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.probeOK && c.breaker.State() != gobreaker.StateOpen
}

// State returns the current circuit breaker state.
func (c *ExactSolverClient) State() string {
	return c.breaker.State().String()
}

// Solve submits a roster to the sidecar and returns its result.
func (c *ExactSolverClient) Solve(ctx context.Context, players []solver.Player) (*solver.SolveResult, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("exact solver is not configured")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doSolve(ctx, players)
	})
	if err != nil {
		return nil, err
	}

	// A well-formed refusal is the sidecar working as intended, it must not
	// count against the circuit breaker.
	result := raw.(*solver.SolveResult)
	if !result.Success {
		return nil, fmt.Errorf("sidecar refused roster: %s", result.Message)
	}
	return result, nil
}

func (c *ExactSolverClient) doSolve(ctx context.Context, players []solver.Player) (*solver.SolveResult, error) {
	body, err := json.Marshal(exactSolveRequest{Players: players})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/solve", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result solver.SolveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode solve response: %w", err)
	}

	if result.Success && len(result.Assignments) == 0 {
		return nil, fmt.Errorf("sidecar returned a successful result with no assignments")
	}

	result.Provider = ProviderExact
	return &result, nil
}

// Probe checks the sidecar health endpoint and records the outcome.
// Probes run through the circuit breaker so a recovering sidecar closes it again.
func (c *ExactSolverClient) Probe(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		url := fmt.Sprintf("%s/api/health", c.baseURL)
		req, reqErr := http.NewRequestWithContext(ctx, "GET", url, nil)
		if reqErr != nil {
			return nil, reqErr
		}

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return nil, fmt.Errorf("health check failed: %w", doErr)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected health status code: %d", resp.StatusCode)
		}
		return nil, nil
	})

	c.mu.Lock()
	c.probeOK = err == nil
	c.mu.Unlock()

	if err != nil {
		c.logger.WithError(err).WithField("provider", ProviderExact).Warn("Exact solver probe failed")
	}
	return err
}
