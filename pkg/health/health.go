// Package health runs preflight checks before an index build. Components
// register Check functions, and the Checker runs them in parallel to produce
// an aggregate Report, printed by the check command or served on /readyz.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"
)

// Status represents the health state of a component or the system overall.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Check probes a single prerequisite and returns its status.
type Check func(ctx context.Context) ComponentHealth

// ComponentHealth holds the result of a single check.
type ComponentHealth struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Report is the aggregated result of all checks.
type Report struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
	Timestamp  string                     `json:"timestamp"`
}

// Checker manages registered checks and runs them concurrently.
type Checker struct {
	checks map[string]Check
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewChecker() *Checker {
	return &Checker{
		checks: make(map[string]Check),
		logger: slog.Default().With("component", "health"),
	}
}

// Register adds a named check, replacing any check with the same name.
func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Names returns the registered check names in sorted order.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes all registered checks concurrently. The overall status is the
// worst status among all components.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := make(map[string]Check, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()
	report := Report{
		Status:     StatusUp,
		Components: make(map[string]ComponentHealth, len(checks)),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, check := range checks {
		wg.Add(1)
		go func(n string, ch Check) {
			defer wg.Done()
			start := time.Now()
			result := ch(ctx)
			result.Latency = time.Since(start).Round(time.Millisecond).String()
			if result.Status != StatusUp {
				c.logger.Warn("check not up", "check", n, "status", result.Status, "message", result.Message)
			}
			mu.Lock()
			report.Components[n] = result
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()
	for _, comp := range report.Components {
		switch comp.Status {
		case StatusDown:
			report.Status = StatusDown
			return report
		case StatusDegraded:
			report.Status = StatusDegraded
		}
	}
	return report
}

// ReadableFile reports down unless path is an openable regular file.
func ReadableFile(path string) Check {
	return func(ctx context.Context) ComponentHealth {
		f, err := os.Open(path)
		if err != nil {
			return ComponentHealth{Status: StatusDown, Message: err.Error()}
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return ComponentHealth{Status: StatusDown, Message: err.Error()}
		}
		if !info.Mode().IsRegular() {
			return ComponentHealth{Status: StatusDown, Message: fmt.Sprintf("%s is not a regular file", path)}
		}
		return ComponentHealth{Status: StatusUp}
	}
}

// ReadableDir reports down unless path is a listable directory.
func ReadableDir(path string) Check {
	return func(ctx context.Context) ComponentHealth {
		entries, err := os.ReadDir(path)
		if err != nil {
			return ComponentHealth{Status: StatusDown, Message: err.Error()}
		}
		if len(entries) == 0 {
			return ComponentHealth{Status: StatusDegraded, Message: "directory is empty"}
		}
		return ComponentHealth{Status: StatusUp, Message: fmt.Sprintf("%d entries", len(entries))}
	}
}

// WritableDir reports down unless a file can be created in path. A missing
// directory is created, matching what the build does.
func WritableDir(path string) Check {
	return func(ctx context.Context) ComponentHealth {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return ComponentHealth{Status: StatusDown, Message: err.Error()}
		}
		f, err := os.CreateTemp(path, ".health-*")
		if err != nil {
			return ComponentHealth{Status: StatusDown, Message: err.Error()}
		}
		name := f.Name()
		f.Close()
		os.Remove(name)
		return ComponentHealth{Status: StatusUp}
	}
}

// Ping wraps a connectivity probe such as a Redis or PostgreSQL ping.
func Ping(ping func(ctx context.Context) error) Check {
	return func(ctx context.Context) ComponentHealth {
		if err := ping(ctx); err != nil {
			return ComponentHealth{Status: StatusDown, Message: err.Error()}
		}
		return ComponentHealth{Status: StatusUp}
	}
}

// LiveHandler returns an HTTP handler for liveness probes.
func (c *Checker) LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "alive",
		})
	}
}

// ReadyHandler returns an HTTP handler for readiness probes.
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		report := c.Run(ctx)
		w.Header().Set("Content-Type", "application/json")
		if report.Status == StatusUp {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(report)
	}
}
