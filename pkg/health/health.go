// Package health aggregates readiness checks for the server's
// dependencies and serves them over HTTP.
package health

import (
	"context"
	"sync"
	"time"
)

// Status is the outcome of a single check or the aggregate.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult is the outcome of one named check.
type CheckResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Checker probes one dependency. An error marks it unhealthy.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Result aggregates all registered checks.
type Result struct {
	Status    Status        `json:"status"`
	Checks    []CheckResult `json:"checks"`
	Timestamp time.Time     `json:"timestamp"`
}

// IsHealthy reports whether every check passed.
func (r Result) IsHealthy() bool {
	return r.Status == StatusHealthy
}

// Registry holds named checkers. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	checkers []Checker
	timeout  time.Duration
}

// NewRegistry creates a registry applying perCheckTimeout to every
// checker. A zero timeout defaults to 5 seconds.
func NewRegistry(perCheckTimeout time.Duration) *Registry {
	if perCheckTimeout == 0 {
		perCheckTimeout = 5 * time.Second
	}
	return &Registry{timeout: perCheckTimeout}
}

// Register adds a checker.
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, checker)
}

// Check runs all registered checks concurrently and aggregates the
// outcome. Any failing check makes the aggregate unhealthy.
func (r *Registry) Check(ctx context.Context) Result {
	r.mu.RLock()
	checkers := make([]Checker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	results := make([]CheckResult, len(checkers))
	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			results[i] = r.runOne(ctx, c)
		}(i, checker)
	}
	wg.Wait()

	status := StatusHealthy
	for _, result := range results {
		if result.Status == StatusUnhealthy {
			status = StatusUnhealthy
			break
		}
	}

	return Result{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now().UTC(),
	}
}

func (r *Registry) runOne(ctx context.Context, checker Checker) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	err := checker.Check(checkCtx)
	result := CheckResult{
		Name:     checker.Name(),
		Status:   StatusHealthy,
		Duration: time.Since(start),
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	return result
}

// Pinger matches *sql.DB and anything else exposing PingContext.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DatabaseChecker probes a database connection.
type DatabaseChecker struct {
	name string
	db   Pinger
}

// NewDatabaseChecker creates a checker that pings db.
func NewDatabaseChecker(name string, db Pinger) *DatabaseChecker {
	return &DatabaseChecker{name: name, db: db}
}

func (c *DatabaseChecker) Name() string { return c.name }

func (c *DatabaseChecker) Check(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
