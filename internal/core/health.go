package core

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// healthCheckTimeout bounds the whole probe run. Probes still running at the
// deadline are reported as timed out.
const healthCheckTimeout = 2 * time.Second

// HealthProbe checks one dependency the service needs to answer requests.
type HealthProbe interface {
	Name() string
	Check(ctx context.Context) error
}

type componentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components,omitempty"`
}

// HandleHealth runs every registered probe concurrently and answers 200 when
// all pass, 503 otherwise. With no probes it reports healthy.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if len(s.HealthProbes) == 0 {
		JSON(w, r, http.StatusOK, healthResponse{Status: "healthy"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]error, len(s.HealthProbes))
	)
	for _, probe := range s.HealthProbes {
		wg.Add(1)
		go func(p HealthProbe) {
			defer wg.Done()
			err := runProbe(ctx, p)
			mu.Lock()
			results[p.Name()] = err
			mu.Unlock()
		}(probe)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()

	resp := healthResponse{
		Status:     "healthy",
		Components: make(map[string]componentStatus, len(s.HealthProbes)),
	}
	for _, probe := range s.HealthProbes {
		name := probe.Name()
		err, finished := results[name]
		switch {
		case !finished:
			resp.Status = "unhealthy"
			resp.Components[name] = componentStatus{Status: "unhealthy", Message: "health check timed out"}
		case err != nil:
			resp.Status = "unhealthy"
			resp.Components[name] = componentStatus{Status: "unhealthy", Message: err.Error()}
		default:
			resp.Components[name] = componentStatus{Status: "healthy"}
		}
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	JSON(w, r, status, resp)
}

func runProbe(ctx context.Context, p HealthProbe) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			err = fmt.Errorf("probe panicked: %v", rvr)
		}
	}()
	return p.Check(ctx)
}

// StaticDirProbe reports unhealthy when the frontend directory or its
// index.html is missing.
type StaticDirProbe struct {
	Dir string
}

func (p StaticDirProbe) Name() string { return "static_files" }

func (p StaticDirProbe) Check(_ context.Context) error {
	info, err := os.Stat(p.Dir)
	if err != nil {
		return fmt.Errorf("static directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("static directory %q is not a directory", p.Dir)
	}
	if _, err := os.Stat(filepath.Join(p.Dir, "index.html")); err != nil {
		return fmt.Errorf("index.html: %w", err)
	}
	return nil
}
