// cmd/server/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/pricelens/scrapex/internal/monitoring"
	"github.com/pricelens/scrapex/pkg/scrapex"
)

// scrapeJob tracks one batch discovery request submitted through the
// admin API, keyed by job ID so /api/v1/scrapers/{id} can poll it.
type scrapeJob struct {
	ID        string                `json:"id"`
	Query     string                `json:"query"`
	Retailers []string              `json:"retailers,omitempty"`
	Status    string                `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	Results   []scrapex.BatchResult `json:"results,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// jobStore is an in-memory registry of submitted scrape jobs. A real
// deployment would back this with the output layer's database writers;
// this keeps the admin surface self-contained for now.
type jobStore struct {
	mu   sync.RWMutex
	jobs map[string]*scrapeJob
	next int
}

func newJobStore() *jobStore {
	return &jobStore{jobs: make(map[string]*scrapeJob)}
}

func (s *jobStore) create(query string, retailers []string) *scrapeJob {
	s.mu.Lock()
	s.next++
	job := &scrapeJob{
		ID:        "job-" + strconv.Itoa(s.next),
		Query:     query,
		Retailers: retailers,
		Status:    "created",
		CreatedAt: time.Now(),
	}
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return job
}

func (s *jobStore) get(id string) (*scrapeJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

func (s *jobStore) list() []*scrapeJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*scrapeJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job)
	}
	return out
}

// Server is the admin HTTP surface: health/metrics endpoints backed by
// internal/monitoring, and a job API that submits discovery requests to
// the retailer-orchestrator facade.
type Server struct {
	client  *scrapex.Client
	jobs    *jobStore
	health  *monitoring.HealthManager
	metrics *monitoring.MetricsManager
	apiKey  string
}

// NewServer wires an admin surface around an already-configured facade
// client. apiKey may be empty, in which case authMiddleware is a no-op.
func NewServer(client *scrapex.Client, apiKey string) *Server {
	health := monitoring.NewHealthManager(monitoring.HealthConfig{DetailedResponse: true})
	health.RegisterCheck(&monitoring.HealthCheck{
		Name:     "retailer_registry",
		Critical: true,
		CheckFunc: func(ctx context.Context) monitoring.HealthCheckResult {
			active := client.Registry().ListActive(nil, nil)
			if len(active) == 0 {
				return monitoring.HealthCheckResult{
					Status:  monitoring.HealthStatusUnhealthy,
					Message: "no active retailers in catalog",
				}
			}
			return monitoring.HealthCheckResult{
				Status:   monitoring.HealthStatusHealthy,
				Metadata: map[string]interface{}{"active_retailers": len(active)},
			}
		},
	})

	return &Server{
		client:  client,
		jobs:    newJobStore(),
		health:  health,
		metrics: monitoring.NewMetricsManager(monitoring.MetricsConfig{}),
		apiKey:  apiKey,
	}
}

// Start begins background health polling. Callers should also defer
// s.health.Stop().
func (s *Server) Start(ctx context.Context) {
	s.health.Start(ctx)
}

// Routes builds the router. Health and metrics are unauthenticated (they
// back readiness/liveness probes and scrape targets); the job API sits
// behind authMiddleware and a global rate limiter.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.healthHandler).Methods("GET")
	r.Handle("/metrics", s.metrics.MetricsHandler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/scrapers", s.createScraperHandler).Methods("POST")
	api.HandleFunc("/scrapers", s.listScrapersHandler).Methods("GET")
	api.HandleFunc("/scrapers/{id}", s.getScraperHandler).Methods("GET")
	api.Use(s.authMiddleware)

	return s.rateLimitMiddleware(r)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := s.health.GetHealth()
	w.Header().Set("Content-Type", "application/json")
	if health.Status == monitoring.HealthStatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

type createScraperRequest struct {
	Query     string   `json:"query"`
	Retailers []string `json:"retailers,omitempty"`
}

// createScraperHandler submits a batch discovery job and runs it
// synchronously against the orchestrator-driven facade — spec.md §2's
// (query, retailers) entrypoint, now reachable over HTTP.
func (s *Server) createScraperHandler(w http.ResponseWriter, r *http.Request) {
	var req createScraperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	job := s.jobs.create(req.Query, req.Retailers)
	s.metrics.RecordJobStart(job.ID, "discover")

	results, err := s.client.Scrape(r.Context(), req.Query, req.Retailers)
	if err != nil {
		job.Status = "failed"
		job.Error = err.Error()
		s.metrics.RecordJobFailed(job.ID, "discover", time.Since(job.CreatedAt))
	} else {
		job.Status = "completed"
		job.Results = results
		s.metrics.RecordJobComplete(job.ID, "discover", time.Since(job.CreatedAt))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}

func (s *Server) listScrapersHandler(w http.ResponseWriter, r *http.Request) {
	jobs := s.jobs.list()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"scrapers": jobs,
		"total":    len(jobs),
	})
}

func (s *Server) getScraperHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, ok := s.jobs.get(id)
	if !ok {
		http.Error(w, "scraper job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// authMiddleware requires a Bearer token matching s.apiKey. An empty
// apiKey disables auth, matching the teacher's permissive local-dev mode.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	if s.apiKey == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
			return
		}
		if strings.TrimPrefix(authHeader, "Bearer ") != s.apiKey {
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware applies a single process-wide token bucket to the
// admin API, independent of session.Manager's per-domain outbound pacing.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(10), 20)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
