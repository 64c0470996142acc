package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/ctrevinoi1/agent/orchestrator"
)

// Factory builds a fresh orchestrator for one query.
type Factory func(query string) *orchestrator.Orchestrator

// Service owns the currently running investigation. One run at a time; a new
// query is accepted once the previous run reached a terminal state.
type Service struct {
	mu      sync.Mutex
	factory Factory
	current *orchestrator.Orchestrator
}

// NewService creates the service around an orchestrator factory.
func NewService(factory Factory) *Service {
	return &Service{factory: factory}
}

// StartRun creates the orchestrator for a query and installs it as the
// current run. The caller launches Run. Returns an error while a run is
// still in flight.
func (s *Service) StartRun(query string) (*orchestrator.Orchestrator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && !s.current.State().Terminal() {
		return nil, fmt.Errorf("a query is already being processed")
	}
	s.current = s.factory(query)
	return s.current, nil
}

// Current returns the active (or most recent) run, or nil before the first
// query.
func (s *Service) Current() *orchestrator.Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(svc *Service) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterQueryRoutes(r, svc)
	RegisterStreamRoutes(r, svc)
	RegisterHealthRoutes(r)
	return r
}
