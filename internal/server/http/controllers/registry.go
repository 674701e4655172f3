package controllers

import (
	"net/http"

	"github.com/siltdb/silt/internal/metrics"
	"github.com/siltdb/silt/internal/runtime"
	topicsvc "github.com/siltdb/silt/internal/topics"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes
// and manages the lifecycle of individual controllers.
type ControllerRegistry struct {
	general *GeneralController
	topics  *TopicsController
}

// NewControllerRegistry creates a new controller registry.
//
// It initializes all controllers with the provided runtime and services.
func NewControllerRegistry(rt *runtime.Runtime, topicsSvc *topicsvc.Service) *ControllerRegistry {
	return &ControllerRegistry{
		general: NewGeneralController(rt, topicsSvc),
		topics:  NewTopicsController(rt, topicsSvc),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
//
// This sets up the general endpoints (health, namespaces), the topic
// endpoints, and the Prometheus exposition endpoint.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.topics.RegisterRoutes(mux)
	mux.Handle("/metrics", metrics.Handler())
}
