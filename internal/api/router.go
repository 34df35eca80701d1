package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kodik/postcard/pkg/logging"
)

// HealthCheck reports the health of one dependency
type HealthCheck func(ctx context.Context) error

// Router sets up API routes
type Router struct {
	handler *JSONRPCHandler
	cards   *CardAPI
	checks  map[string]HealthCheck
	logger  *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(cards *CardAPI, checks map[string]HealthCheck) *Router {
	router := &Router{
		handler: NewJSONRPCHandler(),
		cards:   cards,
		checks:  checks,
		logger:  logging.WithComponent("api-router"),
	}

	router.registerMethods()

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// JSON-RPC endpoint
	engine.POST("/", r.handler.Handle)
}

// registerMethods registers all API methods
func (r *Router) registerMethods() {
	r.handler.RegisterMethod("postcard.mount", r.cards.Mount)
	r.handler.RegisterMethod("postcard.view", r.cards.View)
	r.handler.RegisterMethod("postcard.unmount", r.cards.Unmount)
	r.handler.RegisterMethod("postcard.sellers", r.cards.Sellers)
	r.handler.RegisterMethod("postcard.comments", r.cards.Comments)
	r.handler.RegisterMethod("postcard.format_age", r.cards.FormatAge)

	// Card actions
	r.handler.RegisterMethod("postcard.toggle_like", r.cards.ToggleLike)
	r.handler.RegisterMethod("postcard.toggle_comments", r.cards.ToggleComments)
	r.handler.RegisterMethod("postcard.start_reply", r.cards.StartReply)
	r.handler.RegisterMethod("postcard.cancel_reply", r.cards.CancelReply)
	r.handler.RegisterMethod("postcard.submit_comment", r.cards.SubmitComment)
	r.handler.RegisterMethod("postcard.share", r.cards.Share)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(gin.H, len(r.checks))
	for name, check := range r.checks {
		if err := check(ctx); err != nil {
			r.logger.Warn("Health check failed", zap.String("check", name), zap.Error(err))
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "OK"
	}

	overall := "OK"
	if status != http.StatusOK {
		overall = "DEGRADED"
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"service": "kodik-postcard",
		"checks":  checks,
	})
}
