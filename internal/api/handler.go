package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/catalog"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/form"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/notify"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/service"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/session"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ReadinessCheck reports whether a dependency is usable
type ReadinessCheck func() error

// Handler contains HTTP handlers
type Handler struct {
	pages        *service.PageService
	hub          *notify.Hub
	allowOrigins []string
	upgrader     websocket.Upgrader
	submissions  SubmissionLister
	readiness    map[string]ReadinessCheck
	logger       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(pages *service.PageService, hub *notify.Hub, allowOrigins []string) *Handler {
	h := &Handler{
		pages:        pages,
		hub:          hub,
		allowOrigins: allowOrigins,
		readiness:    make(map[string]ReadinessCheck),
		logger:       util.GetLogger(),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// AddReadinessCheck registers a dependency probed by /ready
func (h *Handler) AddReadinessCheck(name string, check ReadinessCheck) {
	h.readiness[name] = check
}

// SetSubmissionLister enables the submission inbox routes
func (h *Handler) SetSubmissionLister(l SubmissionLister) {
	h.submissions = l
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(cors.New(h.corsConfig()))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sessions", h.createSession)
		v1.GET("/submissions", h.listSubmissions)

		s := v1.Group("/sessions/:session_id")
		{
			s.DELETE("", h.closeSession)
			s.GET("/ws", h.websocket)

			store := s.Group("/store")
			{
				store.GET("/products", h.listProducts)
				store.PUT("/category", h.selectProductCategory)
				store.GET("/cart", h.getCart)
				store.POST("/cart/items", h.addToCart)
				store.PATCH("/cart/items/:product_id", h.adjustCartItem)
				store.DELETE("/cart/items/:product_id", h.removeFromCart)
				store.GET("/order-form", h.getOrderForm)
				store.PATCH("/order-form", h.updateOrderForm)
				store.POST("/checkout", h.checkout)
			}

			portfolio := s.Group("/portfolio")
			{
				portfolio.GET("/projects", h.listProjects)
				portfolio.PUT("/category", h.selectProjectCategory)
				portfolio.GET("/skills", h.listSkills)
				portfolio.GET("/contact-form", h.getContactForm)
				portfolio.PATCH("/contact-form", h.updateContactForm)
				portfolio.POST("/contact", h.submitContact)
			}
		}
	}
}

// corsConfig allows every origin when none are configured
func (h *Handler) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", idempotencyHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(h.allowOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = h.allowOrigins
	cfg.AllowCredentials = true
	return cfg
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck probes every registered dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	failed := gin.H{}
	for name, check := range h.readiness {
		if err := check(); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not ready",
			"details": failed,
			"time":    time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// writeError maps service errors to HTTP responses
func (h *Handler) writeError(c *gin.Context, err error, notifications []models.Notification) {
	status := http.StatusInternalServerError
	body := gin.H{"error": "Internal error", "details": err.Error()}

	var verr *form.ValidationError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		status, body["error"] = http.StatusNotFound, "Session not found"
	case errors.Is(err, catalog.ErrRecordNotFound):
		status, body["error"] = http.StatusNotFound, "Product not found"
	case errors.Is(err, catalog.ErrUnknownCategory):
		status, body["error"] = http.StatusBadRequest, "Unknown category"
	case errors.Is(err, form.ErrUnknownField):
		status, body["error"] = http.StatusBadRequest, "Unknown form field"
	case errors.Is(err, service.ErrEmptyCart):
		status, body["error"] = http.StatusUnprocessableEntity, "Cart is empty"
	case errors.Is(err, service.ErrDuplicateSubmission):
		status, body["error"] = http.StatusConflict, "Already submitted"
	case errors.As(err, &verr):
		status, body["error"] = http.StatusUnprocessableEntity, "Required fields are empty"
		body["missing"] = verr.Missing
	default:
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	if notifications != nil {
		body["notifications"] = notifications
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string, err error) {
	body := gin.H{"error": msg}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}

func (h *Handler) createSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.pages.CreateSession(c.Request.Context()))
}

func (h *Handler) closeSession(c *gin.Context) {
	if err := h.pages.CloseSession(c.Request.Context(), c.Param("session_id")); err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// websocket streams the session's notifications
func (h *Handler) websocket(c *gin.Context) {
	sessionID := c.Param("session_id")
	if _, err := h.pages.Cart(c.Request.Context(), sessionID); err != nil {
		h.writeError(c, err, nil)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Serve(sessionID, conn)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.allowOrigins) == 0 {
		return true
	}
	for _, allowed := range h.allowOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
