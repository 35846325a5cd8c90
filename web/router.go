// ABOUTME: gin HTTP handler serving the JSON API, the HTML dashboard, and /metrics
// ABOUTME: Adds request ids, a pass-through session cookie, CORS, and zap request logs
package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/logging"
	"github.com/harperreed/crmboard/metrics"
	"github.com/harperreed/crmboard/models"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "crm_request_id"
	sessionContextKey   = "crm_session_id"
)

var errMissingService = errors.New("crm service dependency required")

type Dependencies struct {
	Service *crm.Service
	Metrics *metrics.Collector
	Logger  *zap.Logger
	// Cache, when set, serves dashboards published by a background refresher.
	Cache           *DashboardCache
	Window          analytics.Window
	SessionCookie   string
	SessionRequired bool
}

func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Service == nil {
		return nil, errMissingService
	}
	if deps.Window == "" {
		deps.Window = analytics.ThisMonth
	}
	if deps.SessionCookie == "" {
		deps.SessionCookie = "crm_session"
	}

	page, err := parsePage()
	if err != nil {
		return nil, err
	}

	handler := &httpHandler{
		svc:     deps.Service,
		cache:   deps.Cache,
		logger:  logging.OrNop(deps.Logger),
		window:  deps.Window,
		cookie:  deps.SessionCookie,
		require: deps.SessionRequired,
		page:    page,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(handler.requestLog)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	app := router.Group("/")
	app.Use(handler.session)
	app.GET("/", handler.handleDashboardPage)

	api := app.Group("/api")
	api.GET("/board", handler.handleBoard)
	api.POST("/deals/:id/stage", handler.handleMoveDeal)
	api.GET("/dashboard", handler.handleDashboard)
	api.GET("/leads", handler.handleLeads)
	api.POST("/leads/:id/convert", handler.handleConvertLead)
	api.GET("/tasks", handler.handleTasks)
	api.POST("/tasks/:id/toggle", handler.handleToggleTask)
	api.GET("/activities", handler.handleActivities)

	return router, nil
}

type httpHandler struct {
	svc     *crm.Service
	cache   *DashboardCache
	logger  *zap.Logger
	window  analytics.Window
	cookie  string
	require bool
	page    pageRenderer
}

func (h *httpHandler) requestLog(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = ulid.Make().String()
	}
	c.Set(requestIDContextKey, requestID)
	c.Header(requestIDHeader, requestID)

	start := time.Now()
	c.Next()

	h.logger.Info("http request",
		zap.String("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("took", time.Since(start)),
		zap.String("session", c.GetString(sessionContextKey)),
	)
}

// session reads the browser session id, minting one when it is absent. The
// id only correlates requests in the logs; nothing is stored against it.
func (h *httpHandler) session(c *gin.Context) {
	id, err := c.Cookie(h.cookie)
	if err == nil {
		if _, perr := uuid.Parse(id); perr != nil {
			id = ""
		}
	}
	if id == "" {
		if h.require {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session_required"})
			return
		}
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.cookie, id, 0, "/", "", false, true)
	}
	c.Set(sessionContextKey, id)
	c.Next()
}

// writeError maps domain errors onto status codes.
func (h *httpHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case models.IsValidation(err):
		status, code = http.StatusBadRequest, "invalid_request"
	case models.IsNotFound(err):
		status, code = http.StatusNotFound, "not_found"
	case models.IsState(err):
		status, code = http.StatusConflict, "conflict"
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("request_id", c.GetString(requestIDContextKey)), zap.Error(err))
		c.JSON(status, gin.H{"error": code})
		return
	}
	c.JSON(status, gin.H{"error": code, "message": err.Error()})
}
