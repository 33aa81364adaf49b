package aggregator

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/autobot/roboplane/internal/domain"
	"github.com/autobot/roboplane/internal/logger"
)

/*
Server is the producer-facing reply endpoint.

POST /api/command is the request/reply contract (one request, exactly one
JSON reply), which gin's handler model gives us natively: lockstep per
request without any extra bookkeeping.

GET /api/stats, /api/history, /api/health are a diagnostics surface: a
dashboard may render them, but this repo does not render one.
*/
type Server struct {
	log     *logger.Logger
	agg     *Aggregator
	monitor *HeartbeatMonitor
	engine  *gin.Engine
}

func NewServer(agg *Aggregator, monitor *HeartbeatMonitor, log *logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("roboplane-aggregator"))
	r.Use(requestLogMiddleware(log))
	r.Use(cors.Default())

	s := &Server{log: log.With("component", "AggregatorHTTP"), agg: agg, monitor: monitor, engine: r}
	s.routes()
	return s
}

func requestLogMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	s.engine.POST("/api/command", s.handleCommand)
	s.engine.GET("/api/stats", s.handleStats)
	s.engine.GET("/api/history", s.handleHistory)
	s.engine.GET("/api/health", s.handleHealth)
}

type commandRequest struct {
	Cmd      string `json:"cmd" binding:"required"`
	Source   string `json:"source"`
	Priority string `json:"priority"`
}

func (s *Server) handleCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid command"})
		return
	}

	source := domain.Source(req.Source)
	if source == "" {
		source = domain.SourceUnknown
	}
	priority := domain.Priority(req.Priority)
	if priority == "" {
		priority = domain.PriorityNormal
	}

	res := s.agg.Submit(c.Request.Context(), req.Cmd, source, priority)
	if !res.Accepted {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": res.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"intent_id": res.IntentID,
		"cmd":       res.Normalized,
		"forwarded": res.Forwarded,
		"message":   res.Message,
	})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.agg.Stats())
}

func (s *Server) handleHistory(c *gin.Context) {
	n := 10
	if v := c.Query("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			n = parsed
		}
	}
	c.JSON(http.StatusOK, gin.H{"history": s.agg.Recent(n)})
}

func (s *Server) handleHealth(c *gin.Context) {
	age := s.monitor.Age()
	status := "ok"
	if s.monitor.Stale() {
		status = "stale_heartbeat"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":             status,
		"heartbeat_age_secs": age,
		"heartbeat_is_stale": s.monitor.Stale(),
	})
}
