package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/knguyen2000/officehourlens/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(nil),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	api := router.Group("/api")
	{
		api.POST("/questions", handler.CreateQuestion)
		api.GET("/questions/:id", handler.GetQuestion)
		api.DELETE("/questions/:id", handler.DeleteQuestion)
		api.POST("/questions/:id/status", handler.UpdateStatus)
		api.POST("/questions/:id/resolve", handler.Resolve)
		api.GET("/queue", handler.Queue)

		api.GET("/faq", handler.ListFAQ)
		api.POST("/faq/cluster", handler.ClusterFAQ)

		api.GET("/course_docs", handler.ListCourseDocs)
		api.POST("/course_docs", handler.CreateCourseDoc)
		api.DELETE("/course_docs/:id", handler.DeleteCourseDoc)

		api.GET("/settings/:key", handler.GetSetting)
		api.PUT("/settings/:key", handler.PutSetting)

		api.POST("/seed_sample", handler.SeedSample)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
