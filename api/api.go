package api

import (
	"fmt"
	"time"

	"quantreport/internal/app"
	"quantreport/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApiHandler struct {
	ReportApp app.ReportApp
}

func (m ApiHandler) StartApi(port int) error {
	router := m.Router()
	return router.Run(fmt.Sprintf(":%d", port))
}

// Router builds the gin engine without binding a port, so the lambda
// adapter and tests can drive it directly.
func (m ApiHandler) Router() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to quantreport"})
	})
	router.POST("/generateReport", m.generateReport)

	return router
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, 500)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Warnw("request failed",
		"status", code, "error", err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// logRequestMiddleware tags each request with an id and logs the
// outcome. The request-scoped logger rides the request context so
// every layer below logs with the same id.
func logRequestMiddleware(c *gin.Context) {
	requestID := uuid.NewString()
	log := logger.New().With(
		"requestID", requestID,
		"method", c.Request.Method,
		"route", c.Request.URL.Path,
	)
	c.Request = c.Request.WithContext(logger.AddToContext(c.Request.Context(), log))

	start := time.Now().UTC()
	c.Next()

	log.Infow("request complete",
		"status", c.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
	)
}
