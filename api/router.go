package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pagefields/api/handler"
	"github.com/use-agent/pagefields/cache"
	"github.com/use-agent/pagefields/config"
)

// DataPath is the extraction endpoint.
const DataPath = "/api/v1/data"

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
func NewRouter(x handler.Extractor, counter cache.Counter, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.SetHTMLTemplate(handler.IndexPage)

	r.GET("/", handler.Index(DataPath))

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(counter, cfg.Cache.Backend, startTime))
	v1.GET("/data", handler.Data(x))
	v1.POST("/data", handler.Data(x))

	return r
}
