package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Juicern/kotoba/internal/service"
)

func NewRouter(
	transcriptService *service.TranscriptService,
	translationService *service.TranslationService,
	logger *slog.Logger,
) http.Handler {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestID(), allowAllOrigins())

	api := &API{
		transcripts:  transcriptService,
		translations: translationService,
		logger:       logger,
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.registerRoutes(r.Group("/api"))

	return r
}
