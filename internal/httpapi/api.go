package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Juicern/kotoba/internal/service"
)

// maxTranslateBodyBytes leaves room for JSON escaping of a maximum-size text.
const maxTranslateBodyBytes = 8 << 20

type API struct {
	transcripts  *service.TranscriptService
	translations *service.TranslationService
	logger       *slog.Logger
}

func (api *API) registerRoutes(r *gin.RouterGroup) {
	r.GET("/transcript", api.getTranscript)
	r.POST("/translate", api.translate)
}

func (api *API) getTranscript(c *gin.Context) {
	videoID := c.Query("video_id")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No video ID provided"})
		return
	}

	result := api.transcripts.Fetch(c.Request.Context(), videoID)
	if !result.OK() {
		api.logger.Warn("transcript unavailable",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("video_id", videoID),
			slog.String("failure", string(result.Failure)),
			slog.String("message", result.Message),
		)
		c.JSON(http.StatusOK, gin.H{"transcript": result.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcript": result.Segments})
}

func (api *API) translate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxTranslateBodyBytes)

	var payload struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.handleError(c, service.ErrTextTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}
	if payload.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}

	translated, err := api.translations.Translate(c.Request.Context(), payload.Text)
	if err != nil {
		api.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"translated_text": translated})
}

func (api *API) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTextTooLarge):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		api.logger.Error("translation failed",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.Any("error", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
