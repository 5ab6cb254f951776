package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"

	"github.com/churn_guard/backend/internal/auth"
	"github.com/churn_guard/backend/internal/dataset"
	"github.com/churn_guard/backend/internal/models"
	"github.com/churn_guard/backend/internal/service"
)

// Pinger is implemented by the PostgreSQL history store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Predictions *service.PredictionService
	Dataset     *dataset.Analyzer
	Auth        *auth.Authenticator
	DB          Pinger
	Metrics     metrics.Registry
	Validator   *validator.Validate
	Logger      zerolog.Logger
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Model description
// @Description Model type, serving details and the feature glossary
// @Tags model
// @Produce json
// @Success 200 {object} models.ModelInfo
// @Router /api/model/info [get]
func (h *Handler) ModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, models.ChurnModelInfo())
}

// @Summary Form defaults
// @Tags predict
// @Produce json
// @Success 200 {object} models.CustomerFeatures
// @Router /api/predict/defaults [get]
func (h *Handler) PredictDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, models.DefaultFeatures())
}

// @Summary Metrics snapshot
// @Tags metrics
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/metrics [get]
func (h *Handler) MetricsSnapshot(c *gin.Context) {
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Status(http.StatusOK)
	metrics.WriteJSONOnce(h.Metrics, c.Writer)
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
