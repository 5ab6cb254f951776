package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/churn_guard/backend/internal/models"
	"github.com/churn_guard/backend/internal/scoring"
)

type PredictRequest struct {
	Data []map[string]any `json:"data" validate:"required,min=1"`
}

type HistoryResponse struct {
	KPIs  models.HistoryKPIs     `json:"kpis"`
	Items []models.HistoryRecord `json:"items"`
}

// @Summary Score customers
// @Description Scores a batch of customer profiles and records each prediction in the history log
// @Tags predict
// @Accept json
// @Produce json
// @Param payload body PredictRequest true "Customer rows"
// @Success 200 {object} service.Outcome
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Failure 504 {object} map[string]any
// @Router /api/predict [post]
func (h *Handler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "At least one customer row is required", err.Error())
		return
	}

	scoreReq, err := scoring.NewRequest(req.Data)
	if err != nil {
		h.writeScoringError(c, err)
		return
	}

	outcome, err := h.Predictions.Predict(c.Request.Context(), scoreReq.Items)
	if err != nil {
		h.writeScoringError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// @Summary Prediction history
// @Description KPIs and the combined prediction log, newest first
// @Tags history
// @Produce json
// @Success 200 {object} HistoryResponse
// @Router /api/history [get]
func (h *Handler) History(c *gin.Context) {
	kpis, items := h.Predictions.History(c.Request.Context())
	if items == nil {
		items = []models.HistoryRecord{}
	}
	c.JSON(http.StatusOK, HistoryResponse{KPIs: kpis, Items: items})
}

func (h *Handler) writeScoringError(c *gin.Context, err error) {
	var se *scoring.Error
	if !errors.As(err, &se) {
		h.Logger.Error().Err(err).Msg("prediction failed")
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Prediction failed", err.Error())
		return
	}
	status := scoringStatus(se)
	details := map[string]any{"kind": se.Kind}
	if se.StatusCode != 0 {
		details["upstream_status"] = se.StatusCode
	}
	if se.Body != "" {
		details["upstream_body"] = se.Body
	}
	writeError(c, status, errorCode(se.Kind), se.UserMessage(), details)
}

func scoringStatus(se *scoring.Error) int {
	switch se.Kind {
	case scoring.KindInvalidInput:
		return http.StatusBadRequest
	case scoring.KindConfiguration:
		return http.StatusServiceUnavailable
	case scoring.KindNetwork:
		if se.Timeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

func errorCode(kind scoring.Kind) string {
	switch kind {
	case scoring.KindInvalidInput:
		return "VALIDATION_ERROR"
	case scoring.KindConfiguration:
		return "SCORING_NOT_CONFIGURED"
	case scoring.KindNetwork:
		return "SCORING_UNREACHABLE"
	case scoring.KindAuthentication:
		return "SCORING_UNAUTHORIZED"
	case scoring.KindEndpoint:
		return "SCORING_ENDPOINT_ERROR"
	case scoring.KindMalformedResponse:
		return "SCORING_MALFORMED_RESPONSE"
	case scoring.KindContractViolation:
		return "SCORING_CONTRACT_VIOLATION"
	}
	return "SCORING_ERROR"
}
