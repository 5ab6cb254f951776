package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Dataset overview
// @Tags dataset
// @Produce json
// @Success 200 {object} dataset.Overview
// @Failure 503 {object} map[string]any
// @Router /api/dataset/overview [get]
func (h *Handler) DatasetOverview(c *gin.Context) {
	ov, err := h.Dataset.Overview()
	if err != nil {
		h.Logger.Error().Err(err).Str("path", h.Dataset.Path).Msg("dataset overview failed")
		writeError(c, http.StatusServiceUnavailable, "DATASET_UNAVAILABLE", "Dataset could not be loaded", err.Error())
		return
	}
	c.JSON(http.StatusOK, ov)
}

// @Summary Exploratory analysis
// @Description Churn breakdown, support calls by label, churn by data plan, histograms and correlations
// @Tags dataset
// @Produce json
// @Success 200 {object} dataset.EDA
// @Failure 503 {object} map[string]any
// @Router /api/dataset/eda [get]
func (h *Handler) DatasetEDA(c *gin.Context) {
	eda, err := h.Dataset.EDA()
	if err != nil {
		h.Logger.Error().Err(err).Str("path", h.Dataset.Path).Msg("dataset eda failed")
		writeError(c, http.StatusServiceUnavailable, "DATASET_UNAVAILABLE", "Dataset could not be loaded", err.Error())
		return
	}
	c.JSON(http.StatusOK, eda)
}
