package handlers

import (
	"net/http"

	"risk-predictor-service/internal/adapters/primary/http/dto"
	"risk-predictor-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) CreatePrediction(c *gin.Context) {
	var req dto.CreatePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prediction, err := h.predictionSvc.Predict(c.Request.Context(), domain.RawInput(req.Features))
	if err != nil {
		log.WithError(err).Warn("prediction request failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPredictionResponse(prediction))
}
