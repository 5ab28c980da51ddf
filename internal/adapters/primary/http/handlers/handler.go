package handlers

import (
	"risk-predictor-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	predictionSvc *services.PredictionService
}

func New(predictionSvc *services.PredictionService) *Handler {
	return &Handler{predictionSvc: predictionSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/predictions", h.CreatePrediction)
	r.GET("/schema", h.GetSchema)
	r.GET("/artifact", h.GetArtifact)
}
