package handlers

import (
	"net/http"

	"risk-predictor-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// GetSchema exposes the artifact's ordered input columns so a form can render
// its fields dynamically.
func (h *Handler) GetSchema(c *gin.Context) {
	schema, err := h.predictionSvc.Schema(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("schema request failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSchemaResponse(schema))
}

func (h *Handler) GetArtifact(c *gin.Context) {
	info, err := h.predictionSvc.ArtifactInfo(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactResponse(info))
}
