package dto

import (
	"risk-predictor-service/internal/core/domain"
	"risk-predictor-service/internal/core/services"
)

type CreatePredictionRequest struct {
	Features map[string]interface{} `json:"features" binding:"required"`
}

type ProbabilityPair struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

type PredictionResponse struct {
	Label         int             `json:"label"`
	RiskLevel     string          `json:"risk_level"`
	Probabilities ProbabilityPair `json:"probabilities"`
}

func ToPredictionResponse(p *domain.Prediction) PredictionResponse {
	return PredictionResponse{
		Label:     int(p.Label),
		RiskLevel: p.RiskLevel(),
		Probabilities: ProbabilityPair{
			Low:  p.Probabilities[0],
			High: p.Probabilities[1],
		},
	}
}

type SchemaResponse struct {
	Features []string `json:"features"`
	Raw      []string `json:"raw"`
	Derived  []string `json:"derived"`
}

func ToSchemaResponse(s *services.Schema) SchemaResponse {
	return SchemaResponse{
		Features: s.Features,
		Raw:      s.Raw,
		Derived:  s.Derived,
	}
}

type ArtifactResponse struct {
	Layout       string   `json:"layout"`
	Source       []string `json:"source"`
	FeatureCount int      `json:"feature_count"`
	TreeCount    int      `json:"tree_count"`
	Classes      []int    `json:"classes"`
}

func ToArtifactResponse(info *domain.ArtifactInfo) ArtifactResponse {
	return ArtifactResponse{
		Layout:       info.Layout,
		Source:       info.Source,
		FeatureCount: info.FeatureCount,
		TreeCount:    info.TreeCount,
		Classes:      info.Classes,
	}
}
