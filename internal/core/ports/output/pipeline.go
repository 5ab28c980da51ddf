package ports

import (
	"risk-predictor-service/internal/core/domain"
)

// Pipeline is the capability surface of a loaded artifact. The artifact's
// internal preprocessing (encoding, scaling) and predictor are opaque behind
// these operations so services can be tested against a mock.
type Pipeline interface {
	// Features returns the ordered column names the pipeline was fit on.
	Features() []string

	// Transform applies the artifact's own encoding and scaling, producing
	// the numeric vector the predictor consumes.
	Transform(rec *domain.Record) ([]float64, error)

	// Predict returns the discrete risk class for the record.
	Predict(rec *domain.Record) (domain.Label, error)

	// PredictProba returns (P(low), P(high)) for the record.
	PredictProba(rec *domain.Record) ([2]float64, error)

	Info() domain.ArtifactInfo
}

// ArtifactLoader deserializes a trained pipeline from disk. Implementations
// read the configured artifact layout; callers are responsible for caching the
// handle for the process lifetime.
type ArtifactLoader interface {
	Load() (Pipeline, error)
}
