package domain

import "errors"

// ============================================================================
// Artifact Errors
// ============================================================================

var (
	ErrArtifactNotFound = errors.New("artifact file not found")
	ErrArtifactInvalid  = errors.New("artifact structure invalid")
)

// ============================================================================
// Feature Build Errors
// ============================================================================

var (
	ErrMissingFeature = errors.New("required feature missing")
	ErrOutOfDomain    = errors.New("feature value out of domain")
	ErrTypeMismatch   = errors.New("feature value is not numeric")
)

// ============================================================================
// Prediction Errors
// ============================================================================

var (
	ErrPredictionFailure = errors.New("prediction failed")
)
