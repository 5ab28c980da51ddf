package services

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"risk-predictor-service/internal/core/domain"
	"risk-predictor-service/internal/core/ports/output"
)

// PredictionService owns the load-once artifact cache and drives a submission
// through build -> transform -> predict. The artifact is loaded at most once
// per process; a failed load is remembered and reported on every later call
// until the process restarts with a valid artifact.
type PredictionService struct {
	loader  ports.ArtifactLoader
	builder *FeatureVectorService
	derive  bool

	once     sync.Once
	pipeline ports.Pipeline
	loadErr  error
}

func NewPredictionService(loader ports.ArtifactLoader, builder *FeatureVectorService, derive bool) *PredictionService {
	return &PredictionService{loader: loader, builder: builder, derive: derive}
}

func (s *PredictionService) pipelineHandle() (ports.Pipeline, error) {
	s.once.Do(func() {
		s.pipeline, s.loadErr = s.loader.Load()
		if s.loadErr != nil {
			log.WithError(s.loadErr).Error("artifact load failed")
			return
		}
		info := s.pipeline.Info()
		log.WithFields(log.Fields{
			"layout":   info.Layout,
			"features": info.FeatureCount,
			"trees":    info.TreeCount,
		}).Info("artifact loaded")
	})
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.pipeline, nil
}

// Warmup forces the initial artifact load. Used at startup so load failures
// surface in the logs before the first submission.
func (s *PredictionService) Warmup() error {
	_, err := s.pipelineHandle()
	return err
}

// Predict runs one submission to completion. All errors are terminal for the
// request; the caller resubmits corrected input.
func (s *PredictionService) Predict(ctx context.Context, raw domain.RawInput) (*domain.Prediction, error) {
	pipeline, err := s.pipelineHandle()
	if err != nil {
		return nil, err
	}

	rec, err := s.builder.Build(raw, pipeline.Features(), s.derive)
	if err != nil {
		return nil, err
	}

	label, err := pipeline.Predict(rec)
	if err != nil {
		return nil, err
	}
	proba, err := pipeline.PredictProba(rec)
	if err != nil {
		return nil, err
	}

	return &domain.Prediction{Label: label, Probabilities: proba}, nil
}

// Schema describes the input surface for dynamic form rendering: the full
// ordered column list plus the split into raw fields and derived columns.
type Schema struct {
	Features []string
	Raw      []string
	Derived  []string
}

func (s *PredictionService) Schema(ctx context.Context) (*Schema, error) {
	pipeline, err := s.pipelineHandle()
	if err != nil {
		return nil, err
	}

	features := pipeline.Features()
	schema := &Schema{Features: features}
	seen := make(map[string]bool, len(features))
	for _, name := range features {
		if s.derive && domain.IsDerived(name) {
			schema.Derived = append(schema.Derived, name)
			continue
		}
		schema.Raw = append(schema.Raw, name)
		seen[name] = true
	}
	// Derivation sources the form must still collect even when the artifact
	// kept only the engineered column.
	for _, name := range derivationSources(schema.Derived) {
		if !seen[name] {
			schema.Raw = append(schema.Raw, name)
			seen[name] = true
		}
	}
	return schema, nil
}

func derivationSources(derived []string) []string {
	var out []string
	add := func(names ...string) {
		for _, n := range names {
			found := false
			for _, o := range out {
				if o == n {
					found = true
					break
				}
			}
			if !found {
				out = append(out, n)
			}
		}
	}
	for _, name := range derived {
		switch name {
		case domain.FeatureAgeGroup:
			add(domain.FeatureAge)
		case domain.FeatureFirstSexAge:
			add(domain.FeatureFirstIntercourse)
		case domain.FeatureExposureDuration:
			add(domain.FeatureAge, domain.FeatureFirstIntercourse)
		case domain.FeaturePregnancyDensity:
			add(domain.FeatureNumPregnancies, domain.FeatureAge)
		}
	}
	return out
}

func (s *PredictionService) ArtifactInfo(ctx context.Context) (*domain.ArtifactInfo, error) {
	pipeline, err := s.pipelineHandle()
	if err != nil {
		return nil, err
	}
	info := pipeline.Info()
	return &info, nil
}
