package testutil

import (
	"github.com/stretchr/testify/mock"

	"risk-predictor-service/internal/core/domain"
	ports "risk-predictor-service/internal/core/ports/output"
)

// MockPipeline is a mock of the artifact's Pipeline capability.
type MockPipeline struct {
	mock.Mock
}

func (m *MockPipeline) Features() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockPipeline) Transform(rec *domain.Record) ([]float64, error) {
	args := m.Called(rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockPipeline) Predict(rec *domain.Record) (domain.Label, error) {
	args := m.Called(rec)
	return args.Get(0).(domain.Label), args.Error(1)
}

func (m *MockPipeline) PredictProba(rec *domain.Record) ([2]float64, error) {
	args := m.Called(rec)
	return args.Get(0).([2]float64), args.Error(1)
}

func (m *MockPipeline) Info() domain.ArtifactInfo {
	args := m.Called()
	return args.Get(0).(domain.ArtifactInfo)
}

// MockArtifactLoader is a mock of ArtifactLoader.
type MockArtifactLoader struct {
	mock.Mock
}

func (m *MockArtifactLoader) Load() (ports.Pipeline, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Pipeline), args.Error(1)
}
