package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"risk-predictor-service/internal/config"
	"risk-predictor-service/internal/core/domain"
)

const modelJSON = `{
	"classes": [0, 1],
	"trees": [{
		"feature": [0, -1, -1],
		"threshold": [30, 0, 0],
		"children_left": [1, -1, -1],
		"children_right": [2, -1, -1],
		"value": [[], [8, 2], [1, 9]]
	}]
}`

const scalerJSON = `{"mean": [20, 0.5], "scale": [10, 0.5]}`

const featuresJSON = `["Age", "Smokes"]`

const bundleJSON = `{
	"model": ` + modelJSON + `,
	"scaler": ` + scalerJSON + `,
	"features": ` + featuresJSON + `
}`

const pipelineJSON = `{
	"features": ["Age", "Age_Group"],
	"encoders": [{"column": "Age_Group", "categories": ["Teen", "20s", "30s", "40s", "50+"]}],
	"scaler": {"mean": [20, 0, 0, 0, 0, 0], "scale": [10, 1, 1, 1, 1, 1]},
	"model": ` + modelJSON + `
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func splitConfig(t *testing.T) *config.ArtifactConfig {
	dir := t.TempDir()
	return &config.ArtifactConfig{
		Layout:       "split",
		ModelPath:    writeFile(t, dir, "best_model.json", modelJSON),
		ScalerPath:   writeFile(t, dir, "scaler.json", scalerJSON),
		FeaturesPath: writeFile(t, dir, "feature_names.json", featuresJSON),
	}
}

func TestLoader_SplitLayout(t *testing.T) {
	loader := NewLoader(splitConfig(t), true)

	p, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Age", "Smokes"}, p.Features())

	info := p.Info()
	assert.Equal(t, "split", info.Layout)
	assert.Equal(t, 2, info.FeatureCount)
	assert.Equal(t, 1, info.TreeCount)
	assert.Len(t, info.Source, 3)
}

func TestLoader_BundleLayout(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(&config.ArtifactConfig{
		Layout:     "bundle",
		BundlePath: writeFile(t, dir, "model_bundle.json", bundleJSON),
	}, true)

	p, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Age", "Smokes"}, p.Features())
	assert.Equal(t, "bundle", p.Info().Layout)
}

func TestLoader_PipelineLayout(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(&config.ArtifactConfig{
		Layout:     "pipeline",
		BundlePath: writeFile(t, dir, "pipeline.json", pipelineJSON),
	}, true)

	p, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Age", "Age_Group"}, p.Features())

	// Loaded pipeline is usable end to end.
	rec := &domain.Record{
		Columns: []string{"Age", "Age_Group"},
		Values:  []domain.Value{domain.Numeric(25), domain.Category("20s")},
	}
	proba, err := p.PredictProba(rec)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, proba[0]+proba[1], 1e-6)
}

func TestLoader_MissingFile(t *testing.T) {
	cfg := splitConfig(t)
	cfg.ModelPath = filepath.Join(t.TempDir(), "nope.json")
	loader := NewLoader(cfg, true)

	_, err := loader.Load()
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	assert.Contains(t, err.Error(), "nope.json")
}

func TestLoader_MalformedJSON(t *testing.T) {
	cfg := splitConfig(t)
	cfg.ScalerPath = writeFile(t, t.TempDir(), "scaler.json", "{not json")
	loader := NewLoader(cfg, true)

	_, err := loader.Load()
	assert.ErrorIs(t, err, domain.ErrArtifactInvalid)
}

func TestLoader_BundleMissingModel(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(&config.ArtifactConfig{
		Layout:     "bundle",
		BundlePath: writeFile(t, dir, "bundle.json", `{"scaler": `+scalerJSON+`, "features": `+featuresJSON+`}`),
	}, true)

	_, err := loader.Load()
	assert.ErrorIs(t, err, domain.ErrArtifactInvalid)
	assert.Contains(t, err.Error(), "model")
}

func TestLoader_EmptyFeatures(t *testing.T) {
	cfg := splitConfig(t)
	cfg.FeaturesPath = writeFile(t, t.TempDir(), "feature_names.json", `[]`)
	loader := NewLoader(cfg, true)

	_, err := loader.Load()
	assert.ErrorIs(t, err, domain.ErrArtifactInvalid)
	assert.Contains(t, err.Error(), "features")
}

func TestLoader_ModelWithoutTrees(t *testing.T) {
	cfg := splitConfig(t)
	cfg.ModelPath = writeFile(t, t.TempDir(), "best_model.json", `{"classes": [0, 1], "trees": []}`)
	loader := NewLoader(cfg, true)

	_, err := loader.Load()
	assert.ErrorIs(t, err, domain.ErrArtifactInvalid)
	assert.Contains(t, err.Error(), "trees")
}

func TestLoader_ScalerArityMismatch(t *testing.T) {
	cfg := splitConfig(t)
	cfg.ScalerPath = writeFile(t, t.TempDir(), "scaler.json", `{"mean": [20], "scale": [10]}`)
	loader := NewLoader(cfg, true)

	_, err := loader.Load()
	assert.ErrorIs(t, err, domain.ErrArtifactInvalid)
}

func TestLoader_TreeNodeArrayMismatch(t *testing.T) {
	cfg := splitConfig(t)
	cfg.ModelPath = writeFile(t, t.TempDir(), "best_model.json", `{
		"classes": [0, 1],
		"trees": [{
			"feature": [0, -1],
			"threshold": [30],
			"children_left": [1, -1],
			"children_right": [2, -1],
			"value": [[], [8, 2]]
		}]
	}`)
	loader := NewLoader(cfg, true)

	_, err := loader.Load()
	assert.ErrorIs(t, err, domain.ErrArtifactInvalid)
}

func TestLoader_DerivedCategoricalWithoutEncoder(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.ArtifactConfig{
		Layout:       "split",
		ModelPath:    writeFile(t, dir, "best_model.json", modelJSON),
		ScalerPath:   writeFile(t, dir, "scaler.json", scalerJSON),
		FeaturesPath: writeFile(t, dir, "feature_names.json", `["Age", "Age_Group"]`),
	}

	// With derivation on, Age_Group arrives as a category and the split
	// layout carries no encoder for it: structurally unusable, caught at load.
	_, err := NewLoader(cfg, true).Load()
	assert.ErrorIs(t, err, domain.ErrArtifactInvalid)
	assert.Contains(t, err.Error(), "Age_Group")

	// With derivation off the same artifact is a plain numeric one and loads.
	p, err := NewLoader(cfg, false).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Age", "Age_Group"}, p.Features())
}

func TestLoader_UnknownLayout(t *testing.T) {
	loader := NewLoader(&config.ArtifactConfig{Layout: "pickle"}, true)

	_, err := loader.Load()
	assert.ErrorIs(t, err, domain.ErrArtifactInvalid)
}
