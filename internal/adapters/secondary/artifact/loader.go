package artifact

import (
	"encoding/json"
	"fmt"
	"os"

	"risk-predictor-service/internal/config"
	"risk-predictor-service/internal/core/domain"
	ports "risk-predictor-service/internal/core/ports/output"
)

// Loader reads a trained pipeline export from local disk. Three layouts match
// the shapes the training process emits: "split" (model, scaler and feature
// names in separate files), "pipeline" (one self-contained file) and "bundle"
// (one file with a named {model, scaler, features} mapping).
type Loader struct {
	cfg *config.ArtifactConfig

	// derive mirrors the predictor's derivation setting so artifacts are
	// validated against how they will be used: with derivation on, the
	// categorical engineered column must ship with its fitted encoder.
	derive bool
}

func NewLoader(cfg *config.ArtifactConfig, derive bool) *Loader {
	return &Loader{cfg: cfg, derive: derive}
}

// modelSpec is the serialized random forest: per-tree flat node arrays plus
// the class order of the leaf value rows.
type modelSpec struct {
	Classes []int      `json:"classes"`
	Trees   []treeSpec `json:"trees"`
}

type treeSpec struct {
	Feature   []int       `json:"feature"`
	Threshold []float64   `json:"threshold"`
	Left      []int       `json:"children_left"`
	Right     []int       `json:"children_right"`
	Value     [][]float64 `json:"value"`
}

type scalerSpec struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type encoderSpec struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories"`
}

type bundleSpec struct {
	Model    *modelSpec  `json:"model"`
	Scaler   *scalerSpec `json:"scaler"`
	Features []string    `json:"features"`
}

type pipelineSpec struct {
	Features []string      `json:"features"`
	Encoders []encoderSpec `json:"encoders"`
	Scaler   *scalerSpec   `json:"scaler"`
	Model    *modelSpec    `json:"model"`
}

func (l *Loader) Load() (ports.Pipeline, error) {
	switch l.cfg.Layout {
	case "split":
		return l.loadSplit()
	case "pipeline":
		return l.loadPipeline()
	case "bundle":
		return l.loadBundle()
	}
	return nil, fmt.Errorf("%w: unknown layout %q", domain.ErrArtifactInvalid, l.cfg.Layout)
}

func (l *Loader) loadSplit() (ports.Pipeline, error) {
	var model modelSpec
	if err := readSpec(l.cfg.ModelPath, &model); err != nil {
		return nil, err
	}
	var scaler scalerSpec
	if err := readSpec(l.cfg.ScalerPath, &scaler); err != nil {
		return nil, err
	}
	var features []string
	if err := readSpec(l.cfg.FeaturesPath, &features); err != nil {
		return nil, err
	}

	sources := []string{l.cfg.ModelPath, l.cfg.ScalerPath, l.cfg.FeaturesPath}
	return assemble("split", sources, features, nil, &scaler, &model, l.derive)
}

func (l *Loader) loadPipeline() (ports.Pipeline, error) {
	var spec pipelineSpec
	if err := readSpec(l.cfg.BundlePath, &spec); err != nil {
		return nil, err
	}
	return assemble("pipeline", []string{l.cfg.BundlePath}, spec.Features, spec.Encoders, spec.Scaler, spec.Model, l.derive)
}

func (l *Loader) loadBundle() (ports.Pipeline, error) {
	var spec bundleSpec
	if err := readSpec(l.cfg.BundlePath, &spec); err != nil {
		return nil, err
	}
	return assemble("bundle", []string{l.cfg.BundlePath}, spec.Features, nil, spec.Scaler, spec.Model, l.derive)
}

func readSpec(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrArtifactInvalid, path, err)
	}
	return nil
}

// assemble validates the deserialized parts and produces the immutable
// pipeline handle. Every structural requirement the predictor relies on is
// checked here so predict-time failures can only come from the input itself.
func assemble(layout string, sources, features []string, encoders []encoderSpec, scaler *scalerSpec, model *modelSpec, derive bool) (*Pipeline, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: missing features", domain.ErrArtifactInvalid)
	}
	if scaler == nil {
		return nil, fmt.Errorf("%w: missing scaler", domain.ErrArtifactInvalid)
	}
	if model == nil {
		return nil, fmt.Errorf("%w: missing model", domain.ErrArtifactInvalid)
	}
	if len(model.Trees) == 0 {
		return nil, fmt.Errorf("%w: model has no trees", domain.ErrArtifactInvalid)
	}
	if len(model.Classes) != 2 {
		return nil, fmt.Errorf("%w: model has %d classes, want 2", domain.ErrArtifactInvalid, len(model.Classes))
	}
	if len(scaler.Mean) != len(scaler.Scale) {
		return nil, fmt.Errorf("%w: scaler mean/scale length mismatch (%d vs %d)",
			domain.ErrArtifactInvalid, len(scaler.Mean), len(scaler.Scale))
	}

	encoderMap := make(map[string][]string, len(encoders))
	for _, enc := range encoders {
		if len(enc.Categories) == 0 {
			return nil, fmt.Errorf("%w: encoder for %q has no categories", domain.ErrArtifactInvalid, enc.Column)
		}
		encoderMap[enc.Column] = enc.Categories
	}
	for col := range encoderMap {
		if !contains(features, col) {
			return nil, fmt.Errorf("%w: encoder column %q not in features", domain.ErrArtifactInvalid, col)
		}
	}
	if derive && contains(features, domain.FeatureAgeGroup) {
		// Derivation emits Age_Group as a category; without its encoder the
		// artifact can never transform a record.
		if _, ok := encoderMap[domain.FeatureAgeGroup]; !ok {
			return nil, fmt.Errorf("%w: categorical column %q has no encoder", domain.ErrArtifactInvalid, domain.FeatureAgeGroup)
		}
	}

	forest := &randomForest{classes: model.Classes}
	for i, spec := range model.Trees {
		tree, err := buildTree(spec)
		if err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", domain.ErrArtifactInvalid, i, err)
		}
		forest.trees = append(forest.trees, tree)
	}

	p := &Pipeline{
		features: features,
		encoders: encoderMap,
		scaler:   &standardScaler{mean: scaler.Mean, scale: scaler.Scale},
		forest:   forest,
		info: domain.ArtifactInfo{
			Layout:       layout,
			Source:       sources,
			FeatureCount: len(features),
			TreeCount:    len(model.Trees),
			Classes:      model.Classes,
		},
	}

	if len(scaler.Mean) != p.width() {
		return nil, fmt.Errorf("%w: scaler fit on %d columns, transform produces %d",
			domain.ErrArtifactInvalid, len(scaler.Mean), p.width())
	}

	return p, nil
}

func buildTree(spec treeSpec) (decisionTree, error) {
	n := len(spec.Feature)
	if n == 0 {
		return decisionTree{}, fmt.Errorf("empty tree")
	}
	if len(spec.Threshold) != n || len(spec.Left) != n || len(spec.Right) != n || len(spec.Value) != n {
		return decisionTree{}, fmt.Errorf("node array length mismatch")
	}
	for i, row := range spec.Value {
		if spec.Feature[i] < 0 && len(row) < 2 {
			return decisionTree{}, fmt.Errorf("leaf %d has %d class values, want 2", i, len(row))
		}
	}
	return decisionTree{
		feature:   spec.Feature,
		threshold: spec.Threshold,
		left:      spec.Left,
		right:     spec.Right,
		value:     spec.Value,
	}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
