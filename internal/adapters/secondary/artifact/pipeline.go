package artifact

import (
	"fmt"

	"risk-predictor-service/internal/core/domain"
)

// Pipeline is the deserialized artifact: one-hot encoders for the categorical
// columns, a standard scaler over the expanded vector, and the random forest.
// Immutable after load; shared read-only across requests.
type Pipeline struct {
	features []string
	encoders map[string][]string
	scaler   *standardScaler
	forest   *randomForest
	info     domain.ArtifactInfo
}

// Features returns a copy; the loaded column order must survive any caller
// mutation.
func (p *Pipeline) Features() []string {
	out := make([]string, len(p.features))
	copy(out, p.features)
	return out
}

func (p *Pipeline) Info() domain.ArtifactInfo {
	return p.info
}

// Transform expands categorical columns to their one-hot encoding in the
// artifact's category order, then applies the standard scaler. An unknown
// category encodes as all zeros, matching the fitted encoder's behavior on
// unseen labels.
func (p *Pipeline) Transform(rec *domain.Record) ([]float64, error) {
	if len(rec.Columns) != len(p.features) {
		return nil, fmt.Errorf("%w: record has %d columns, pipeline fit on %d",
			domain.ErrPredictionFailure, len(rec.Columns), len(p.features))
	}

	vec := make([]float64, 0, p.width())
	for i, col := range p.features {
		if col != rec.Columns[i] {
			return nil, fmt.Errorf("%w: column %d is %q, want %q",
				domain.ErrPredictionFailure, i, rec.Columns[i], col)
		}
		val := rec.Values[i]

		categories, categorical := p.encoders[col]
		if categorical {
			if !val.Categorical {
				return nil, fmt.Errorf("%w: column %q expects a category",
					domain.ErrPredictionFailure, col)
			}
			for _, category := range categories {
				if val.Cat == category {
					vec = append(vec, 1)
				} else {
					vec = append(vec, 0)
				}
			}
			continue
		}

		if val.Categorical {
			return nil, fmt.Errorf("%w: column %q expects a number",
				domain.ErrPredictionFailure, col)
		}
		vec = append(vec, val.Num)
	}

	return p.scaler.transform(vec)
}

func (p *Pipeline) Predict(rec *domain.Record) (domain.Label, error) {
	proba, err := p.PredictProba(rec)
	if err != nil {
		return 0, err
	}
	// Argmax; ties resolve to the lower class.
	if proba[1] > proba[0] {
		return domain.LabelHighRisk, nil
	}
	return domain.LabelLowRisk, nil
}

func (p *Pipeline) PredictProba(rec *domain.Record) ([2]float64, error) {
	vec, err := p.Transform(rec)
	if err != nil {
		return [2]float64{}, err
	}
	return p.forest.predictProba(vec)
}

// width is the transformed vector length: one slot per numeric column plus one
// per category of each categorical column.
func (p *Pipeline) width() int {
	w := 0
	for _, col := range p.features {
		if categories, ok := p.encoders[col]; ok {
			w += len(categories)
		} else {
			w++
		}
	}
	return w
}

type standardScaler struct {
	mean  []float64
	scale []float64
}

func (s *standardScaler) transform(vec []float64) ([]float64, error) {
	if len(vec) != len(s.mean) {
		return nil, fmt.Errorf("%w: scaler fit on %d columns, got %d",
			domain.ErrPredictionFailure, len(s.mean), len(vec))
	}
	out := make([]float64, len(vec))
	for i, v := range vec {
		scale := s.scale[i]
		if scale == 0 {
			// Zero-variance column; the fitted scaler divides by 1.
			scale = 1
		}
		out[i] = (v - s.mean[i]) / scale
	}
	return out, nil
}

type randomForest struct {
	classes []int
	trees   []decisionTree
}

// decisionTree holds one tree in flat-array form: node i branches left when
// x[feature[i]] <= threshold[i]. feature[i] < 0 marks a leaf whose value row
// carries per-class sample counts.
type decisionTree struct {
	feature   []int
	threshold []float64
	left      []int
	right     []int
	value     [][]float64
}

// predictProba averages the per-tree leaf class distributions, each tree's
// counts normalized to a probability row first.
func (f *randomForest) predictProba(vec []float64) ([2]float64, error) {
	var acc [2]float64
	for ti := range f.trees {
		row, err := f.trees[ti].leafValue(vec)
		if err != nil {
			return [2]float64{}, fmt.Errorf("tree %d: %w", ti, err)
		}
		total := row[0] + row[1]
		if total <= 0 {
			return [2]float64{}, fmt.Errorf("tree %d: %w: empty leaf", ti, domain.ErrPredictionFailure)
		}
		acc[0] += row[0] / total
		acc[1] += row[1] / total
	}
	n := float64(len(f.trees))
	return [2]float64{acc[0] / n, acc[1] / n}, nil
}

func (t *decisionTree) leafValue(vec []float64) ([2]float64, error) {
	node := 0
	for steps := 0; steps <= len(t.feature); steps++ {
		if node < 0 || node >= len(t.feature) {
			return [2]float64{}, fmt.Errorf("%w: node index %d out of range", domain.ErrPredictionFailure, node)
		}
		fi := t.feature[node]
		if fi < 0 {
			row := t.value[node]
			return [2]float64{row[0], row[1]}, nil
		}
		if fi >= len(vec) {
			return [2]float64{}, fmt.Errorf("%w: feature index %d out of range", domain.ErrPredictionFailure, fi)
		}
		if vec[fi] <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return [2]float64{}, fmt.Errorf("%w: traversal did not reach a leaf", domain.ErrPredictionFailure)
}
