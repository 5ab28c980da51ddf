package domain

// Label is the discrete risk class produced by the artifact.
type Label int

const (
	LabelLowRisk  Label = 0
	LabelHighRisk Label = 1
)

// Prediction is the outcome of one predict call: a class label and the class
// probability pair (P(low), P(high)), summing to 1 within floating tolerance.
type Prediction struct {
	Label         Label
	Probabilities [2]float64
}

func (p Prediction) RiskLevel() string {
	if p.Label == LabelHighRisk {
		return "high"
	}
	return "low"
}

// ArtifactInfo describes a loaded artifact for diagnostics endpoints.
type ArtifactInfo struct {
	Layout       string
	Source       []string
	FeatureCount int
	TreeCount    int
	Classes      []int
}
