package domain

// Canonical raw field names. These are dictionary keys matched against the
// artifact's ordered feature list and must stay bit-exact with the names the
// training process used.
const (
	FeatureAge              = "Age"
	FeatureFirstIntercourse = "First sexual intercourse"
	FeatureNumPregnancies   = "Num of pregnancies"
)

// Engineered column names computed at training time and re-derived per request.
const (
	FeatureAgeGroup         = "Age_Group"
	FeatureFirstSexAge      = "First_Sex_Age"
	FeatureExposureDuration = "HPV_Exposure_Duration"
	FeaturePregnancyDensity = "Pregnancy_Density"
)

// DerivedFeatures lists the engineered columns in derivation order.
var DerivedFeatures = []string{
	FeatureAgeGroup,
	FeatureFirstSexAge,
	FeatureExposureDuration,
	FeaturePregnancyDensity,
}

// IsDerived reports whether name is an engineered column rather than a raw
// input field.
func IsDerived(name string) bool {
	for _, d := range DerivedFeatures {
		if name == d {
			return true
		}
	}
	return false
}

// RawInput holds a single submission's field values keyed by canonical feature
// name. Values arrive as decoded JSON (numbers, booleans, yes/no strings) and
// are coerced by the feature vector builder.
type RawInput map[string]interface{}

// Value is one cell of a feature record: either a numeric value or a
// categorical label destined for the artifact's one-hot encoder.
type Value struct {
	Num         float64
	Cat         string
	Categorical bool
}

func Numeric(v float64) Value {
	return Value{Num: v}
}

func Category(label string) Value {
	return Value{Cat: label, Categorical: true}
}

// Record is a single-row feature vector whose column order exactly matches the
// order the artifact was fit on. It is immutable once built and lives for one
// prediction call.
type Record struct {
	Columns []string
	Values  []Value
}
