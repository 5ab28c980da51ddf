package services

import (
	"fmt"
	"strconv"
	"strings"

	"risk-predictor-service/internal/core/domain"
)

// FeatureVectorService reconstructs the single-row feature record the artifact
// expects: every required raw field validated and coerced, engineered columns
// re-derived with the training-time formulas, columns emitted in the exact
// order the artifact was fit on.
type FeatureVectorService struct{}

func NewFeatureVectorService() *FeatureVectorService {
	return &FeatureVectorService{}
}

// Build assembles a record whose columns exactly equal required, in order.
// Raw fields not named in required are dropped silently. With derive=false the
// engineered column names are treated as ordinary raw fields and must be
// supplied by the caller. No partial record is ever returned.
func (s *FeatureVectorService) Build(raw domain.RawInput, required []string, derive bool) (*domain.Record, error) {
	// Only the columns the record consumes are coerced: required raw fields
	// plus the derivation sources of required engineered columns. Extra raw
	// fields never affect the outcome, malformed or not.
	needed := make(map[string]bool, len(required))
	var derivedCols []string
	for _, col := range required {
		if derive && domain.IsDerived(col) {
			derivedCols = append(derivedCols, col)
			continue
		}
		if _, ok := raw[col]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingFeature, col)
		}
		needed[col] = true
	}
	for _, src := range derivationSources(derivedCols) {
		needed[src] = true
	}

	values := make(map[string]domain.Value, len(needed))
	for name := range needed {
		v, ok := raw[name]
		if !ok {
			// Absent derivation source; deriveColumn names the missing field.
			continue
		}
		val, err := coerceValue(name, v)
		if err != nil {
			return nil, err
		}
		values[name] = val
	}

	rec := &domain.Record{
		Columns: make([]string, 0, len(required)),
		Values:  make([]domain.Value, 0, len(required)),
	}
	for _, col := range required {
		var val domain.Value
		if derive && domain.IsDerived(col) {
			derived, err := s.deriveColumn(col, values)
			if err != nil {
				return nil, err
			}
			val = derived
		} else {
			val = values[col]
		}
		rec.Columns = append(rec.Columns, col)
		rec.Values = append(rec.Values, val)
	}

	return rec, nil
}

// deriveColumn computes one engineered column from the coerced raw values.
// The formulas must stay bit-exact with the training pipeline.
func (s *FeatureVectorService) deriveColumn(name string, values map[string]domain.Value) (domain.Value, error) {
	switch name {
	case domain.FeatureAgeGroup:
		age, err := sourceNum(values, domain.FeatureAge)
		if err != nil {
			return domain.Value{}, err
		}
		label, err := ageGroup(age)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.Category(label), nil

	case domain.FeatureFirstSexAge:
		first, err := sourceNum(values, domain.FeatureFirstIntercourse)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.Numeric(first), nil

	case domain.FeatureExposureDuration:
		age, err := sourceNum(values, domain.FeatureAge)
		if err != nil {
			return domain.Value{}, err
		}
		first, err := sourceNum(values, domain.FeatureFirstIntercourse)
		if err != nil {
			return domain.Value{}, err
		}
		// May be negative for inconsistent input; passed through unclamped.
		return domain.Numeric(age - first), nil

	case domain.FeaturePregnancyDensity:
		pregnancies, err := sourceNum(values, domain.FeatureNumPregnancies)
		if err != nil {
			return domain.Value{}, err
		}
		age, err := sourceNum(values, domain.FeatureAge)
		if err != nil {
			return domain.Value{}, err
		}
		denom := age - 12
		if denom < 1 {
			denom = 1
		}
		return domain.Numeric(pregnancies / denom), nil
	}

	return domain.Value{}, fmt.Errorf("%w: %s", domain.ErrMissingFeature, name)
}

// Age buckets fixed at training time: (0,20] (20,30] (30,40] (40,50] (50,100].
var (
	ageGroupUpper  = []float64{20, 30, 40, 50, 100}
	ageGroupLabels = []string{"Teen", "20s", "30s", "40s", "50+"}
)

func ageGroup(age float64) (string, error) {
	if age <= 0 || age > 100 {
		return "", fmt.Errorf("%w: %s=%g (want 0 < age <= 100)", domain.ErrOutOfDomain, domain.FeatureAge, age)
	}
	for i, upper := range ageGroupUpper {
		if age <= upper {
			return ageGroupLabels[i], nil
		}
	}
	return ageGroupLabels[len(ageGroupLabels)-1], nil
}

func sourceNum(values map[string]domain.Value, name string) (float64, error) {
	v, ok := values[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrMissingFeature, name)
	}
	return v.Num, nil
}

// coerceValue normalizes one decoded JSON field value. Numbers pass through,
// booleans and yes/no strings map to the binary 1/0 encoding the training data
// used, numeric strings parse.
func coerceValue(name string, v interface{}) (domain.Value, error) {
	switch t := v.(type) {
	case float64:
		return domain.Numeric(t), nil
	case float32:
		return domain.Numeric(float64(t)), nil
	case int:
		return domain.Numeric(float64(t)), nil
	case int64:
		return domain.Numeric(float64(t)), nil
	case bool:
		if t {
			return domain.Numeric(1), nil
		}
		return domain.Numeric(0), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "true":
			return domain.Numeric(1), nil
		case "no", "false":
			return domain.Numeric(0), nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return domain.Numeric(f), nil
		}
		return domain.Value{}, fmt.Errorf("%w: %s=%q", domain.ErrTypeMismatch, name, t)
	}
	return domain.Value{}, fmt.Errorf("%w: %s (%T)", domain.ErrTypeMismatch, name, v)
}
