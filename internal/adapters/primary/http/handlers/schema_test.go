package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"risk-predictor-service/internal/core/domain"
	"risk-predictor-service/internal/testutil"
)

func TestGetSchema(t *testing.T) {
	loader, _ := loadedPipeline([]string{"Age", "Smokes", "Age_Group"})
	r := setupRouter(loader)

	req, _ := http.NewRequest("GET", "/api/v1/risk/schema", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Features []string `json:"features"`
		Raw      []string `json:"raw"`
		Derived  []string `json:"derived"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Age", "Smokes", "Age_Group"}, resp.Features)
	assert.Equal(t, []string{"Age", "Smokes"}, resp.Raw)
	assert.Equal(t, []string{"Age_Group"}, resp.Derived)
}

func TestGetSchema_ArtifactUnavailable(t *testing.T) {
	loader := new(testutil.MockArtifactLoader)
	loader.On("Load").Return(nil, domain.ErrArtifactInvalid)
	r := setupRouter(loader)

	req, _ := http.NewRequest("GET", "/api/v1/risk/schema", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetArtifact(t *testing.T) {
	loader, _ := loadedPipeline([]string{"Age", "Smokes"})
	r := setupRouter(loader)

	req, _ := http.NewRequest("GET", "/api/v1/risk/artifact", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Layout       string `json:"layout"`
		FeatureCount int    `json:"feature_count"`
		TreeCount    int    `json:"tree_count"`
		Classes      []int  `json:"classes"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "split", resp.Layout)
	assert.Equal(t, 2, resp.FeatureCount)
	assert.Equal(t, 5, resp.TreeCount)
	assert.Equal(t, []int{0, 1}, resp.Classes)
}
