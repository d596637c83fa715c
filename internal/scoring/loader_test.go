package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PartialOverride(t *testing.T) {
	cfg, err := Parse([]byte(`
weights:
  price: 0.5
  rating: 0.3
  experience: 0.2
thresholds:
  close_to_budget: 0.05
`))
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Weights.Price)
	assert.Equal(t, 0.05, cfg.Thresholds.CloseToBudget)

	// untouched sections keep defaults
	assert.Equal(t, DefaultContractorRating, cfg.Defaults.ContractorRating)
	assert.Equal(t, 75.0, cfg.Thresholds.LowRisk)
}

func TestParse_UnknownFieldFails(t *testing.T) {
	_, err := Parse([]byte(`
weights:
  price: 0.4
  ratng: 0.35
`))
	require.Error(t, err)
}

func TestParse_ValidationFails(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"weights sum", "weights: {price: 0.5, rating: 0.5, experience: 0.5}", "weights"},
		{"negative weight", "weights: {price: 1.2, rating: -0.2, experience: 0}", "weights.rating"},
		{"rating default out of scale", "defaults: {contractor_rating: 6}", "defaults.contractor_rating"},
		{"risk thresholds out of order", "thresholds: {medium_risk: 80, low_risk: 70}", "thresholds"},
		{"zero price band", "thresholds: {price_band: 0}", "thresholds.price_band"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  years_experience: 3\n"), 0o600))

	cfg, raw, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Defaults.YearsExperience)
	assert.Contains(t, string(raw), "years_experience")
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestHash(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()

	ha, err := Hash(&a)
	require.NoError(t, err)
	hb, err := Hash(&b)
	require.NoError(t, err)

	assert.Len(t, ha, 64)
	assert.Equal(t, ha, hb, "hash not deterministic")

	b.Thresholds.ManyProjects = 25
	hc, err := Hash(&b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(&cfg))

	sum := cfg.Weights.Price + cfg.Weights.Rating + cfg.Weights.Experience
	assert.InDelta(t, 1.0, sum, 1e-12)
}
