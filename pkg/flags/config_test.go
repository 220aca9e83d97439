package flags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/uzairabid1/customer-simulator/pkg/apis/config/v1"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadConfigDefaultsWhenUnset(t *testing.T) {
	f := NewConfigFlags()
	cfg, err := f.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Days)
	assert.Equal(t, 10, cfg.CustomersPerDay)
	assert.Equal(t, "Bella Vista", cfg.VendorA.Name)
	assert.Equal(t, "newest_first", cfg.VendorA.Policy)
	assert.Equal(t, 0.8, cfg.Skepticism.InvestigateHigh)
}

func TestLoadConfigPartialOverlay(t *testing.T) {
	f := NewConfigFlags()
	f.Path = writeConfig(t, `
days: 30
restaurantB:
  name: Harbor Grill
  reviewPolicy: highest_rating
  trueQuality: 0.4
  menu:
    Fish and Chips: 15
`)

	cfg, err := f.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Days)
	assert.Equal(t, "Harbor Grill", cfg.VendorB.Name)
	assert.Equal(t, "highest_rating", cfg.VendorB.Policy)
	assert.Equal(t, 0.4, cfg.VendorB.TrueQuality)
	// Untouched sections keep their defaults.
	assert.Equal(t, 10, cfg.CustomersPerDay)
	assert.Equal(t, "Bella Vista", cfg.VendorA.Name)
	assert.Equal(t, 0.7, cfg.ReviewLeaveProbability)
}

func TestLoadConfigMissingFile(t *testing.T) {
	f := NewConfigFlags()
	f.Path = filepath.Join(t.TempDir(), "nope.yaml")
	_, err := f.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{
			name:     "non-positive days",
			contents: "days: 0",
		},
		{
			name:     "review probability out of range",
			contents: "reviewLeaveProbability: 1.5",
		},
		{
			name: "true quality out of range",
			contents: `
restaurantA:
  name: Bella Vista
  reviewPolicy: newest_first
  trueQuality: 1.2
  menu:
    Soup: 8
`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewConfigFlags()
			f.Path = writeConfig(t, tc.contents)
			_, err := f.LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestValidateEmptyMenu(t *testing.T) {
	cfg := v1.Default()
	cfg.VendorA.Menu = nil
	assert.Error(t, validate(cfg))
}
