package scorer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 100.0, w.Total())
	require.NoError(t, w.Validate())
}

func TestValidate_RejectsBadSums(t *testing.T) {
	w := DefaultWeights()
	w.LotSize = 30
	err := w.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must sum to 100")

	w = Weights{LotSize: 110, HomeValue: -10}
	err = w.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestLoadWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
lot_size: 30
home_value: 30
home_age: 15
recent_purchase: 10
location: 10
phone_quality: 5
`), 0o644))

	w, err := LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, w.LotSize)
	assert.Equal(t, 100.0, w.Total())
}

func TestLoadWeights_Errors(t *testing.T) {
	_, err := LoadWeights(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("lot_size: 40\n"), 0o644))
	_, err = LoadWeights(bad)
	require.Error(t, err)
}
