package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab-cost-estimator/models"
)

func TestReadSelectionYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
experiment_ids: [EXP001, EXP002]
item_usage_type:
  ITM001: unique
item_custom_quantity:
  ITM003: "4"
  ITM001: 2.5
`), 0o644))

	req, err := readSelection(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"EXP001", "EXP002"}, req.ExperimentIDs)
	assert.Equal(t, models.UsageType("unique"), req.ItemUsageType["ITM001"])
	assert.Equal(t, 4.0, req.ItemCustomQuantity["ITM003"].Float())
	assert.Equal(t, 2.5, req.ItemCustomQuantity["ITM001"].Float())
}

func TestReadSelectionJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"experiment_ids":["EXP001"]}`), 0o644))

	req, err := readSelection(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"EXP001"}, req.ExperimentIDs)
}

func TestReadSelectionErrors(t *testing.T) {
	_, err := readSelection(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read selection")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("item_custom_quantity:\n  ITM001: lots\n"), 0o644))
	_, err = readSelection(path)
	assert.ErrorContains(t, err, "invalid numeric value")
}
