package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"lab-cost-estimator/db"
	"lab-cost-estimator/metrics"
	"lab-cost-estimator/models"
	"lab-cost-estimator/utils"
)

// loadDocument decodes a named document into v. It reports false when the
// caller should fall back to an empty document: the document was never
// saved, or its contents could not be decoded.
func loadDocument(ctx context.Context, store db.DocumentStore, name string, v any) (bool, error) {
	found, err := store.Load(ctx, name, v)
	if err != nil {
		if errors.Is(err, db.ErrCorruptDocument) {
			utils.Log.Warnf("⚠️  %s document is unreadable, starting empty: %v", name, err)
			return false, nil
		}
		utils.Log.Errorf("❌ Error loading %s from %s backend: %v", name, store.Name(), err)
		return false, fmt.Errorf("failed to load %s: %w", name, err)
	}
	if !found {
		utils.Log.Infof("📄 No %s document in %s backend, starting empty", name, store.Name())
	}
	return found, nil
}

// saveDocument persists a whole document and records the outcome
func saveDocument(ctx context.Context, store db.DocumentStore, name string, v any) error {
	err := store.Save(ctx, name, v)
	metrics.RecordSave(name, err)
	if err != nil {
		utils.Log.Errorf("❌ Error saving %s to %s backend: %v", name, store.Name(), err)
		return models.PersistenceError(name, err)
	}
	utils.Log.Debugf("💾 Saved %s to %s backend", name, store.Name())
	return nil
}

// finite rejects values that cannot be persisted as JSON numbers
func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
