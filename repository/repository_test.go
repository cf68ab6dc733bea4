package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lab-cost-estimator/db"
)

const (
	seedItems = `{"items":[
		{"id":"ITM001","name":"Agarose","unit":"g","price_per_unit":10,"category":"consumable"},
		{"id":"ITM003","name":"Pipette","unit":"pcs","price_per_unit":250,"category":"non_consumable"}
	]}`
	seedCategories = `{"categories":[
		{"id":"CAT0001","subject":"Biology","name":"Molecular Biology"},
		{"id":"CAT0002","subject":"Chemistry","name":"Titration"}
	]}`
	seedExperiments = `{
		"EXP001":{"id":"EXP001","name":"Gel Electrophoresis","category":"CAT0001","trials":2,"grade":["11"],"items":[{"id":"ITM001","quantity":3},{"id":"ITM003","quantity":1}]},
		"EXP002":{"id":"EXP002","name":"Acid Base","category":"CAT0002","trials":1,"grade":[],"items":[{"id":"ITM001","quantity":1},{"id":"ITM404","quantity":2}]}
	}`
)

func newSeededStores(t *testing.T) (*db.MemoryStore, *CatalogRepository, *ExperimentRepository) {
	t.Helper()
	store := db.NewMemoryStore()
	store.Put(db.DocumentItems, []byte(seedItems))
	store.Put(db.DocumentCategories, []byte(seedCategories))
	store.Put(db.DocumentExperiments, []byte(seedExperiments))

	catalog := NewCatalogRepository(store)
	experiments := NewExperimentRepository(store, catalog)
	ctx := context.Background()
	require.NoError(t, catalog.Reload(ctx))
	require.NoError(t, experiments.Reload(ctx))
	return store, catalog, experiments
}

func ptr[T any](v T) *T { return &v }
