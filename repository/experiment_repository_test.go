package repository

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab-cost-estimator/db"
	"lab-cost-estimator/models"
)

func TestExperiments_RenderDropsDanglingRefs(t *testing.T) {
	_, _, experiments := newSeededStores(t)

	view, err := experiments.Get("EXP002")
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, "ITM001", view.Items[0].ID)
	assert.Equal(t, []string{"ITM404"}, view.Unresolved)
	assert.Equal(t, "Titration", view.Category)
	assert.Equal(t, "CAT0002", view.CategoryID)
}

func TestExperiments_ListIsOrderedByID(t *testing.T) {
	_, _, experiments := newSeededStores(t)

	views := experiments.List()
	require.Len(t, views, 2)
	assert.Equal(t, "EXP001", views[0].ID)
	assert.Equal(t, "EXP002", views[1].ID)
}

func TestExperiments_GetUnknown(t *testing.T) {
	_, _, experiments := newSeededStores(t)

	_, err := experiments.Get("EXP999")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestExperiments_CreateDefaults(t *testing.T) {
	_, _, experiments := newSeededStores(t)
	ctx := context.Background()

	view, err := experiments.Create(ctx, models.CreateExperimentRequest{Name: ptr("Buffer Prep"), Trials: ptr(0)})
	require.NoError(t, err)

	assert.Equal(t, "EXP003", view.ID)
	assert.Equal(t, 1, view.Trials)
	assert.Equal(t, "CAT0001", view.CategoryID, "defaults to Molecular Biology")
	assert.Equal(t, []string{}, view.Grade)
	assert.Empty(t, view.Items)

	unresolved, err := experiments.Create(ctx, models.CreateExperimentRequest{Name: ptr("Optics"), Category: ptr("Physics")})
	require.NoError(t, err)
	assert.Equal(t, "", unresolved.CategoryID)
	assert.Equal(t, models.UnknownCategoryName, unresolved.Category)

	_, err = experiments.Create(ctx, models.CreateExperimentRequest{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestExperiments_UpdatePartial(t *testing.T) {
	_, _, experiments := newSeededStores(t)

	view, err := experiments.Update(context.Background(), "EXP001", models.UpdateExperimentRequest{
		Trials:   ptr(-3),
		Category: ptr("Titration"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Gel Electrophoresis", view.Name)
	assert.Equal(t, 1, view.Trials)
	assert.Equal(t, "CAT0002", view.CategoryID)
	assert.Equal(t, []string{"11"}, view.Grade)

	_, err = experiments.Update(context.Background(), "EXP999", models.UpdateExperimentRequest{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestExperiments_Delete(t *testing.T) {
	_, _, experiments := newSeededStores(t)
	ctx := context.Background()

	require.NoError(t, experiments.Delete(ctx, "EXP002"))
	assert.Len(t, experiments.List(), 1)
	assert.ErrorIs(t, experiments.Delete(ctx, "EXP002"), models.ErrNotFound)
}

func TestExperiments_AddItem(t *testing.T) {
	_, catalog, experiments := newSeededStores(t)
	ctx := context.Background()

	view, err := experiments.AddItem(ctx, "EXP002", AddItemInput{Name: "Pipette", Quantity: ptr(2.0)})
	require.NoError(t, err)
	assert.Equal(t, "ITM003", view.ID, "existing catalog item is reused")
	assert.Equal(t, 2.0, view.Quantity)
	assert.Equal(t, 250.0, view.Price)

	created, err := experiments.AddItem(ctx, "EXP002", AddItemInput{Name: "Phenolphthalein", Price: ptr(4.0)})
	require.NoError(t, err)
	assert.Equal(t, "ITM004", created.ID)
	assert.Equal(t, 1.0, created.Quantity)
	assert.Equal(t, "ml", created.Unit)
	assert.Len(t, catalog.ListItems(), 3)

	_, err = experiments.AddItem(ctx, "EXP002", AddItemInput{Name: "PIPETTE"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = experiments.AddItem(ctx, "EXP002", AddItemInput{Name: "  "})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = experiments.AddItem(ctx, "EXP002", AddItemInput{Name: "Beaker", Quantity: ptr(-1.0)})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = experiments.AddItem(ctx, "EXP999", AddItemInput{Name: "Beaker"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestExperiments_AddItemReplacesDanglingRefWithReallocatedID(t *testing.T) {
	store := db.NewMemoryStore()
	store.Put(db.DocumentItems, []byte(`{"items":[{"id":"ITM001","name":"Agarose","unit":"g","price_per_unit":10,"category":"consumable"}]}`))
	store.Put(db.DocumentExperiments, []byte(`{"EXP001":{"id":"EXP001","name":"Gel","category":"","trials":1,"grade":[],"items":[{"id":"ITM002","quantity":5}]}}`))
	catalog := NewCatalogRepository(store)
	experiments := NewExperimentRepository(store, catalog)
	ctx := context.Background()
	require.NoError(t, catalog.Reload(ctx))
	require.NoError(t, experiments.Reload(ctx))

	added, err := experiments.AddItem(ctx, "EXP001", AddItemInput{Name: "Buffer", Quantity: ptr(2.0)})
	require.NoError(t, err)
	assert.Equal(t, "ITM002", added.ID)

	view, err := experiments.Get("EXP001")
	require.NoError(t, err)
	require.Len(t, view.Items, 1, "the dangling ref is replaced, not duplicated")
	assert.Equal(t, 2.0, view.Items[0].Quantity)
	assert.Empty(t, view.Unresolved)
}

func TestExperiments_RejectsNonFiniteQuantities(t *testing.T) {
	_, _, experiments := newSeededStores(t)
	ctx := context.Background()

	_, err := experiments.AddItem(ctx, "EXP001", AddItemInput{Name: "Beaker", Quantity: ptr(math.Inf(1))})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = experiments.UpdateItem(ctx, "EXP001", "ITM001", UpdateItemInput{Quantity: ptr(math.NaN())})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestExperiments_UpdateItem(t *testing.T) {
	_, catalog, experiments := newSeededStores(t)
	ctx := context.Background()

	view, err := experiments.UpdateItem(ctx, "EXP001", "ITM001", UpdateItemInput{Quantity: ptr(5.0), Unit: ptr("kg")})
	require.NoError(t, err)
	assert.Equal(t, 5.0, view.Quantity)
	assert.Equal(t, "kg", view.Unit)

	item, err := catalog.GetItem("ITM001")
	require.NoError(t, err)
	assert.Equal(t, "kg", item.Unit)

	_, err = experiments.UpdateItem(ctx, "EXP001", "ITM404", UpdateItemInput{Quantity: ptr(1.0)})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = experiments.UpdateItem(ctx, "EXP001", "ITM001", UpdateItemInput{Quantity: ptr(-1.0)})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestExperiments_RemoveItem(t *testing.T) {
	_, catalog, experiments := newSeededStores(t)
	ctx := context.Background()

	require.NoError(t, experiments.RemoveItem(ctx, "EXP001", "ITM003"))
	view, err := experiments.Get("EXP001")
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	_, err = catalog.GetItem("ITM003")
	assert.NoError(t, err, "catalog item survives removal")

	assert.ErrorIs(t, experiments.RemoveItem(ctx, "EXP001", "ITM003"), models.ErrNotFound)
	assert.ErrorIs(t, experiments.RemoveItem(ctx, "EXP999", "ITM001"), models.ErrNotFound)
}

func TestExperiments_SaveFailureKeepsState(t *testing.T) {
	store, _, experiments := newSeededStores(t)
	store.FailSaves(errors.New("disk full"))

	_, err := experiments.Create(context.Background(), models.CreateExperimentRequest{Name: ptr("Lost")})
	require.ErrorIs(t, err, models.ErrPersistence)
	assert.Len(t, experiments.List(), 2)

	err = experiments.Delete(context.Background(), "EXP001")
	require.ErrorIs(t, err, models.ErrPersistence)
	_, err = experiments.Get("EXP001")
	assert.NoError(t, err)
}

func TestExperiments_PersistedDocumentRoundTrips(t *testing.T) {
	store, _, experiments := newSeededStores(t)
	ctx := context.Background()

	_, err := experiments.Create(ctx, models.CreateExperimentRequest{Name: ptr("Titration II"), Grade: []string{"12"}})
	require.NoError(t, err)

	catalog := NewCatalogRepository(store)
	reloaded := NewExperimentRepository(store, catalog)
	require.NoError(t, catalog.Reload(ctx))
	require.NoError(t, reloaded.Reload(ctx))

	view, err := reloaded.Get("EXP003")
	require.NoError(t, err)
	assert.Equal(t, "Titration II", view.Name)
	assert.Equal(t, []string{"12"}, view.Grade)
}

func TestExperiments_ConcurrentAddsAllocateDistinctIDs(t *testing.T) {
	_, catalog, experiments := newSeededStores(t)
	ctx := context.Background()

	names := []string{"Beaker", "Flask", "Burette", "Funnel", "Tongs", "Cuvette", "Spatula", "Stand"}
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := experiments.AddItem(ctx, "EXP001", AddItemInput{Name: name})
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, item := range catalog.ListItems() {
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
	}
	assert.Len(t, seen, 2+len(names))

	view, err := experiments.Get("EXP001")
	require.NoError(t, err)
	assert.Len(t, view.Items, 2+len(names))
}

func TestExperiments_ReadSeesBothStores(t *testing.T) {
	_, _, experiments := newSeededStores(t)

	err := experiments.Read(func(exps ExperimentReader, cat CatalogReader) error {
		exp, ok := exps.Get("EXP001")
		require.True(t, ok)
		_, ok = cat.GetItem(exp.Items[0].ItemID)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
}
