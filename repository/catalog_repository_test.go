package repository

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab-cost-estimator/db"
	"lab-cost-estimator/models"
)

func TestCatalog_ReloadEmptyBackend(t *testing.T) {
	catalog := NewCatalogRepository(db.NewMemoryStore())
	require.NoError(t, catalog.Reload(context.Background()))

	assert.NotNil(t, catalog.ListItems())
	assert.Empty(t, catalog.ListItems())
	assert.Empty(t, catalog.ListCategories())
}

func TestCatalog_ReloadCorruptDocumentDegradesToEmpty(t *testing.T) {
	store := db.NewMemoryStore()
	store.Put(db.DocumentItems, []byte("{broken"))
	store.Put(db.DocumentCategories, []byte(seedCategories))

	catalog := NewCatalogRepository(store)
	require.NoError(t, catalog.Reload(context.Background()))

	assert.Empty(t, catalog.ListItems())
	assert.Len(t, catalog.ListCategories(), 2)
}

func TestCatalog_CategoryLookups(t *testing.T) {
	_, catalog, _ := newSeededStores(t)

	assert.Equal(t, "Titration", catalog.CategoryName("CAT0002"))
	assert.Equal(t, models.UnknownCategoryName, catalog.CategoryName("CAT9999"))
	assert.Equal(t, "CAT0001", catalog.CategoryIDByName("Molecular Biology"))
	assert.Equal(t, "", catalog.CategoryIDByName("Astrophysics"))
}

func TestCatalog_UpsertItemByName_CreatesWithNextID(t *testing.T) {
	store, catalog, _ := newSeededStores(t)

	item, err := catalog.UpsertItemByName(context.Background(), "  Ethanol ", models.ItemPatch{})
	require.NoError(t, err)

	assert.Equal(t, "ITM004", item.ID)
	assert.Equal(t, "Ethanol", item.Name)
	assert.Equal(t, "ml", item.Unit)
	assert.Equal(t, 0.0, item.PricePerUnit)
	assert.Equal(t, models.ItemCategoryConsumable, item.Category)

	raw, ok := store.Raw(db.DocumentItems)
	require.True(t, ok)
	var doc models.ItemsDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc.Items, 3)
}

func TestCatalog_UpsertItemByName_UpdatesOnlySuppliedFields(t *testing.T) {
	_, catalog, _ := newSeededStores(t)

	item, err := catalog.UpsertItemByName(context.Background(), "agarose", models.ItemPatch{Price: ptr(12.5)})
	require.NoError(t, err)

	assert.Equal(t, "ITM001", item.ID)
	assert.Equal(t, "Agarose", item.Name)
	assert.Equal(t, 12.5, item.PricePerUnit)
	assert.Equal(t, "g", item.Unit)
	assert.Len(t, catalog.ListItems(), 2)
}

func TestCatalog_UpsertItemByName_RejectsNegativePrice(t *testing.T) {
	_, catalog, _ := newSeededStores(t)

	_, err := catalog.UpsertItemByName(context.Background(), "Ethanol", models.ItemPatch{Price: ptr(-1.0)})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCatalog_RejectsNonFinitePrices(t *testing.T) {
	store, catalog, _ := newSeededStores(t)
	ctx := context.Background()

	for _, price := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		_, err := catalog.UpsertItemByName(ctx, "Ethanol", models.ItemPatch{Price: ptr(price)})
		assert.ErrorIs(t, err, models.ErrValidation)

		_, err = catalog.UpdateItemPrice(ctx, "ITM001", price)
		assert.ErrorIs(t, err, models.ErrValidation)
	}
	assert.Zero(t, store.SaveCount(db.DocumentItems))
}

func TestCatalog_UpdateItemPrice(t *testing.T) {
	_, catalog, _ := newSeededStores(t)
	ctx := context.Background()

	resp, err := catalog.UpdateItemPrice(ctx, "ITM003", 300)
	require.NoError(t, err)
	assert.Equal(t, 250.0, resp.OldPrice)
	assert.Equal(t, 300.0, resp.NewPrice)
	assert.Equal(t, "ITM003", resp.ItemID)

	item, err := catalog.GetItem("ITM003")
	require.NoError(t, err)
	assert.Equal(t, 300.0, item.PricePerUnit)

	_, err = catalog.UpdateItemPrice(ctx, "ITM003", -5)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = catalog.UpdateItemPrice(ctx, "ITM999", 5)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCatalog_UpdateItemPrice_SaveFailureKeepsState(t *testing.T) {
	store, catalog, _ := newSeededStores(t)
	store.FailSaves(errors.New("read-only filesystem"))

	_, err := catalog.UpdateItemPrice(context.Background(), "ITM001", 99)
	require.ErrorIs(t, err, models.ErrPersistence)

	item, err := catalog.GetItem("ITM001")
	require.NoError(t, err)
	assert.Equal(t, 10.0, item.PricePerUnit)
}

func TestCatalog_CreateCategory(t *testing.T) {
	_, catalog, _ := newSeededStores(t)
	ctx := context.Background()

	cat, err := catalog.CreateCategory(ctx, "Genetics", "Biology")
	require.NoError(t, err)
	assert.Equal(t, models.Category{ID: "CAT0003", Subject: "Biology", Name: "Genetics"}, cat)

	_, err = catalog.CreateCategory(ctx, "genetics", "Biology")
	assert.ErrorIs(t, err, models.ErrConflict)

	other, err := catalog.CreateCategory(ctx, "Genetics", "Chemistry")
	require.NoError(t, err)
	assert.Equal(t, "CAT0004", other.ID)

	_, err = catalog.CreateCategory(ctx, "", "Biology")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = catalog.CreateCategory(ctx, "Optics", " ")
	assert.ErrorIs(t, err, models.ErrValidation)
}
