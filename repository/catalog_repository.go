package repository

import (
	"context"
	"strings"
	"sync"

	"lab-cost-estimator/db"
	"lab-cost-estimator/models"
	"lab-cost-estimator/utils"
)

const defaultItemUnit = "ml"

// catalogState is the in-memory catalog. Values are replaced wholesale on
// commit and never mutated in place, so a reader can keep a reference.
type catalogState struct {
	items      []models.Item
	categories []models.Category
}

var _ CatalogReader = (*catalogState)(nil)

func (s *catalogState) GetItem(id string) (models.Item, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.Item{}, false
}

// FindItemByName matches names case-insensitively
func (s *catalogState) FindItemByName(name string) (models.Item, bool) {
	for _, item := range s.items {
		if strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return models.Item{}, false
}

func (s *catalogState) ListItems() []models.Item {
	return append(make([]models.Item, 0, len(s.items)), s.items...)
}

func (s *catalogState) ListCategories() []models.Category {
	return append(make([]models.Category, 0, len(s.categories)), s.categories...)
}

// CategoryName returns "Unknown" for ids that do not resolve
func (s *catalogState) CategoryName(id string) string {
	for _, cat := range s.categories {
		if cat.ID == id {
			return cat.Name
		}
	}
	return models.UnknownCategoryName
}

// CategoryIDByName returns "" for names that do not resolve
func (s *catalogState) CategoryIDByName(name string) string {
	for _, cat := range s.categories {
		if cat.Name == name {
			return cat.ID
		}
	}
	return ""
}

func (s *catalogState) itemIndex(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *catalogState) itemIDs() []string {
	ids := make([]string, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
	}
	return ids
}

// CatalogRepository is the Catalog Store: items and experiment categories
type CatalogRepository struct {
	mu    sync.RWMutex
	store db.DocumentStore
	state *catalogState
}

// NewCatalogRepository creates an empty CatalogRepository; call Reload to load it
func NewCatalogRepository(store db.DocumentStore) *CatalogRepository {
	return &CatalogRepository{
		store: store,
		state: &catalogState{items: []models.Item{}, categories: []models.Category{}},
	}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

// Reload replaces the in-memory catalog with the persisted documents
func (r *CatalogRepository) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var itemsDoc models.ItemsDocument
	ok, err := loadDocument(ctx, r.store, db.DocumentItems, &itemsDoc)
	if err != nil {
		return err
	}
	if !ok || itemsDoc.Items == nil {
		itemsDoc.Items = []models.Item{}
	}

	var categoriesDoc models.CategoriesDocument
	ok, err = loadDocument(ctx, r.store, db.DocumentCategories, &categoriesDoc)
	if err != nil {
		return err
	}
	if !ok || categoriesDoc.Categories == nil {
		categoriesDoc.Categories = []models.Category{}
	}

	r.state = &catalogState{items: itemsDoc.Items, categories: categoriesDoc.Categories}

	utils.Log.Infof("✓ Catalog loaded: %d items, %d categories", len(itemsDoc.Items), len(categoriesDoc.Categories))
	return nil
}

// Read runs fn with a consistent view of the catalog, holding the read lock
func (r *CatalogRepository) Read(fn func(CatalogReader) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(r.state)
}

func (r *CatalogRepository) snapshot() *catalogState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// ListItems returns every catalog item in stored order
func (r *CatalogRepository) ListItems() []models.Item {
	return r.snapshot().ListItems()
}

// GetItem returns the item with the given id
func (r *CatalogRepository) GetItem(id string) (models.Item, error) {
	item, ok := r.snapshot().GetItem(id)
	if !ok {
		return models.Item{}, models.NotFoundError("Item not found")
	}
	return item, nil
}

// ListCategories returns every experiment category in stored order
func (r *CatalogRepository) ListCategories() []models.Category {
	return r.snapshot().ListCategories()
}

func (r *CatalogRepository) CategoryName(id string) string {
	return r.snapshot().CategoryName(id)
}

func (r *CatalogRepository) CategoryIDByName(name string) string {
	return r.snapshot().CategoryIDByName(name)
}

// commitItems persists items and swaps them in. Caller holds the write lock.
func (r *CatalogRepository) commitItems(ctx context.Context, items []models.Item) error {
	if err := saveDocument(ctx, r.store, db.DocumentItems, models.ItemsDocument{Items: items}); err != nil {
		return err
	}
	r.state = &catalogState{items: items, categories: r.state.categories}
	return nil
}

func validatePatch(patch models.ItemPatch) error {
	if patch.Price != nil && !finite(*patch.Price) {
		return models.ValidationError("Price must be a finite number")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return models.ValidationError("Price cannot be negative")
	}
	if patch.Category != nil && *patch.Category != models.ItemCategoryConsumable && *patch.Category != models.ItemCategoryNonConsumable {
		return models.ValidationError("Invalid item category %q", *patch.Category)
	}
	return nil
}

func applyPatch(item *models.Item, patch models.ItemPatch) {
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Price != nil {
		item.PricePerUnit = *patch.Price
	}
	if patch.Unit != nil {
		item.Unit = *patch.Unit
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
}

// UpsertItemByName updates the item whose name matches case-insensitively,
// or creates a new one with the next sequential id. On update only the
// supplied patch fields change; the stored name is kept.
func (r *CatalogRepository) UpsertItemByName(ctx context.Context, name string, patch models.ItemPatch) (models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Item{}, models.ValidationError("Item name is required")
	}
	if err := validatePatch(patch); err != nil {
		return models.Item{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.state.ListItems()
	if existing, ok := r.state.FindItemByName(name); ok {
		idx := r.state.itemIndex(existing.ID)
		patch.Name = nil
		applyPatch(&items[idx], patch)
		if items[idx].Category == "" {
			items[idx].Category = models.ItemCategoryConsumable
		}
		if err := r.commitItems(ctx, items); err != nil {
			return models.Item{}, err
		}
		utils.Log.Infof("✏️  UpsertItemByName: updated %s (%s)", existing.ID, items[idx].Name)
		return items[idx], nil
	}

	item := models.Item{
		ID:       utils.NextID(utils.ItemIDPrefix, utils.ItemIDWidth, r.state.itemIDs()),
		Name:     name,
		Unit:     defaultItemUnit,
		Category: models.ItemCategoryConsumable,
	}
	patch.Name = nil
	applyPatch(&item, patch)
	items = append(items, item)
	if err := r.commitItems(ctx, items); err != nil {
		return models.Item{}, err
	}
	utils.Log.Infof("✅ UpsertItemByName: created %s (%s)", item.ID, item.Name)
	return item, nil
}

// UpdateItem applies a partial update to an existing item
func (r *CatalogRepository) UpdateItem(ctx context.Context, id string, patch models.ItemPatch) (models.Item, error) {
	if err := validatePatch(patch); err != nil {
		return models.Item{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.state.itemIndex(id)
	if idx < 0 {
		return models.Item{}, models.NotFoundError("Item not found")
	}
	items := r.state.ListItems()
	applyPatch(&items[idx], patch)
	if err := r.commitItems(ctx, items); err != nil {
		return models.Item{}, err
	}
	return items[idx], nil
}

// UpdateItemPrice sets a new unit price and reports the previous one
func (r *CatalogRepository) UpdateItemPrice(ctx context.Context, id string, price float64) (*models.UpdateItemPriceResponse, error) {
	if !finite(price) {
		return nil, models.ValidationError("Price must be a finite number")
	}
	if price < 0 {
		return nil, models.ValidationError("Price cannot be negative")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.state.itemIndex(id)
	if idx < 0 {
		return nil, models.NotFoundError("Item not found")
	}
	items := r.state.ListItems()
	oldPrice := items[idx].PricePerUnit
	items[idx].PricePerUnit = price
	if err := r.commitItems(ctx, items); err != nil {
		return nil, err
	}

	utils.Log.Infof("💰 UpdateItemPrice: %s %.2f -> %.2f", id, oldPrice, price)
	return &models.UpdateItemPriceResponse{
		Message:  "Price updated successfully",
		ItemID:   id,
		OldPrice: oldPrice,
		NewPrice: price,
	}, nil
}

// CreateCategory adds a category. Names are unique per subject, ignoring case.
func (r *CatalogRepository) CreateCategory(ctx context.Context, name, subject string) (models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return models.Category{}, models.ValidationError("Missing category name")
	}
	if strings.TrimSpace(subject) == "" {
		return models.Category{}, models.ValidationError("Missing subject")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.state.categories))
	for _, cat := range r.state.categories {
		if strings.EqualFold(cat.Name, name) && cat.Subject == subject {
			return models.Category{}, models.ConflictError("Category already exists in this subject")
		}
		ids = append(ids, cat.ID)
	}

	category := models.Category{
		ID:      utils.NextID(utils.CategoryIDPrefix, utils.CategoryIDWidth, ids),
		Subject: subject,
		Name:    name,
	}
	categories := append(r.state.ListCategories(), category)
	if err := saveDocument(ctx, r.store, db.DocumentCategories, models.CategoriesDocument{Categories: categories}); err != nil {
		return models.Category{}, err
	}
	r.state = &catalogState{items: r.state.items, categories: categories}

	utils.Log.Infof("✅ CreateCategory: %s %q (%s)", category.ID, category.Name, category.Subject)
	return category, nil
}
