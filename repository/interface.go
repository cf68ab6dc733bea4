package repository

import (
	"context"

	"lab-cost-estimator/models"
)

// CatalogReader is a read-only view of the catalog. Implementations handed
// out by Read are only valid inside the callback.
type CatalogReader interface {
	GetItem(id string) (models.Item, bool)
	FindItemByName(name string) (models.Item, bool)
	ListItems() []models.Item
	ListCategories() []models.Category
	CategoryName(id string) string
	CategoryIDByName(name string) string
}

// ExperimentReader is a read-only view of the experiments
type ExperimentReader interface {
	Get(id string) (models.Experiment, bool)
	List() []models.Experiment
}

// CatalogRepositoryInterface defines the contract for catalog store operations
type CatalogRepositoryInterface interface {
	Reload(ctx context.Context) error
	Read(fn func(CatalogReader) error) error
	ListItems() []models.Item
	GetItem(id string) (models.Item, error)
	UpsertItemByName(ctx context.Context, name string, patch models.ItemPatch) (models.Item, error)
	UpdateItem(ctx context.Context, id string, patch models.ItemPatch) (models.Item, error)
	UpdateItemPrice(ctx context.Context, id string, price float64) (*models.UpdateItemPriceResponse, error)
	ListCategories() []models.Category
	CategoryName(id string) string
	CategoryIDByName(name string) string
	CreateCategory(ctx context.Context, name, subject string) (models.Category, error)
}

// ExperimentRepositoryInterface defines the contract for experiment store operations
type ExperimentRepositoryInterface interface {
	Reload(ctx context.Context) error
	Read(fn func(ExperimentReader, CatalogReader) error) error
	List() []models.ExperimentView
	Get(id string) (*models.ExperimentView, error)
	Create(ctx context.Context, req models.CreateExperimentRequest) (*models.ExperimentView, error)
	Update(ctx context.Context, id string, req models.UpdateExperimentRequest) (*models.ExperimentView, error)
	Delete(ctx context.Context, id string) error
	AddItem(ctx context.Context, expID string, input AddItemInput) (*models.ExperimentItemView, error)
	UpdateItem(ctx context.Context, expID, itemID string, input UpdateItemInput) (*models.ExperimentItemView, error)
	RemoveItem(ctx context.Context, expID, itemID string) error
}

// AddItemInput carries the fields of an item being added to an experiment.
// Nil fields fall back to defaults for new catalog items and are left
// untouched on existing ones.
type AddItemInput struct {
	Name     string
	Price    *float64
	Unit     *string
	Category *models.ItemCategory
	Quantity *float64
}

// UpdateItemInput carries the optional fields of an experiment item update
type UpdateItemInput struct {
	Name     *string
	Price    *float64
	Unit     *string
	Category *models.ItemCategory
	Quantity *float64
}
