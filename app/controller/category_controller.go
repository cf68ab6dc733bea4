package controller

import (
	"net/http"

	"lab-cost-estimator/models"
	"lab-cost-estimator/repository"
	"lab-cost-estimator/utils"
)

// CategoryController handles HTTP requests for experiment categories
type CategoryController struct {
	repository repository.CatalogRepositoryInterface
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(repo repository.CatalogRepositoryInterface) *CategoryController {
	return &CategoryController{repository: repo}
}

// ListCategories handles GET /api/categories
func (c *CategoryController) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.CategoriesDocument{Categories: c.repository.ListCategories()})
}

// CreateCategory handles POST /api/categories
func (c *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	utils.Log.Infof("📥 CreateCategory: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CreateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "CreateCategory", err)
		return
	}

	category, err := c.repository.CreateCategory(r.Context(), *req.Name, *req.Subject)
	if err != nil {
		writeError(w, "CreateCategory", err)
		return
	}

	utils.Log.Infof("✅ CreateCategory: created %s", category.ID)
	writeJSON(w, http.StatusCreated, category)
}
