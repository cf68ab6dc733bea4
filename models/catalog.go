package models

// Category groups experiments by academic subject.
// Unrelated to ItemCategory.
type Category struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
}

// CategoriesDocument is the persisted shape of the category list
type CategoriesDocument struct {
	Categories []Category `json:"categories"`
}

// CreateCategoryRequest represents the request body for POST /api/categories
type CreateCategoryRequest struct {
	Name    *string `json:"name" validate:"required"`
	Subject *string `json:"subject" validate:"required"`
}

// UnknownCategoryName is rendered when an experiment points at a missing category
const UnknownCategoryName = "Unknown"
