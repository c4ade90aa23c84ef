package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vocabtest-backend/internal/service"
)

type CategoryController struct {
	CategoryService service.CategoryService
	StatsService    service.StatsService
}

func NewCategoryController(categoryService service.CategoryService, statsService service.StatsService) *CategoryController {
	return &CategoryController{CategoryService: categoryService, StatsService: statsService}
}

// ListCategories handles GET /api/categories
func (cc *CategoryController) ListCategories(c *gin.Context) {
	categories, err := cc.CategoryService.List()
	if err != nil {
		fail(c, err, "Failed to fetch categories")
		return
	}
	ok(c, http.StatusOK, categories, "")
}

// GetCategory handles GET /api/categories/:id
func (cc *CategoryController) GetCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err, "")
		return
	}
	category, err := cc.CategoryService.Get(id)
	if err != nil {
		fail(c, err, "Failed to fetch category")
		return
	}
	ok(c, http.StatusOK, category, "")
}

// CreateCategory handles POST /api/categories
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var in service.CategoryInput
	if err := bind(c, &in); err != nil {
		fail(c, err, "")
		return
	}
	category, err := cc.CategoryService.Create(in)
	if err != nil {
		fail(c, err, "Failed to create category")
		return
	}
	ok(c, http.StatusCreated, category, "Category created successfully")
}

// UpdateCategory handles PUT /api/categories/:id
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err, "")
		return
	}
	var in service.CategoryInput
	if err := bind(c, &in); err != nil {
		fail(c, err, "")
		return
	}
	category, err := cc.CategoryService.Update(id, in)
	if err != nil {
		fail(c, err, "Failed to update category")
		return
	}
	ok(c, http.StatusOK, category, "Category updated successfully")
}

// DeleteCategory handles DELETE /api/categories/:id
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err, "")
		return
	}
	if err := cc.CategoryService.Delete(id); err != nil {
		fail(c, err, "Failed to delete category")
		return
	}
	ok(c, http.StatusOK, nil, "Category deleted successfully")
}

// Overview handles GET /api/categories/stats/overview
func (cc *CategoryController) Overview(c *gin.Context) {
	stats, err := cc.StatsService.Overview()
	if err != nil {
		fail(c, err, "Failed to fetch statistics")
		return
	}
	ok(c, http.StatusOK, stats, "")
}
