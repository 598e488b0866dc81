package handler

import (
	"net/http"

	"civicvoice/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ListCategories returns all complaint categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.Storage.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

type createCategoryRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	DepartmentID *uint   `json:"departmentId"`
}

// CreateCategory adds a category. Name uniqueness is enforced by the schema.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	category := models.Category{
		Name:         req.Name,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
	}
	if err := h.Storage.CreateCategory(&category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}
