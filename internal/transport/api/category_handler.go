package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/docswap/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService CategoryServicer
}

func NewCategoryHandler(categoryService CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type CategoryParams struct {
	Name        string `binding:"required,max_bytes=100" json:"name"`
	Description string `binding:"max_bytes=1024"         json:"description"`
}

// Index GET RouteGroup + CategoriesRoute.
func (h *CategoryHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	categories, err := h.categoryService.List(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = newCategoryResponse(category)
	}
	c.JSON(http.StatusOK, response)
}

// Create POST RouteGroup + CategoriesRoute. Только для администраторов.
func (h *CategoryHandler) Create(c *gin.Context) {
	var params CategoryParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	category, err := h.categoryService.Create(ctx, middlewares.CurrentActor(c), params.Name, params.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCategoryResponse(*category))
}

// Update PUT RouteGroup + CategoryRoute.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var params CategoryParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	category, err := h.categoryService.Update(ctx, middlewares.CurrentActor(c), id, params.Name, params.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(*category))
}

// Delete DELETE RouteGroup + CategoryRoute.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.categoryService.Delete(ctx, middlewares.CurrentActor(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
