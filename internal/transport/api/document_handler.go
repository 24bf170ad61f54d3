package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/internal/service"
	"github.com/fsdevblog/docswap/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService DocumentServicer
}

func NewDocumentHandler(documentService DocumentServicer) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

type DocumentParams struct {
	CategoryID  int64  `binding:"required,gt=0"             json:"categoryId"`
	Title       string `binding:"required,max_bytes=255"    json:"title"`
	Author      string `binding:"max_bytes=255"             json:"author"`
	Condition   string `binding:"required,condition"        json:"condition"`
	Description string `binding:"max_bytes=4096"            json:"description"`
}

func (p DocumentParams) toArgs() service.DocumentArgs {
	return service.DocumentArgs{
		CategoryID:  p.CategoryID,
		Title:       p.Title,
		Author:      p.Author,
		Condition:   domain.DocumentCondition(p.Condition),
		Description: p.Description,
	}
}

type DocumentsQuery struct {
	PageQuery
	Status string `form:"status"`
}

// Index GET RouteGroup + DocumentsRoute. Документы текущего пользователя.
func (h *DocumentHandler) Index(c *gin.Context) {
	var q DocumentsQuery
	if !bindQuery(c, &q) {
		return
	}
	status := domain.DocumentStatus(q.Status)
	if status != "" && !status.IsValid() {
		abortWithError(c, domain.NewValidationError("status", "unknown document status"))
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	res, err := h.documentService.ListOwn(ctx, middlewares.CurrentActor(c), repoargs.DocumentFilter{
		Status: status,
		Page:   q.toPage(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(res, newDocumentResponse))
}

// Show GET RouteGroup + DocumentRoute.
func (h *DocumentHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	doc, err := h.documentService.Get(ctx, middlewares.CurrentActor(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentResponse(*doc))
}

// Create POST RouteGroup + DocumentsRoute.
func (h *DocumentHandler) Create(c *gin.Context) {
	var params DocumentParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	doc, err := h.documentService.Create(ctx, middlewares.CurrentActor(c), params.toArgs())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newDocumentResponse(*doc))
}

// Update PUT RouteGroup + DocumentRoute.
func (h *DocumentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var params DocumentParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	doc, err := h.documentService.Update(ctx, middlewares.CurrentActor(c), id, params.toArgs())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentResponse(*doc))
}

// Delete DELETE RouteGroup + DocumentRoute.
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.documentService.Delete(ctx, middlewares.CurrentActor(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
