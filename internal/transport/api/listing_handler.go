package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/internal/service"
	"github.com/fsdevblog/docswap/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ListingHandler struct {
	listingService ListingServicer
}

func NewListingHandler(listingService ListingServicer) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateListingParams цена принимается как строкой ("10.50"), так и числом.
type CreateListingParams struct {
	DocumentID         int64           `binding:"required,gt=0"         json:"documentId"`
	Type               string          `binding:"required,listing_type" json:"type"`
	Price              decimal.Decimal `json:"price"`
	Quantity           int             `binding:"required,min=1"        json:"quantity"`
	DesiredDocumentIDs []int64         `binding:"max=50,dive,gt=0"      json:"desiredDocumentIds"`
}

type UpdateListingParams struct {
	Price              decimal.Decimal `json:"price"`
	Quantity           int             `binding:"min=0"            json:"quantity"`
	DesiredDocumentIDs []int64         `binding:"max=50,dive,gt=0" json:"desiredDocumentIds"`
	Version            int64           `binding:"required,gt=0"    json:"version"`
}

type RejectParams struct {
	Reason string `binding:"required,max_bytes=1024" json:"reason"`
}

type ListingsQuery struct {
	PageQuery
	CategoryID int64  `binding:"omitempty,gt=0"           form:"categoryId"`
	OwnerID    int64  `binding:"omitempty,gt=0"           form:"ownerId"`
	Type       string `binding:"omitempty,listing_type"   form:"type"`
	Title      string `binding:"max_bytes=255"            form:"title"`
}

// Index GET RouteGroup + ListingsRoute. Доступно без авторизации. С токеном владелец (ownerId) и
// администратор видят объявления в любом статусе.
func (h *ListingHandler) Index(c *gin.Context) {
	var q ListingsQuery
	if !bindQuery(c, &q) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	res, err := h.listingService.List(ctx, middlewares.CurrentActor(c), repoargs.ListingFilter{
		CategoryID: q.CategoryID,
		OwnerID:    q.OwnerID,
		Type:       domain.ListingType(q.Type),
		Title:      q.Title,
		Page:       q.toPage(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(res, newListingResponse))
}

// Show GET RouteGroup + ListingRoute.
func (h *ListingHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	listing, err := h.listingService.Get(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("ETag", versionETag(listing.Version))
	c.JSON(http.StatusOK, newListingResponse(*listing))
}

// Create POST RouteGroup + ListingsRoute.
func (h *ListingHandler) Create(c *gin.Context) {
	var params CreateListingParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	listing, err := h.listingService.Create(ctx, middlewares.CurrentActor(c), service.CreateListingArgs{
		DocumentID:         params.DocumentID,
		Type:               domain.ListingType(params.Type),
		Price:              params.Price,
		Quantity:           params.Quantity,
		DesiredDocumentIDs: params.DesiredDocumentIDs,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("ETag", versionETag(listing.Version))
	c.JSON(http.StatusCreated, newListingResponse(*listing))
}

// Update PUT RouteGroup + ListingRoute. Клиент передает прочитанную версию объявления, устаревшая версия
// приводит к 409.
func (h *ListingHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var params UpdateListingParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	listing, err := h.listingService.Update(ctx, middlewares.CurrentActor(c), id, service.UpdateListingArgs{
		Price:              params.Price,
		Quantity:           params.Quantity,
		DesiredDocumentIDs: params.DesiredDocumentIDs,
		Version:            params.Version,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("ETag", versionETag(listing.Version))
	c.JSON(http.StatusOK, newListingResponse(*listing))
}

// Cancel DELETE RouteGroup + ListingRoute. Объявление снимается владельцем или администратором.
func (h *ListingHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	listing, err := h.listingService.Cancel(ctx, middlewares.CurrentActor(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(*listing))
}

// Reject POST RouteGroup + ListingRejectRoute. Только для администраторов.
func (h *ListingHandler) Reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var params RejectParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	listing, err := h.listingService.Reject(ctx, middlewares.CurrentActor(c), id, params.Reason)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(*listing))
}
