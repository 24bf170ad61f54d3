package api

import (
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/internal/service"
	"github.com/fsdevblog/docswap/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

const (
	// EvidenceFormField имя поля multipart формы с файлом доказательства.
	EvidenceFormField = "file"
	// uploadTimeout загрузка файла в хранилище дольше обычного запроса.
	uploadTimeout = 10 * DefaultServiceTimeout
	// multipartOverhead запас на заголовки multipart сверх размера файла.
	multipartOverhead = 1 << 20
)

type ReviewHandler struct {
	reviewService ReviewServicer
}

func NewReviewHandler(reviewService ReviewServicer) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type CreateReviewParams struct {
	OrderID int64  `binding:"required,gt=0"        json:"orderId"`
	Rating  int    `binding:"required,min=1,max=5" json:"rating"`
	Comment string `binding:"max_bytes=4096"       json:"comment"`
}

type UpdateReviewParams struct {
	Rating  int    `binding:"required,min=1,max=5" json:"rating"`
	Comment string `binding:"max_bytes=4096"       json:"comment"`
}

type ReviewsQuery struct {
	PageQuery
	SellerID int64 `binding:"required,gt=0" form:"sellerId"`
}

// Index GET RouteGroup + ReviewsRoute. Отзывы о продавце.
func (h *ReviewHandler) Index(c *gin.Context) {
	var q ReviewsQuery
	if !bindQuery(c, &q) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	res, err := h.reviewService.ListBySeller(ctx, repoargs.ReviewFilter{SellerID: q.SellerID, Page: q.toPage()})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(res, newReviewResponse))
}

// Show GET RouteGroup + ReviewRoute.
func (h *ReviewHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	review, err := h.reviewService.Get(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReviewResponse(*review))
}

// Create POST RouteGroup + ReviewsRoute. Отзыв оставляет покупатель по завершенному заказу.
func (h *ReviewHandler) Create(c *gin.Context) {
	var params CreateReviewParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	review, err := h.reviewService.Create(ctx, middlewares.CurrentActor(c), service.CreateReviewArgs{
		OrderID: params.OrderID,
		Rating:  params.Rating,
		Comment: params.Comment,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReviewResponse(*review))
}

// Update PUT RouteGroup + ReviewRoute.
func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var params UpdateReviewParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	review, err := h.reviewService.Update(ctx, middlewares.CurrentActor(c), id, params.Rating, params.Comment)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReviewResponse(*review))
}

// Delete DELETE RouteGroup + ReviewRoute.
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.reviewService.Delete(ctx, middlewares.CurrentActor(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddEvidence POST RouteGroup + ReviewEvidenceRoute. Принимает multipart/form-data с файлом в поле
// EvidenceFormField.
func (h *ReviewHandler) AddEvidence(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxEvidenceSize+multipartOverhead)
	fh, err := c.FormFile(EvidenceFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			abortWithError(c, domain.NewValidationError(EvidenceFormField, "file is too large"))
			return
		}
		abortWithError(c, domain.NewValidationError(EvidenceFormField, "is required"))
		return
	}

	file, err := fh.Open()
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer func() { _ = file.Close() }()

	contentType, _, _ := mime.ParseMediaType(fh.Header.Get("Content-Type"))

	ctx, cancel := context.WithTimeout(c, uploadTimeout)
	defer cancel()

	ev, err := h.reviewService.AddEvidence(ctx, middlewares.CurrentActor(c), id, service.UploadEvidenceArgs{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Body:        file,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newEvidenceResponse(*ev))
}

// RemoveEvidence DELETE RouteGroup + ReviewEvidenceItemRoute.
func (h *ReviewHandler) RemoveEvidence(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	evidenceID, ok := paramID(c, "evidenceId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.reviewService.RemoveEvidence(ctx, middlewares.CurrentActor(c), id, evidenceID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
