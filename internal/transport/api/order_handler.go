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

type OrdersHandler struct {
	orderSvs   OrderServicer
	paymentSvs PaymentServicer
	observer   TransitionObserver
}

func NewOrdersHandler(orderSvs OrderServicer, paymentSvs PaymentServicer, observer TransitionObserver) *OrdersHandler {
	return &OrdersHandler{
		orderSvs:   orderSvs,
		paymentSvs: paymentSvs,
		observer:   observer,
	}
}

type OrderLineParams struct {
	ListingID int64 `binding:"required,gt=0"  json:"listingId"`
	Quantity  int   `binding:"required,min=1" json:"quantity"`
}

type CreateOrderParams struct {
	Lines           []OrderLineParams `binding:"required,min=1,max=50,dive" json:"lines"`
	ShippingAddress string            `binding:"required,max_bytes=1024"    json:"shippingAddress"`
	Note            string            `binding:"max_bytes=1024"             json:"note"`
}

type TransitionParams struct {
	Reason string `binding:"max_bytes=1024" json:"reason"`
}

type OrdersQuery struct {
	PageQuery
	Party  string `binding:"omitempty,oneof=buyer seller" form:"party"`
	Status string `form:"status"`
}

// Create POST RouteGroup + OrdersRoute. Все позиции заказа должны принадлежать одному продавцу.
func (o *OrdersHandler) Create(c *gin.Context) {
	var params CreateOrderParams
	if !bindJSON(c, &params) {
		return
	}

	lines := make([]service.OrderLine, len(params.Lines))
	for i, l := range params.Lines {
		lines[i] = service.OrderLine{ListingID: l.ListingID, Quantity: l.Quantity}
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.Create(reqCtx, middlewares.CurrentActor(c), service.CreateOrderArgs{
		Lines:           lines,
		ShippingAddress: params.ShippingAddress,
		Note:            params.Note,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newOrderResponse(*order))
}

// Index GET RouteGroup + OrdersRoute. Заказы текущего пользователя как покупателя и/или продавца.
func (o *OrdersHandler) Index(c *gin.Context) {
	var q OrdersQuery
	if !bindQuery(c, &q) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	res, err := o.orderSvs.List(reqCtx, middlewares.CurrentActor(c), repoargs.OrderFilter{
		UserID: getUserIDFromContext(c),
		Party:  domain.OrderParty(q.Party),
		Status: domain.OrderStatus(q.Status),
		Page:   q.toPage(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPageResponse(res, newOrderResponse))
}

// Show GET RouteGroup + OrderRoute.
func (o *OrdersHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.Get(reqCtx, middlewares.CurrentActor(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(*order))
}

// Transition POST RouteGroup + OrderActionRoute. Действие берется из пути, тело с причиной необязательно.
func (o *OrdersHandler) Transition(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	action := domain.OrderAction(c.Param("action"))
	if !action.IsValid() {
		abortWithError(c, domain.ErrRecordNotFound)
		return
	}

	var params TransitionParams
	if !bindOptionalJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.Transition(reqCtx, middlewares.CurrentActor(c), id, action, params.Reason)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if o.observer != nil {
		o.observer.ObserveOrderTransition(string(action))
	}

	c.JSON(http.StatusOK, newOrderResponse(*order))
}

// Payment GET RouteGroup + OrderPaymentRoute.
func (o *OrdersHandler) Payment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	payment, err := o.paymentSvs.GetByOrder(reqCtx, middlewares.CurrentActor(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaymentResponse(*payment))
}
