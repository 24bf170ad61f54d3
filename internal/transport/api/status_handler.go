package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	statusService StatusServicer
}

func NewStatusHandler(statusService StatusServicer) *StatusHandler {
	return &StatusHandler{statusService: statusService}
}

// Index GET RouteGroup + StatusesRoute. Статусы домена в порядке сортировки каталога.
func (h *StatusHandler) Index(c *gin.Context) {
	d := domain.StatusDomain(c.Param("domain"))
	if !d.IsValid() {
		abortWithError(c, domain.ErrRecordNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	statuses, err := h.statusService.GetByDomain(ctx, d)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]StatusResponse, len(statuses))
	for i, s := range statuses {
		response[i] = newStatusResponse(s)
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + StatusRoute.
func (h *StatusHandler) Show(c *gin.Context) {
	d := domain.StatusDomain(c.Param("domain"))
	if !d.IsValid() {
		abortWithError(c, domain.ErrRecordNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	status, err := h.statusService.GetByDomainAndCode(ctx, d, c.Param("code"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newStatusResponse(*status))
}
