package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService NotificationServicer
}

func NewNotificationHandler(notificationService NotificationServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type NotificationsQuery struct {
	PageQuery
	UnreadOnly bool `form:"unreadOnly"`
}

// Index GET RouteGroup + NotificationsRoute.
func (h *NotificationHandler) Index(c *gin.Context) {
	var q NotificationsQuery
	if !bindQuery(c, &q) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	res, err := h.notificationService.List(ctx, repoargs.NotificationFilter{
		UserID:     getUserIDFromContext(c),
		UnreadOnly: q.UnreadOnly,
		Page:       q.toPage(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(res, newNotificationResponse))
}

// UnreadCount GET RouteGroup + NotificationsUnreadRoute.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	count, err := h.notificationService.UnreadCount(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkRead PATCH RouteGroup + NotificationRoute. Чужое уведомление неотличимо от несуществующего.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.notificationService.MarkRead(ctx, getUserIDFromContext(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead POST RouteGroup + NotificationsReadAllRoute.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	updated, err := h.notificationService.MarkAllRead(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
