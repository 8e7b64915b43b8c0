package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftlink/craftlink-backend/internal/dto"
	"github.com/craftlink/craftlink-backend/internal/service"
)

// NotificationHandler is the HTTP layer for stored notifications.
type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	limit, offset := pagination(c)
	notifications, err := h.notifications.ListNotifications(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	unread, err := h.notifications.CountUnread(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NotificationListResponse{Notifications: notifications, Unread: unread})
}

// MarkRead handles POST /notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), userID, pathUUID(c, "id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

// MarkAllRead handles POST /notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.notifications.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all marked as read"})
}
