package handler

import (
	"github.com/gin-gonic/gin"
	notificationapp "github.com/tunerp/backend/internal/application/notification"
)

// NotificationHandler handles in-app notifications
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Create godoc
// @ID           createNotification
// @Summary      Post a notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body notificationapp.CreateNotificationRequest true "Notification"
// @Success      201 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req notificationapp.CreateNotificationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	n, err := h.notificationService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, n)
}

// List godoc
// @ID           listNotifications
// @Summary      Latest notifications
// @Description  The 50 most recent
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[[]notificationapp.NotificationResponse]
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	list, err := h.notificationService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// MarkRead godoc
// @ID           markNotificationRead
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	n, err := h.notificationService.MarkRead(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// MarkAllRead godoc
// @ID           markAllNotificationsRead
// @Summary      Mark every notification as read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[notificationapp.UnreadCountResponse] "Number of notifications updated"
// @Security     BearerAuth
// @Router       /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notificationapp.UnreadCountResponse{Count: updated})
}

// UnreadCount godoc
// @ID           countUnreadNotifications
// @Summary      Number of unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[notificationapp.UnreadCountResponse]
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notificationapp.UnreadCountResponse{Count: count})
}
