package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/http/middleware"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

// NotificationHandler returns the caller's recent notifications.
type NotificationHandler struct {
	Notifications repositories.NotificationRepository
}

// GET /api/notifications
func (h NotificationHandler) Latest(c *gin.Context) {
	items, err := h.Notifications.Latest(middleware.AccountID(c), 0)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]gin.H, 0, len(items))
	for _, n := range items {
		out = append(out, gin.H{
			"message": n.Message,
			"date":    utils.FormatDateTime(n.Date),
		})
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out})
}
