package controllers

import (
	"net/http"

	"expenditure-approval-api/models"
	"expenditure-approval-api/services"
	"expenditure-approval-api/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats summarizes the caller's view of the workflow: how many
// requests they can see, and how those split across categories.
func GetDashboardStats(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	visible, err := services.ListForViewer(services.Actor{UserID: userID, Role: role}, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	var pending, approved, rejected, inProgress int
	var approvedAmount float64
	for _, request := range visible {
		projection := request.Visibility
		if projection == nil {
			continue
		}
		if projection.Category == models.CategoryPending {
			pending++
		}
		if request.Status == models.StatusApproved {
			approved++
			approvedAmount += request.CostEstimate
		}
		if request.Status == models.StatusRejected {
			rejected++
		}
		if role != models.RoleRequester &&
			projection.Category == models.CategoryInProgress &&
			projection.UserAction != nil &&
			(*projection.UserAction == models.ActionApprove || *projection.UserAction == models.ActionClarify) {
			inProgress++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_requests":          len(visible),
		"pending_requests":        pending,
		"approved_requests":       approved,
		"rejected_requests":       rejected,
		"in_progress_requests":    inProgress,
		"approved_amount":         approvedAmount,
		"approved_amount_display": utils.IndianNumberLabel(approvedAmount),
	})
}
