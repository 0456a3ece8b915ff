package controllers

import (
	"net/http"

	"expenditure-approval-api/models"
	"expenditure-approval-api/services"

	"github.com/gin-gonic/gin"
)

// GetPendingApprovals lists the requests currently waiting on the caller.
func GetPendingApprovals(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	if role == models.RoleRequester {
		// Requesters have no approval queue.
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"requests": []models.Request{},
			"total":    0,
		})
		return
	}

	requests, err := services.ListForViewer(services.Actor{UserID: userID, Role: role}, models.CategoryPending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch approvals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"requests": requests,
		"total":    len(requests),
	})
}

// GetInProgressRequests lists requests the caller already acted on that are
// still moving downstream, plus fully approved ones they participated in.
func GetInProgressRequests(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	if role == models.RoleRequester {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"requests": []models.Request{},
			"total":    0,
		})
		return
	}

	visible, err := services.ListForViewer(services.Actor{UserID: userID, Role: role}, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	inProgress := make([]models.Request, 0, len(visible))
	for _, request := range visible {
		projection := request.Visibility
		if projection == nil || projection.UserAction == nil {
			continue
		}
		tookAction := *projection.UserAction == models.ActionApprove || *projection.UserAction == models.ActionClarify
		relevant := projection.Category == models.CategoryInProgress ||
			(projection.Category == models.CategoryApproved && request.Status == models.StatusApproved)
		if tookAction && relevant {
			inProgress = append(inProgress, request)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"requests": inProgress,
		"total":    len(inProgress),
	})
}
