package controllers

import (
	"net/http"
	"strconv"
	"time"

	"expenditure-approval-api/config"
	"expenditure-approval-api/models"
	"expenditure-approval-api/services"
	"expenditure-approval-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createRequestPayload struct {
	Title           string  `json:"title" binding:"required"`
	Purpose         string  `json:"purpose" binding:"required"`
	College         string  `json:"college" binding:"required"`
	Department      string  `json:"department" binding:"required"`
	CostEstimate    float64 `json:"cost_estimate" binding:"required,gt=0"`
	ExpenseCategory string  `json:"expense_category" binding:"required"`
}

// CreateRequest opens a new expenditure request in manager review. The route
// is guarded by middleware.RequireRole(models.RoleRequester).
func CreateRequest(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var payload createRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	now := time.Now()
	request := models.Request{
		RequestNumber:   uuid.NewString(),
		Title:           utils.SanitizeInput(payload.Title),
		Purpose:         utils.SanitizeInput(payload.Purpose),
		College:         utils.SanitizeInput(payload.College),
		Department:      utils.SanitizeInput(payload.Department),
		CostEstimate:    payload.CostEstimate,
		ExpenseCategory: utils.SanitizeInput(payload.ExpenseCategory),
		RequesterID:     userID,
		CreateAt:        &now,
		UpdateAt:        &now,
	}
	entry := services.CreateRequest(&request, services.Actor{UserID: userID, Role: role})

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&request).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	entry.RequestID = request.RequestID
	if err := tx.Create(entry).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record request history"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"request": request,
	})
}

// GetRequests lists the requests visible to the caller, annotated with their
// visibility projection. An optional ?category= filter keeps one bucket.
func GetRequests(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	category := models.VisibilityCategory(c.Query("category"))
	switch category {
	case "", models.CategoryPending, models.CategoryApproved, models.CategoryInProgress, models.CategoryCompleted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category filter"})
		return
	}

	requests, err := services.ListForViewer(services.Actor{UserID: userID, Role: role}, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"requests": requests,
		"total":    len(requests),
	})
}

// GetRequest returns a single request if the caller may see it.
func GetRequest(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil || requestID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	request, err := services.LoadForViewer(requestID, services.Actor{UserID: userID, Role: role})
	if err != nil {
		respondApprovalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"request": request,
	})
}
