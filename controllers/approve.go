package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"expenditure-approval-api/services"

	"github.com/gin-gonic/gin"
)

// ApproveRequest applies one approval action (approve/reject/clarify/forward)
// to a request. All workflow decisions happen in the services layer; this
// handler only shapes the transport.
func ApproveRequest(c *gin.Context) {
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

	var payload services.ApprovalPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	updated, err := services.ProcessApproval(requestID, services.Actor{UserID: userID, Role: role}, payload)
	if err != nil {
		respondApprovalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"request": updated,
	})
}

// respondApprovalError maps the services error taxonomy onto HTTP statuses.
func respondApprovalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Request not found"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		// The caller must reload and retry the whole operation.
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Request was modified concurrently, reload and retry"})
	case errors.Is(err, services.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrNoOpTransition):
		// Workflow configuration problem, not a user mistake. Log loudly.
		log.Printf("workflow has no transition: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Workflow cannot process this action"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to process approval"})
	}
}
