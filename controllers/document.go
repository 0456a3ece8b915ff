package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"expenditure-approval-api/config"
	"expenditure-approval-api/models"
	"expenditure-approval-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10 MB

func uploadPath() string {
	path := os.Getenv("UPLOAD_PATH")
	if path == "" {
		path = "./uploads"
	}
	return path
}

// UploadAttachment stores a supporting document for a request.
func UploadAttachment(c *gin.Context) {
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

	// Upload is only open to someone who can see the request at all.
	if _, err := services.LoadForViewer(requestID, services.Actor{UserID: userID, Role: role}); err != nil {
		respondApprovalError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	now := time.Now()
	attachment := models.Attachment{
		RequestID:    &requestID,
		OriginalName: filepath.Base(file.Filename),
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		UploadedBy:   userID,
		UploadedAt:   now,
		CreateAt:     now,
		UpdateAt:     now,
	}
	if !attachment.IsValidDocumentType() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	storedPath := filepath.Join(uploadPath(), storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	attachment.StoredPath = storedPath

	if err := config.DB.Create(&attachment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attachment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"attachment": attachment,
	})
}

// GetAttachments lists a request's attachments.
func GetAttachments(c *gin.Context) {
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

	if _, err := services.LoadForViewer(requestID, services.Actor{UserID: userID, Role: role}); err != nil {
		respondApprovalError(c, err)
		return
	}

	var attachments []models.Attachment
	if err := config.DB.Where("request_id = ? AND delete_at IS NULL", requestID).
		Order("uploaded_at DESC").
		Find(&attachments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"attachments": attachments,
		"total":       len(attachments),
	})
}

// DownloadAttachment streams a stored file back to the caller.
func DownloadAttachment(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	fileID, err := strconv.Atoi(c.Param("file_id"))
	if err != nil || fileID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	var attachment models.Attachment
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", fileID).
		First(&attachment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
		return
	}

	if attachment.RequestID != nil {
		if _, err := services.LoadForViewer(*attachment.RequestID, services.Actor{UserID: userID, Role: role}); err != nil {
			respondApprovalError(c, err)
			return
		}
	}

	if _, err := os.Stat(attachment.StoredPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File is missing from storage"})
		return
	}

	c.FileAttachment(attachment.StoredPath, attachment.OriginalName)
}
