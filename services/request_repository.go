package services

import (
	"errors"
	"fmt"
	"time"

	"expenditure-approval-api/config"
	"expenditure-approval-api/models"

	"gorm.io/gorm"
)

// RequestFilter narrows repository queries for the read-side list views.
type RequestFilter struct {
	RequesterID     *int
	ExcludeTerminal bool
}

// RequestRepository is the narrow persistence interface the approval core
// consumes. The core is agnostic to storage technology; the gorm
// implementation below is swapped for a fake in tests.
type RequestRepository interface {
	Load(requestID int) (*models.Request, error)
	// CompareAndSwap appends the history entry and applies the field updates,
	// conditioned on the request's status still equalling previousStatus.
	// Returns ErrConflict when another actor changed the status concurrently.
	CompareAndSwap(requestID int, previousStatus models.Status, entry *models.ApprovalHistory, updates map[string]interface{}) (*models.Request, error)
	Query(filter RequestFilter) ([]models.Request, error)
}

var requestRepo RequestRepository = &gormRequestRepository{}

type gormRequestRepository struct{}

func (r *gormRequestRepository) Load(requestID int) (*models.Request, error) {
	var request models.Request
	err := config.DB.Preload("Requester").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC, history_id ASC").Preload("Actor")
		}).
		Preload("Attachments").
		Where("request_id = ? AND delete_at IS NULL", requestID).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	return &request, nil
}

func (r *gormRequestRepository) CompareAndSwap(requestID int, previousStatus models.Status, entry *models.ApprovalHistory, updates map[string]interface{}) (*models.Request, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	// Touching update_at guarantees the guarded UPDATE reports an affected row
	// even when no other column changes value.
	updates["update_at"] = time.Now()

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Request{}).
			Where("request_id = ? AND status = ? AND delete_at IS NULL", requestID, previousStatus).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update request: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrConflict
		}

		entry.RequestID = requestID
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.Load(requestID)
}

func (r *gormRequestRepository) Query(filter RequestFilter) ([]models.Request, error) {
	query := config.DB.Preload("Requester").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC, history_id ASC").Preload("Actor")
		}).
		Where("delete_at IS NULL")

	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", *filter.RequesterID)
	}
	if filter.ExcludeTerminal {
		query = query.Where("status NOT IN ?", []models.Status{models.StatusApproved, models.StatusRejected})
	}

	var requests []models.Request
	if err := query.Order("update_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	return requests, nil
}
