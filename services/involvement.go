package services

import (
	"time"

	"expenditure-approval-api/models"
)

// Involvement summarizes what a single user has done to a request. The has*
// flags are independent existence checks, not mutually exclusive: a user can
// approve at one stage and later be asked to clarify at another.
type Involvement struct {
	HasBeenInvolved bool
	HasApproved     bool
	HasRejected     bool
	HasClarified    bool
	LastAction      models.ActionType
	LastActionAt    time.Time
}

// AnalyzeInvolvement is a pure function over the history entries whose actor
// is the given user.
func AnalyzeInvolvement(history []models.ApprovalHistory, userID int) Involvement {
	var involvement Involvement
	for _, entry := range history {
		if entry.ActorID != userID {
			continue
		}
		involvement.HasBeenInvolved = true
		involvement.LastAction = entry.Action
		involvement.LastActionAt = entry.Timestamp
		switch entry.Action {
		case models.ActionApprove:
			involvement.HasApproved = true
		case models.ActionReject:
			involvement.HasRejected = true
		case models.ActionClarify:
			involvement.HasClarified = true
		}
	}
	return involvement
}

// VerificationStatus reports which halves of the parallel verification round
// are done. Both must be before the manager's routing decision is valid.
type VerificationStatus struct {
	SOPComplete    bool
	BudgetComplete bool
	BothComplete   bool
}

// VerificationProgress inspects history for the completion markers written by
// the SOP verifier and the accountant. The verifier who finishes first lands
// the request on sop_completed or budget_completed; the one who finishes
// second lands it back on manager_review, so both shapes count. A new entry
// into parallel_verification starts a fresh round and resets the flags.
func VerificationProgress(history []models.ApprovalHistory) VerificationStatus {
	var progress VerificationStatus
	for _, entry := range history {
		if entry.NewStatus == models.StatusParallelVerification {
			progress = VerificationStatus{}
			continue
		}
		if entry.Action != models.ActionApprove {
			continue
		}
		switch {
		case entry.NewStatus == models.StatusSOPCompleted,
			entry.PreviousStatus == models.StatusBudgetCompleted && entry.NewStatus == models.StatusManagerReview:
			progress.SOPComplete = true
		case entry.NewStatus == models.StatusBudgetCompleted,
			entry.PreviousStatus == models.StatusSOPCompleted && entry.NewStatus == models.StatusManagerReview:
			progress.BudgetComplete = true
		}
	}
	progress.BothComplete = progress.SOPComplete && progress.BudgetComplete
	return progress
}

// LatestClarification returns the most recent clarify entry that names a
// target department, or nil when none exists.
func LatestClarification(history []models.ApprovalHistory) *models.ApprovalHistory {
	for i := len(history) - 1; i >= 0; i-- {
		entry := history[i]
		if entry.Action == models.ActionClarify && entry.ClarificationTarget != nil {
			return &history[i]
		}
	}
	return nil
}
