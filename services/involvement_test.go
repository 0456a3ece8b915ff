package services

import (
	"testing"
	"time"

	"expenditure-approval-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var historyBase = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// entry builds a history row n minutes after the base time.
func entry(n int, actorID int, role models.Role, action models.ActionType, from, to models.Status) models.ApprovalHistory {
	return models.ApprovalHistory{
		HistoryID:      n + 1,
		RequestID:      1,
		Action:         action,
		ActorID:        actorID,
		ActorRole:      role,
		PreviousStatus: from,
		NewStatus:      to,
		Timestamp:      historyBase.Add(time.Duration(n) * time.Minute),
	}
}

func clarifyEntry(n int, actorID int, target models.Role) models.ApprovalHistory {
	e := entry(n, actorID, models.RoleDean, models.ActionClarify, models.StatusDeanReview, models.StatusDepartmentChecks)
	e.ClarificationTarget = &target
	clarType := "department"
	e.ClarificationType = &clarType
	return e
}

func TestAnalyzeInvolvement(t *testing.T) {
	history := []models.ApprovalHistory{
		entry(0, 1, models.RoleRequester, models.ActionCreate, models.StatusSubmitted, models.StatusManagerReview),
		entry(1, 2, models.RoleInstitutionManager, models.ActionForward, models.StatusManagerReview, models.StatusParallelVerification),
		entry(2, 3, models.RoleSOPVerifier, models.ActionApprove, models.StatusParallelVerification, models.StatusSOPCompleted),
		entry(3, 4, models.RoleAccountant, models.ActionApprove, models.StatusSOPCompleted, models.StatusManagerReview),
	}

	sop := AnalyzeInvolvement(history, 3)
	assert.True(t, sop.HasBeenInvolved)
	assert.True(t, sop.HasApproved)
	assert.False(t, sop.HasRejected)
	assert.False(t, sop.HasClarified)
	assert.Equal(t, models.ActionApprove, sop.LastAction)
	assert.Equal(t, historyBase.Add(2*time.Minute), sop.LastActionAt)

	manager := AnalyzeInvolvement(history, 2)
	assert.True(t, manager.HasBeenInvolved)
	assert.False(t, manager.HasApproved, "forward is not an approval")
	assert.Equal(t, models.ActionForward, manager.LastAction)

	stranger := AnalyzeInvolvement(history, 99)
	assert.False(t, stranger.HasBeenInvolved)
	assert.False(t, stranger.HasApproved)
}

func TestAnalyzeInvolvementTracksLatestAction(t *testing.T) {
	history := []models.ApprovalHistory{
		entry(0, 5, models.RoleDean, models.ActionApprove, models.StatusDeanReview, models.StatusChiefDirectorApproval),
		clarifyEntry(1, 5, models.RoleHR),
	}

	dean := AnalyzeInvolvement(history, 5)
	assert.True(t, dean.HasApproved)
	assert.True(t, dean.HasClarified)
	assert.Equal(t, models.ActionClarify, dean.LastAction)
	assert.Equal(t, historyBase.Add(time.Minute), dean.LastActionAt)
}

func TestVerificationProgress(t *testing.T) {
	forward := entry(0, 2, models.RoleInstitutionManager, models.ActionForward, models.StatusManagerReview, models.StatusParallelVerification)
	sopFirst := entry(1, 3, models.RoleSOPVerifier, models.ActionApprove, models.StatusParallelVerification, models.StatusSOPCompleted)
	accountantSecond := entry(2, 4, models.RoleAccountant, models.ActionApprove, models.StatusSOPCompleted, models.StatusManagerReview)
	accountantFirst := entry(1, 4, models.RoleAccountant, models.ActionApprove, models.StatusParallelVerification, models.StatusBudgetCompleted)
	sopSecond := entry(2, 3, models.RoleSOPVerifier, models.ActionApprove, models.StatusBudgetCompleted, models.StatusManagerReview)

	t.Run("neither complete", func(t *testing.T) {
		progress := VerificationProgress([]models.ApprovalHistory{forward})
		assert.False(t, progress.SOPComplete)
		assert.False(t, progress.BudgetComplete)
		assert.False(t, progress.BothComplete)
	})

	t.Run("sop first only", func(t *testing.T) {
		progress := VerificationProgress([]models.ApprovalHistory{forward, sopFirst})
		assert.True(t, progress.SOPComplete)
		assert.False(t, progress.BothComplete)
	})

	t.Run("sop then accountant", func(t *testing.T) {
		progress := VerificationProgress([]models.ApprovalHistory{forward, sopFirst, accountantSecond})
		assert.True(t, progress.BothComplete)
	})

	t.Run("accountant then sop is symmetric", func(t *testing.T) {
		progress := VerificationProgress([]models.ApprovalHistory{forward, accountantFirst, sopSecond})
		assert.True(t, progress.SOPComplete)
		assert.True(t, progress.BudgetComplete)
		assert.True(t, progress.BothComplete)
	})

	t.Run("a new round resets the flags", func(t *testing.T) {
		secondForward := entry(3, 2, models.RoleInstitutionManager, models.ActionForward, models.StatusManagerReview, models.StatusParallelVerification)
		progress := VerificationProgress([]models.ApprovalHistory{forward, sopFirst, accountantSecond, secondForward})
		assert.False(t, progress.SOPComplete)
		assert.False(t, progress.BudgetComplete)
	})
}

func TestLatestClarification(t *testing.T) {
	t.Run("no clarification", func(t *testing.T) {
		history := []models.ApprovalHistory{
			entry(0, 1, models.RoleRequester, models.ActionCreate, models.StatusSubmitted, models.StatusManagerReview),
		}
		assert.Nil(t, LatestClarification(history))
	})

	t.Run("latest target wins", func(t *testing.T) {
		history := []models.ApprovalHistory{
			clarifyEntry(0, 5, models.RoleHR),
			entry(1, 6, models.RoleHR, models.ActionForward, models.StatusDepartmentChecks, models.StatusDeanReview),
			clarifyEntry(2, 5, models.RoleIT),
		}
		latest := LatestClarification(history)
		require.NotNil(t, latest)
		require.NotNil(t, latest.ClarificationTarget)
		assert.Equal(t, models.RoleIT, *latest.ClarificationTarget)
	})
}
