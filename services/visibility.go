package services

import (
	"expenditure-approval-api/models"
)

// Visibility decides whether a user may see a request and which bucket it
// falls into for them. It is a pure function of (history, status, role,
// userID): no database access, safe to run in parallel over a batch.
func Visibility(request *models.Request, role models.Role, userID int) models.RequestVisibility {
	if role == models.RoleRequester {
		if request.RequesterID == userID {
			return models.RequestVisibility{
				CanSee:   true,
				Category: requesterCategory(request.Status),
				Reason:   "Own request",
			}
		}
		return models.RequestVisibility{CanSee: false, Category: models.CategoryCompleted, Reason: "Not own request"}
	}

	involvement := AnalyzeInvolvement(request.History, userID)

	if !involvement.HasBeenInvolved && !hasReachedRoleLevel(request, role) {
		return models.RequestVisibility{CanSee: false, Category: models.CategoryCompleted, Reason: "Request has not reached this level"}
	}

	return categorizeForUser(request, role, userID, involvement)
}

// A requester never sees "in_progress": anything not yet terminal is simply
// pending from their side of the fence.
func requesterCategory(status models.Status) models.VisibilityCategory {
	switch status {
	case models.StatusApproved:
		return models.CategoryApproved
	case models.StatusRejected:
		return models.CategoryCompleted
	default:
		return models.CategoryPending
	}
}

// hasReachedRoleLevel checks whether the workflow has ever brought the request
// to a stage associated with the role, including the structural exceptions
// around department clarifications.
func hasReachedRoleLevel(request *models.Request, role models.Role) bool {
	history := request.History

	// Department roles only see a request parked at department_checks when
	// they are the target of the live clarification round.
	if request.Status == models.StatusDepartmentChecks && role.IsDepartmentRole() {
		if latest := LatestClarification(history); latest != nil {
			return *latest.ClarificationTarget == role
		}
		return false
	}

	if role == models.RoleDean {
		// Requests returned from a department carry a department_response
		// forward entry; the dean keeps seeing them back at dean_review.
		if request.Status == models.StatusDeanReview {
			for _, entry := range history {
				if entry.DepartmentResponse != nil && entry.Action == models.ActionForward {
					return true
				}
			}
		}
		// And the dean keeps seeing requests they personally sent out for
		// department checks while those are in flight.
		if request.Status == models.StatusDepartmentChecks {
			for _, entry := range history {
				if entry.Action == models.ActionClarify && entry.ClarificationTarget != nil && entry.ActorRole == models.RoleDean {
					return true
				}
			}
			return false
		}
	}

	if RoleMayAct(role, request.Status) {
		return true
	}

	for _, status := range StatusesForRole(role) {
		for _, entry := range history {
			if entry.NewStatus == status || entry.PreviousStatus == status {
				return true
			}
		}
	}
	return false
}

func categorizeForUser(request *models.Request, role models.Role, userID int, involvement Involvement) models.RequestVisibility {
	if request.Status == models.StatusApproved {
		return models.RequestVisibility{
			CanSee:     true,
			Category:   models.CategoryApproved,
			Reason:     "Request has been approved",
			UserAction: actionIf(involvement.HasApproved, models.ActionApprove),
		}
	}
	if request.Status == models.StatusRejected {
		return models.RequestVisibility{
			CanSee:     true,
			Category:   models.CategoryCompleted,
			Reason:     "Request has been rejected",
			UserAction: actionIf(involvement.HasRejected, models.ActionReject),
		}
	}

	// Pending means: my role is expected to act now, and I have not acted
	// since the request last entered its current status. A user who approved
	// in an earlier visit to the same status value (manager_review is cyclic)
	// is still pending in the current round.
	if RoleMayAct(role, request.Status) && !actedSinceStatusSet(request, userID) {
		return models.RequestVisibility{
			CanSee:   true,
			Category: models.CategoryPending,
			Reason:   "Waiting for your approval",
		}
	}

	if involvement.HasApproved {
		return models.RequestVisibility{
			CanSee:     true,
			Category:   models.CategoryInProgress,
			Reason:     "You approved, now at next level",
			UserAction: actionIf(true, models.ActionApprove),
		}
	}
	if involvement.HasClarified {
		return models.RequestVisibility{
			CanSee:     true,
			Category:   models.CategoryInProgress,
			Reason:     "You requested clarification",
			UserAction: actionIf(true, models.ActionClarify),
		}
	}

	return models.RequestVisibility{
		CanSee:   true,
		Category: models.CategoryInProgress,
		Reason:   "Request in workflow",
	}
}

// actedSinceStatusSet reports whether the user approved or forwarded after the
// most recent entry that set the request to its current status.
func actedSinceStatusSet(request *models.Request, userID int) bool {
	var lastChange *models.ApprovalHistory
	for i := len(request.History) - 1; i >= 0; i-- {
		if request.History[i].NewStatus == request.Status {
			lastChange = &request.History[i]
			break
		}
	}
	if lastChange == nil {
		return false
	}
	for _, entry := range request.History {
		if entry.ActorID != userID {
			continue
		}
		if entry.Action != models.ActionApprove && entry.Action != models.ActionForward {
			continue
		}
		if entry.Timestamp.After(lastChange.Timestamp) {
			return true
		}
	}
	return false
}

func actionIf(condition bool, action models.ActionType) *models.ActionType {
	if !condition {
		return nil
	}
	return &action
}

// FilterRequestsByVisibility annotates each request with its projection for
// the viewer and drops the invisible ones. An empty category keeps every
// visible request.
func FilterRequestsByVisibility(requests []models.Request, role models.Role, userID int, category models.VisibilityCategory) []models.Request {
	visible := make([]models.Request, 0, len(requests))
	for i := range requests {
		projection := Visibility(&requests[i], role, userID)
		if !projection.CanSee {
			continue
		}
		if category != "" && projection.Category != category {
			continue
		}
		requests[i].Visibility = &projection
		visible = append(visible, requests[i])
	}
	return visible
}
