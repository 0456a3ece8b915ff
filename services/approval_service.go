package services

import (
	"encoding/json"
	"fmt"
	"time"

	"expenditure-approval-api/models"
)

// Actor is the authenticated principal performing an approval action. The
// identity layer supplies it; this package trusts it verbatim.
type Actor struct {
	UserID int
	Role   models.Role
}

// ApprovalPayload carries the caller-supplied inputs for one approval action.
type ApprovalPayload struct {
	Action           string   `json:"action" binding:"required"`
	Notes            string   `json:"notes"`
	Target           string   `json:"target"`
	SOPReference     string   `json:"sop_reference"`
	SOPNotAvailable  bool     `json:"sop_not_available"`
	BudgetAvailable  *bool    `json:"budget_available"`
	BudgetAllocated  *float64 `json:"budget_allocated"`
	BudgetSpent      *float64 `json:"budget_spent"`
	ForwardedMessage string   `json:"forwarded_message"`
	Attachments      []string `json:"attachments"`
}

// ProcessApproval validates an approval action against the transition table,
// appends a history entry, and advances the request's status. The write is a
// compare-and-swap on (request_id, status): concurrent actors racing on the
// same stage get ErrConflict and must reload and retry the whole operation.
func ProcessApproval(requestID int, actor Actor, payload ApprovalPayload) (*models.Request, error) {
	action, ok := models.ParseActionType(payload.Action)
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidAction, payload.Action)
	}

	request, err := requestRepo.Load(requestID)
	if err != nil {
		return nil, err
	}
	previousStatus := request.Status

	if !RoleMayAct(actor.Role, previousStatus) {
		return nil, fmt.Errorf("%w: role %s may not act while the request is %s",
			ErrUnauthorized, actor.Role, previousStatus)
	}

	ctx := TransitionContext{BudgetAvailable: payload.BudgetAvailable}

	// Department gate. All four department roles pass the table check for
	// department_checks, but only the targeted one may answer the live
	// clarification round, so this runs after the generic check passed.
	if previousStatus == models.StatusDepartmentChecks && actor.Role.IsDepartmentRole() {
		latest := LatestClarification(request.History)
		if latest != nil {
			if *latest.ClarificationTarget != actor.Role {
				return nil, fmt.Errorf("%w: this clarification is addressed to the %s department",
					ErrUnauthorized, *latest.ClarificationTarget)
			}
			ctx.ClarificationTarget = actor.Role
		}
	}

	var clarifyTarget models.Role
	if actor.Role == models.RoleDean && action == models.ActionClarify {
		target, ok := models.ParseRole(payload.Target)
		if !ok || !target.IsDepartmentRole() {
			return nil, fmt.Errorf("%w: clarify requires a department target", ErrInvalidAction)
		}
		clarifyTarget = target
		ctx.ClarificationType = "department"
	}

	// A manager clarification toward one of the verifiers does not move the
	// request: the entry is appended with clarification_type set to the
	// targeted verifier role and the status stays where it is.
	var verifierClarify models.Role
	if actor.Role == models.RoleInstitutionManager && action == models.ActionClarify {
		target, ok := models.ParseRole(payload.Target)
		if !ok || (target != models.RoleSOPVerifier && target != models.RoleAccountant) {
			return nil, fmt.Errorf("%w: clarify requires the sop_verifier or accountant target", ErrInvalidAction)
		}
		verifierClarify = target
	}

	if actor.Role == models.RoleSOPVerifier && action == models.ActionApprove &&
		payload.SOPReference == "" && !payload.SOPNotAvailable {
		return nil, fmt.Errorf("%w: SOP approval requires a reference or an explicit not-available flag", ErrInvalidAction)
	}

	// The manager's routing decision is only meaningful once both halves of
	// the verification round are back.
	if actor.Role == models.RoleInstitutionManager && action == models.ActionApprove &&
		previousStatus == models.StatusManagerReview {
		if payload.BudgetAvailable == nil {
			return nil, fmt.Errorf("%w: routing decision requires budget_available", ErrInvalidAction)
		}
		if !VerificationProgress(request.History).BothComplete {
			return nil, fmt.Errorf("%w: both SOP and budget verification must complete before routing", ErrInvalidAction)
		}
	}

	targetStatus := previousStatus
	if verifierClarify == "" {
		next, matched := NextStatus(previousStatus, action, actor.Role, ctx)
		if !matched {
			return nil, fmt.Errorf("%w: %s %s at %s", ErrNoOpTransition, actor.Role, action, previousStatus)
		}
		targetStatus = next
	}

	entry := buildHistoryEntry(request, actor, action, targetStatus, clarifyTarget, verifierClarify, payload)
	updates := buildRequestUpdates(actor, targetStatus, previousStatus, payload)

	return requestRepo.CompareAndSwap(request.RequestID, previousStatus, entry, updates)
}

// buildHistoryEntry stamps the audit record, including the role-conditional
// optional fields.
func buildHistoryEntry(request *models.Request, actor Actor, action models.ActionType,
	targetStatus models.Status, clarifyTarget, verifierClarify models.Role, payload ApprovalPayload) *models.ApprovalHistory {

	entry := &models.ApprovalHistory{
		RequestID:      request.RequestID,
		Action:         action,
		ActorID:        actor.UserID,
		ActorRole:      actor.Role,
		PreviousStatus: request.Status,
		NewStatus:      targetStatus,
		Timestamp:      time.Now(),
	}

	if action == models.ActionForward {
		message := payload.ForwardedMessage
		if message == "" {
			message = payload.Notes
		}
		if message != "" {
			entry.ForwardedMessage = &message
		}
	} else {
		if payload.Notes != "" {
			notes := payload.Notes
			entry.Notes = &notes
		}
		entry.BudgetAvailable = payload.BudgetAvailable
	}

	if len(payload.Attachments) > 0 {
		if encoded, err := json.Marshal(payload.Attachments); err == nil {
			paths := string(encoded)
			entry.AttachmentPaths = &paths
		}
	}

	if actor.Role == models.RoleAccountant {
		entry.BudgetAllocated = payload.BudgetAllocated
		entry.BudgetSpent = payload.BudgetSpent
		if payload.BudgetAllocated != nil && payload.BudgetSpent != nil {
			balance := *payload.BudgetAllocated - *payload.BudgetSpent
			entry.BudgetBalance = &balance
		}
	}

	if clarifyTarget != "" {
		target := clarifyTarget
		clarificationType := "department"
		entry.ClarificationTarget = &target
		entry.ClarificationType = &clarificationType
	}

	if verifierClarify != "" {
		clarificationType := string(verifierClarify)
		entry.ClarificationType = &clarificationType
	}

	if actor.Role.IsDepartmentRole() && request.Status == models.StatusDepartmentChecks &&
		action == models.ActionForward {
		response := actor.Role
		entry.DepartmentResponse = &response
	}

	return entry
}

// buildRequestUpdates collects the denormalized aggregate fields that change
// as side effects of the action, independent of whether the status moves.
func buildRequestUpdates(actor Actor, targetStatus, previousStatus models.Status, payload ApprovalPayload) map[string]interface{} {
	updates := map[string]interface{}{}

	if targetStatus != previousStatus {
		updates["status"] = targetStatus
	}

	if actor.Role == models.RoleSOPVerifier && payload.SOPReference != "" {
		updates["sop_reference"] = payload.SOPReference
	}

	if actor.Role == models.RoleAccountant && payload.BudgetAllocated != nil && payload.BudgetSpent != nil {
		updates["budget_allocated"] = *payload.BudgetAllocated
		updates["budget_spent"] = *payload.BudgetSpent
		updates["budget_balance"] = *payload.BudgetAllocated - *payload.BudgetSpent
	}

	return updates
}

// CreateRequest persists a new request in manager_review with its initial
// CREATE history entry.
func CreateRequest(request *models.Request, requester Actor) *models.ApprovalHistory {
	request.Status = models.StatusManagerReview
	return &models.ApprovalHistory{
		Action:         models.ActionCreate,
		ActorID:        requester.UserID,
		ActorRole:      requester.Role,
		PreviousStatus: models.StatusSubmitted,
		NewStatus:      models.StatusManagerReview,
		Timestamp:      time.Now(),
	}
}

// ListForViewer loads the candidate requests for a viewer and applies the
// visibility projection, optionally keeping a single category.
func ListForViewer(actor Actor, category models.VisibilityCategory) ([]models.Request, error) {
	filter := RequestFilter{}
	if actor.Role == models.RoleRequester {
		id := actor.UserID
		filter.RequesterID = &id
	}
	requests, err := requestRepo.Query(filter)
	if err != nil {
		return nil, err
	}
	return FilterRequestsByVisibility(requests, actor.Role, actor.UserID, category), nil
}

// LoadForViewer loads one request and enforces visibility for the viewer.
func LoadForViewer(requestID int, actor Actor) (*models.Request, error) {
	request, err := requestRepo.Load(requestID)
	if err != nil {
		return nil, err
	}
	projection := Visibility(request, actor.Role, actor.UserID)
	if !projection.CanSee {
		return nil, fmt.Errorf("%w: request is not visible to this user", ErrUnauthorized)
	}
	request.Visibility = &projection
	return request, nil
}
