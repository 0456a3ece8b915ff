package models

import "strings"

// Role identifies a workflow participant. Roles are a flat set; the approval
// hierarchy lives in the transition table, not here.
type Role string

const (
	RoleRequester          Role = "requester"
	RoleInstitutionManager Role = "institution_manager"
	RoleSOPVerifier        Role = "sop_verifier"
	RoleAccountant         Role = "accountant"
	RoleVP                 Role = "vp"
	RoleHeadOfInstitution  Role = "head_of_institution"
	RoleDean               Role = "dean"
	RoleMMA                Role = "mma"
	RoleHR                 Role = "hr"
	RoleAudit              Role = "audit"
	RoleIT                 Role = "it"
	RoleChiefDirector      Role = "chief_director"
	RoleChairman           Role = "chairman"
)

// DepartmentRoles are the four roles that answer Dean clarifications.
var DepartmentRoles = []Role{RoleMMA, RoleHR, RoleAudit, RoleIT}

var allRoles = []Role{
	RoleRequester, RoleInstitutionManager, RoleSOPVerifier, RoleAccountant,
	RoleVP, RoleHeadOfInstitution, RoleDean, RoleMMA, RoleHR, RoleAudit,
	RoleIT, RoleChiefDirector, RoleChairman,
}

// AllRoles returns every recognized workflow role.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole normalizes raw input to a canonical Role. Stored role strings are
// always lowercase; normalization happens here, at the boundary, never per-call.
func ParseRole(raw string) (Role, bool) {
	candidate := Role(strings.ToLower(strings.TrimSpace(raw)))
	for _, role := range allRoles {
		if role == candidate {
			return role, true
		}
	}
	return "", false
}

// IsDepartmentRole reports whether the role is one of the clarification departments.
func (r Role) IsDepartmentRole() bool {
	for _, dept := range DepartmentRoles {
		if r == dept {
			return true
		}
	}
	return false
}

// Status is a request's workflow stage.
type Status string

const (
	StatusSubmitted             Status = "submitted"
	StatusManagerReview         Status = "manager_review"
	StatusParallelVerification  Status = "parallel_verification"
	StatusSOPVerification       Status = "sop_verification" // legacy linear flow
	StatusSOPCompleted          Status = "sop_completed"
	StatusBudgetCheck           Status = "budget_check" // legacy linear flow
	StatusBudgetCompleted       Status = "budget_completed"
	StatusBudgetClarification   Status = "budget_clarification" // legacy linear flow
	StatusVPApproval            Status = "vp_approval"
	StatusHOIApproval           Status = "hoi_approval"
	StatusDeanReview            Status = "dean_review"
	StatusDepartmentChecks      Status = "department_checks"
	StatusDeanVerification      Status = "dean_verification"
	StatusChiefDirectorApproval Status = "chief_director_approval"
	StatusChairmanApproval      Status = "chairman_approval"
	StatusApproved              Status = "approved"
	StatusRejected              Status = "rejected"
)

// IsTerminal reports whether the status ends the workflow. Terminal requests
// accept no further approval actions.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ActionType is the kind of operation an actor performs on a request.
type ActionType string

const (
	ActionCreate  ActionType = "create"
	ActionApprove ActionType = "approve"
	ActionReject  ActionType = "reject"
	ActionClarify ActionType = "clarify"
	ActionForward ActionType = "forward"
)

// ParseActionType normalizes raw input to a canonical ActionType. Create is
// excluded: it is only ever written by the request-creation path.
func ParseActionType(raw string) (ActionType, bool) {
	switch ActionType(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionApprove:
		return ActionApprove, true
	case ActionReject:
		return ActionReject, true
	case ActionClarify:
		return ActionClarify, true
	case ActionForward:
		return ActionForward, true
	}
	return "", false
}

// VisibilityCategory is the bucket a visible request falls into for a viewer.
type VisibilityCategory string

const (
	CategoryPending    VisibilityCategory = "pending"
	CategoryApproved   VisibilityCategory = "approved"
	CategoryInProgress VisibilityCategory = "in_progress"
	CategoryCompleted  VisibilityCategory = "completed"
)

// RequestVisibility is the per-viewer projection of a request: whether the
// viewer may see it at all, and how it should be bucketed for them.
type RequestVisibility struct {
	CanSee     bool               `json:"can_see"`
	Category   VisibilityCategory `json:"category"`
	Reason     string             `json:"reason"`
	UserAction *ActionType        `json:"user_action,omitempty"`
}
