package services

import (
	"expenditure-approval-api/models"
)

// Transition is one allowed edge in the approval workflow. The table answers
// "who may act on this status"; the specific successor for a given action is
// resolved by NextStatus, which layers the per-role branching rules on top.
type Transition struct {
	From          models.Status
	To            models.Status
	RequiredRoles []models.Role
}

var transitions = []Transition{
	// Institution manager sends to both verifiers simultaneously.
	{From: models.StatusManagerReview, To: models.StatusParallelVerification, RequiredRoles: []models.Role{models.RoleInstitutionManager}},

	// Parallel verification: SOP and Accountant work independently; whichever
	// finishes second hands the request back to the manager.
	{From: models.StatusParallelVerification, To: models.StatusSOPCompleted, RequiredRoles: []models.Role{models.RoleSOPVerifier}},
	{From: models.StatusParallelVerification, To: models.StatusBudgetCompleted, RequiredRoles: []models.Role{models.RoleAccountant}},
	{From: models.StatusSOPCompleted, To: models.StatusManagerReview, RequiredRoles: []models.Role{models.RoleAccountant}},
	{From: models.StatusBudgetCompleted, To: models.StatusManagerReview, RequiredRoles: []models.Role{models.RoleSOPVerifier}},

	// Manager routing once both verifications are complete.
	{From: models.StatusManagerReview, To: models.StatusVPApproval, RequiredRoles: []models.Role{models.RoleInstitutionManager}},
	{From: models.StatusManagerReview, To: models.StatusDeanReview, RequiredRoles: []models.Role{models.RoleInstitutionManager}},

	// Executive chain.
	{From: models.StatusVPApproval, To: models.StatusHOIApproval, RequiredRoles: []models.Role{models.RoleVP}},
	{From: models.StatusHOIApproval, To: models.StatusDeanReview, RequiredRoles: []models.Role{models.RoleHeadOfInstitution}},

	// Dean either asks a department to clarify or forwards to the chief director.
	{From: models.StatusDeanReview, To: models.StatusDepartmentChecks, RequiredRoles: []models.Role{models.RoleDean}},
	{From: models.StatusDeanReview, To: models.StatusChiefDirectorApproval, RequiredRoles: []models.Role{models.RoleDean}},

	// Department responses return to the dean. All four roles pass the table
	// check; the clarification-target gate narrows this to the intended one.
	{From: models.StatusDepartmentChecks, To: models.StatusDeanReview, RequiredRoles: models.DepartmentRoles},

	// Old requests persisted at dean_verification continue to the chief director.
	{From: models.StatusDeanVerification, To: models.StatusChiefDirectorApproval, RequiredRoles: []models.Role{models.RoleDean}},

	// Final approvals.
	{From: models.StatusChiefDirectorApproval, To: models.StatusChairmanApproval, RequiredRoles: []models.Role{models.RoleChiefDirector}},
	{From: models.StatusChairmanApproval, To: models.StatusApproved, RequiredRoles: []models.Role{models.RoleChairman}},

	// Rejection edges. Any role allowed to act on a status may reject from it.
	{From: models.StatusManagerReview, To: models.StatusRejected, RequiredRoles: []models.Role{models.RoleInstitutionManager}},
	{From: models.StatusParallelVerification, To: models.StatusRejected, RequiredRoles: []models.Role{models.RoleSOPVerifier, models.RoleAccountant}},
	{From: models.StatusSOPCompleted, To: models.StatusRejected, RequiredRoles: []models.Role{models.RoleAccountant}},
	{From: models.StatusBudgetCompleted, To: models.StatusRejected, RequiredRoles: []models.Role{models.RoleSOPVerifier}},
	{From: models.StatusVPApproval, To: models.StatusRejected, RequiredRoles: []models.Role{models.RoleVP}},
	{From: models.StatusHOIApproval, To: models.StatusRejected, RequiredRoles: []models.Role{models.RoleHeadOfInstitution}},
	{From: models.StatusDeanReview, To: models.StatusRejected, RequiredRoles: []models.Role{models.RoleDean}},
	{From: models.StatusDeanVerification, To: models.StatusRejected, RequiredRoles: []models.Role{models.RoleDean}},
	{From: models.StatusChiefDirectorApproval, To: models.StatusRejected, RequiredRoles: []models.Role{models.RoleChiefDirector}},
	{From: models.StatusChairmanApproval, To: models.StatusRejected, RequiredRoles: []models.Role{models.RoleChairman}},
}

// RequiredApprovers returns every role allowed to act on the given status.
// Terminal statuses and statuses with no rules yield an empty set, which is
// what makes terminal requests immutable: nobody passes the role check.
func RequiredApprovers(status models.Status) []models.Role {
	seen := make(map[models.Role]bool)
	var roles []models.Role
	for _, t := range transitions {
		if t.From != status {
			continue
		}
		for _, role := range t.RequiredRoles {
			if !seen[role] {
				seen[role] = true
				roles = append(roles, role)
			}
		}
	}
	return roles
}

// RoleMayAct reports whether the role appears in RequiredApprovers(status).
func RoleMayAct(role models.Role, status models.Status) bool {
	for _, allowed := range RequiredApprovers(status) {
		if allowed == role {
			return true
		}
	}
	return false
}

// TransitionContext carries the disambiguating inputs NextStatus needs when a
// (status, role) pair has more than one possible successor.
type TransitionContext struct {
	// Set for the manager's routing decision after both verifications finish.
	BudgetAvailable *bool
	// "department" when a dean clarify targets a department.
	ClarificationType string
	// The live target of the most recent dean clarification; gates which
	// department role may respond at department_checks.
	ClarificationTarget models.Role
}

// NextStatus resolves the specific successor status for a role taking an
// action on a status. Returns false when no rule matches; callers must treat
// that as a refused action, never default to some other status.
func NextStatus(current models.Status, action models.ActionType, role models.Role, ctx TransitionContext) (models.Status, bool) {
	if action == models.ActionReject {
		return models.StatusRejected, true
	}

	switch role {
	case models.RoleInstitutionManager:
		if current == models.StatusManagerReview {
			if action == models.ActionForward {
				return models.StatusParallelVerification, true
			}
			// Routing decision once both verifications are back. The caller
			// gates this on VerificationProgress before resolving.
			if action == models.ActionApprove && ctx.BudgetAvailable != nil {
				if *ctx.BudgetAvailable {
					return models.StatusVPApproval, true
				}
				return models.StatusDeanReview, true
			}
		}

	case models.RoleSOPVerifier:
		if action == models.ActionApprove {
			if current == models.StatusParallelVerification {
				return models.StatusSOPCompleted, true
			}
			if current == models.StatusBudgetCompleted {
				// Budget already done; SOP finishing hands back to the manager.
				return models.StatusManagerReview, true
			}
		}

	case models.RoleAccountant:
		if action == models.ActionApprove {
			if current == models.StatusParallelVerification {
				return models.StatusBudgetCompleted, true
			}
			if current == models.StatusSOPCompleted {
				return models.StatusManagerReview, true
			}
		}

	case models.RoleVP:
		if current == models.StatusVPApproval && action == models.ActionApprove {
			return models.StatusHOIApproval, true
		}

	case models.RoleHeadOfInstitution:
		if current == models.StatusHOIApproval && action == models.ActionApprove {
			return models.StatusDeanReview, true
		}

	case models.RoleDean:
		if current == models.StatusDeanReview {
			if action == models.ActionClarify && ctx.ClarificationType == "department" {
				return models.StatusDepartmentChecks, true
			}
			if action == models.ActionForward || action == models.ActionApprove {
				return models.StatusChiefDirectorApproval, true
			}
		}
		if current == models.StatusDeanVerification && (action == models.ActionApprove || action == models.ActionForward) {
			return models.StatusChiefDirectorApproval, true
		}

	case models.RoleMMA, models.RoleHR, models.RoleAudit, models.RoleIT:
		if current == models.StatusDepartmentChecks && ctx.ClarificationTarget == role {
			if action == models.ActionForward || action == models.ActionApprove {
				return models.StatusDeanReview, true
			}
		}

	case models.RoleChiefDirector:
		if current == models.StatusChiefDirectorApproval && action == models.ActionApprove {
			return models.StatusChairmanApproval, true
		}

	case models.RoleChairman:
		if current == models.StatusChairmanApproval && action == models.ActionApprove {
			return models.StatusApproved, true
		}
	}

	return "", false
}

// roleStatuses maps each role to every status it can be associated with, for
// the "has the request ever passed through my level" visibility check.
var roleStatuses = map[models.Role][]models.Status{
	models.RoleRequester:          {},
	models.RoleInstitutionManager: {models.StatusManagerReview, models.StatusParallelVerification},
	models.RoleSOPVerifier:        {models.StatusSOPVerification, models.StatusParallelVerification, models.StatusSOPCompleted},
	models.RoleAccountant:         {models.StatusBudgetCheck, models.StatusParallelVerification, models.StatusBudgetCompleted},
	models.RoleVP:                 {models.StatusVPApproval},
	models.RoleHeadOfInstitution:  {models.StatusHOIApproval},
	models.RoleDean:               {models.StatusDeanReview, models.StatusDeanVerification},
	models.RoleMMA:                {models.StatusDepartmentChecks},
	models.RoleHR:                 {models.StatusDepartmentChecks},
	models.RoleAudit:              {models.StatusDepartmentChecks},
	models.RoleIT:                 {models.StatusDepartmentChecks},
	models.RoleChiefDirector:      {models.StatusChiefDirectorApproval},
	models.RoleChairman:           {models.StatusChairmanApproval},
}

// StatusesForRole returns the statuses ever associated with a role.
func StatusesForRole(role models.Role) []models.Status {
	return roleStatuses[role]
}
