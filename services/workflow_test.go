package services

import (
	"testing"

	"expenditure-approval-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func TestRequiredApprovers(t *testing.T) {
	tests := []struct {
		status models.Status
		roles  []models.Role
	}{
		{models.StatusManagerReview, []models.Role{models.RoleInstitutionManager}},
		{models.StatusParallelVerification, []models.Role{models.RoleSOPVerifier, models.RoleAccountant}},
		{models.StatusSOPCompleted, []models.Role{models.RoleAccountant}},
		{models.StatusBudgetCompleted, []models.Role{models.RoleSOPVerifier}},
		{models.StatusVPApproval, []models.Role{models.RoleVP}},
		{models.StatusHOIApproval, []models.Role{models.RoleHeadOfInstitution}},
		{models.StatusDeanReview, []models.Role{models.RoleDean}},
		{models.StatusDepartmentChecks, []models.Role{models.RoleMMA, models.RoleHR, models.RoleAudit, models.RoleIT}},
		{models.StatusDeanVerification, []models.Role{models.RoleDean}},
		{models.StatusChiefDirectorApproval, []models.Role{models.RoleChiefDirector}},
		{models.StatusChairmanApproval, []models.Role{models.RoleChairman}},
		// Terminal statuses have no approvers, which is what freezes them.
		{models.StatusApproved, nil},
		{models.StatusRejected, nil},
		// Legacy linear-flow statuses carry no rules anymore.
		{models.StatusSOPVerification, nil},
		{models.StatusBudgetCheck, nil},
		{models.StatusBudgetClarification, nil},
		{models.StatusSubmitted, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.ElementsMatch(t, tt.roles, RequiredApprovers(tt.status))
		})
	}
}

// Every role is either intentionally allowed or intentionally absent for every
// status: roles outside the expected approver set must never pass RoleMayAct.
func TestRoleMayActExhaustive(t *testing.T) {
	statuses := []models.Status{
		models.StatusSubmitted, models.StatusManagerReview, models.StatusParallelVerification,
		models.StatusSOPVerification, models.StatusSOPCompleted, models.StatusBudgetCheck,
		models.StatusBudgetCompleted, models.StatusBudgetClarification, models.StatusVPApproval,
		models.StatusHOIApproval, models.StatusDeanReview, models.StatusDepartmentChecks,
		models.StatusDeanVerification, models.StatusChiefDirectorApproval,
		models.StatusChairmanApproval, models.StatusApproved, models.StatusRejected,
	}

	for _, status := range statuses {
		allowed := map[models.Role]bool{}
		for _, role := range RequiredApprovers(status) {
			allowed[role] = true
		}
		for _, role := range models.AllRoles() {
			assert.Equal(t, allowed[role], RoleMayAct(role, status),
				"role %s at status %s", role, status)
		}
	}
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  models.Status
		action  models.ActionType
		role    models.Role
		ctx     TransitionContext
		want    models.Status
		matched bool
	}{
		{
			name:   "manager forwards to parallel verification",
			status: models.StatusManagerReview, action: models.ActionForward,
			role: models.RoleInstitutionManager,
			want: models.StatusParallelVerification, matched: true,
		},
		{
			name:   "manager routes to VP when budget is available",
			status: models.StatusManagerReview, action: models.ActionApprove,
			role: models.RoleInstitutionManager,
			ctx:  TransitionContext{BudgetAvailable: boolPtr(true)},
			want: models.StatusVPApproval, matched: true,
		},
		{
			name:   "manager routes to dean when budget is not available",
			status: models.StatusManagerReview, action: models.ActionApprove,
			role: models.RoleInstitutionManager,
			ctx:  TransitionContext{BudgetAvailable: boolPtr(false)},
			want: models.StatusDeanReview, matched: true,
		},
		{
			name:   "manager approve without a routing decision matches nothing",
			status: models.StatusManagerReview, action: models.ActionApprove,
			role:    models.RoleInstitutionManager,
			matched: false,
		},
		{
			name:   "SOP finishes first half of verification",
			status: models.StatusParallelVerification, action: models.ActionApprove,
			role: models.RoleSOPVerifier,
			want: models.StatusSOPCompleted, matched: true,
		},
		{
			name:   "SOP finishes second and hands back to manager",
			status: models.StatusBudgetCompleted, action: models.ActionApprove,
			role: models.RoleSOPVerifier,
			want: models.StatusManagerReview, matched: true,
		},
		{
			name:   "accountant finishes first half of verification",
			status: models.StatusParallelVerification, action: models.ActionApprove,
			role: models.RoleAccountant,
			want: models.StatusBudgetCompleted, matched: true,
		},
		{
			name:   "accountant finishes second and hands back to manager",
			status: models.StatusSOPCompleted, action: models.ActionApprove,
			role: models.RoleAccountant,
			want: models.StatusManagerReview, matched: true,
		},
		{
			name:   "VP approves to HOI",
			status: models.StatusVPApproval, action: models.ActionApprove,
			role: models.RoleVP,
			want: models.StatusHOIApproval, matched: true,
		},
		{
			name:   "HOI approves to dean review",
			status: models.StatusHOIApproval, action: models.ActionApprove,
			role: models.RoleHeadOfInstitution,
			want: models.StatusDeanReview, matched: true,
		},
		{
			name:   "dean clarify targets a department",
			status: models.StatusDeanReview, action: models.ActionClarify,
			role: models.RoleDean,
			ctx:  TransitionContext{ClarificationType: "department"},
			want: models.StatusDepartmentChecks, matched: true,
		},
		{
			name:   "dean clarify without department context matches nothing",
			status: models.StatusDeanReview, action: models.ActionClarify,
			role:    models.RoleDean,
			matched: false,
		},
		{
			name:   "dean approve skips straight to chief director",
			status: models.StatusDeanReview, action: models.ActionApprove,
			role: models.RoleDean,
			want: models.StatusChiefDirectorApproval, matched: true,
		},
		{
			name:   "dean forward also reaches chief director",
			status: models.StatusDeanReview, action: models.ActionForward,
			role: models.RoleDean,
			want: models.StatusChiefDirectorApproval, matched: true,
		},
		{
			name:   "dean continues old dean_verification requests",
			status: models.StatusDeanVerification, action: models.ActionApprove,
			role: models.RoleDean,
			want: models.StatusChiefDirectorApproval, matched: true,
		},
		{
			name:   "targeted department responds to the dean",
			status: models.StatusDepartmentChecks, action: models.ActionForward,
			role: models.RoleHR,
			ctx:  TransitionContext{ClarificationTarget: models.RoleHR},
			want: models.StatusDeanReview, matched: true,
		},
		{
			name:   "untargeted department matches nothing",
			status: models.StatusDepartmentChecks, action: models.ActionForward,
			role:    models.RoleIT,
			ctx:     TransitionContext{ClarificationTarget: models.RoleHR},
			matched: false,
		},
		{
			name:   "chief director approves to chairman",
			status: models.StatusChiefDirectorApproval, action: models.ActionApprove,
			role: models.RoleChiefDirector,
			want: models.StatusChairmanApproval, matched: true,
		},
		{
			name:   "chairman grants final approval",
			status: models.StatusChairmanApproval, action: models.ActionApprove,
			role: models.RoleChairman,
			want: models.StatusApproved, matched: true,
		},
		{
			name:   "reject short-circuits from any stage",
			status: models.StatusChiefDirectorApproval, action: models.ActionReject,
			role: models.RoleChiefDirector,
			want: models.StatusRejected, matched: true,
		},
		{
			name:   "requester never resolves a transition",
			status: models.StatusManagerReview, action: models.ActionApprove,
			role:    models.RoleRequester,
			matched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched := NextStatus(tt.status, tt.action, tt.role, tt.ctx)
			require.Equal(t, tt.matched, matched)
			if tt.matched {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseRoleNormalizes(t *testing.T) {
	role, ok := models.ParseRole("  HR ")
	require.True(t, ok)
	assert.Equal(t, models.RoleHR, role)

	_, ok = models.ParseRole("warden")
	assert.False(t, ok)
}
