package models

import "time"

// ApprovalHistory is one immutable audit record of an action taken on a
// request. Rows are only ever inserted; timestamps are non-decreasing per
// request with ties broken by insertion order (history_id).
type ApprovalHistory struct {
	HistoryID int        `gorm:"primaryKey;column:history_id" json:"history_id"`
	RequestID int        `gorm:"column:request_id;index" json:"request_id"`
	Action    ActionType `gorm:"column:action" json:"action"`
	ActorID   int        `gorm:"column:actor_id" json:"actor_id"`
	// Role captured at the time of the action; a user's role does not change
	// mid-workflow in this model.
	ActorRole      Role   `gorm:"column:actor_role" json:"actor_role"`
	PreviousStatus Status `gorm:"column:previous_status" json:"previous_status"`
	NewStatus      Status `gorm:"column:new_status" json:"new_status"`

	Notes            *string `gorm:"column:notes" json:"notes,omitempty"`
	ForwardedMessage *string `gorm:"column:forwarded_message" json:"forwarded_message,omitempty"`
	// JSON-encoded list of stored attachment paths.
	AttachmentPaths *string `gorm:"column:attachment_paths" json:"attachment_paths,omitempty"`

	BudgetAvailable *bool    `gorm:"column:budget_available" json:"budget_available,omitempty"`
	BudgetAllocated *float64 `gorm:"column:budget_allocated" json:"budget_allocated,omitempty"`
	BudgetSpent     *float64 `gorm:"column:budget_spent" json:"budget_spent,omitempty"`
	BudgetBalance   *float64 `gorm:"column:budget_balance" json:"budget_balance,omitempty"`

	// Clarification tracking. Targets are stored as canonical lowercase role
	// strings, normalized at the HTTP boundary.
	ClarificationTarget *Role   `gorm:"column:clarification_target" json:"clarification_target,omitempty"`
	ClarificationType   *string `gorm:"column:clarification_type" json:"clarification_type,omitempty"`
	DepartmentResponse  *Role   `gorm:"column:department_response" json:"department_response,omitempty"`

	Timestamp time.Time `gorm:"column:timestamp" json:"timestamp"`

	// Relations
	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// TableName overrides
func (ApprovalHistory) TableName() string {
	return "approval_history"
}
