package models

import "time"

// Request is the expenditure request aggregate. Its status always equals the
// new_status of the last history entry that changed it, and the history is
// append-only: entries are never mutated, reordered, or removed.
type Request struct {
	RequestID       int     `gorm:"primaryKey;column:request_id" json:"request_id"`
	RequestNumber   string  `gorm:"column:request_number;unique" json:"request_number"`
	Title           string  `gorm:"column:title" json:"title"`
	Purpose         string  `gorm:"column:purpose" json:"purpose"`
	College         string  `gorm:"column:college" json:"college"`
	Department      string  `gorm:"column:department" json:"department"`
	CostEstimate    float64 `gorm:"column:cost_estimate" json:"cost_estimate"`
	ExpenseCategory string  `gorm:"column:expense_category" json:"expense_category"`
	SOPReference    string  `gorm:"column:sop_reference" json:"sop_reference"`

	// Latest accountant-submitted values, denormalized from history.
	BudgetAllocated float64 `gorm:"column:budget_allocated" json:"budget_allocated"`
	BudgetSpent     float64 `gorm:"column:budget_spent" json:"budget_spent"`
	BudgetBalance   float64 `gorm:"column:budget_balance" json:"budget_balance"`

	RequesterID int    `gorm:"column:requester_id" json:"requester_id"`
	Status      Status `gorm:"column:status" json:"status"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Requester   User              `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	History     []ApprovalHistory `gorm:"foreignKey:RequestID" json:"history,omitempty"`
	Attachments []Attachment      `gorm:"foreignKey:RequestID" json:"attachments,omitempty"`

	// Per-viewer projection, filled by the visibility service. Never persisted.
	Visibility *RequestVisibility `gorm:"-" json:"_visibility,omitempty"`
}

// TableName overrides
func (Request) TableName() string {
	return "requests"
}
