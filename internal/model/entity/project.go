package entity

import (
	"time"
)

// Approval states. Any state is reachable from any other: approval is a
// manual, correctable decision, so no transition is ever rejected.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// DefaultRejectionReason is recorded when a project is rejected without
// an explicit reason.
const DefaultRejectionReason = "Project rejected"

// Project is a client work item on the kanban board. Completion and
// approval are independent axes: a completed project may still be
// pending or even rejected.
type Project struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Client      string    `json:"client" gorm:"size:200;not null"`
	DeliveryDue time.Time `json:"delivery_due" gorm:"type:date;not null"`
	PaymentDue  time.Time `json:"payment_due" gorm:"type:date;not null"`
	StatusID    string    `json:"status_id" gorm:"size:32;not null"`
	OwnerID     string    `json:"owner_id" gorm:"size:32;not null"`
	Notes       string    `json:"notes" gorm:"type:text"`

	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	CompletedAt *time.Time `json:"completed_at"`

	Approval        string     `json:"approval" gorm:"size:10;not null;default:pending"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectionReason *string    `json:"rejection_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Status    *ProjectStatus    `json:"status,omitempty" gorm:"foreignKey:StatusID"`
	Owner     *User             `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Materials []ProjectMaterial `json:"materials,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (Project) TableName() string {
	return "projects"
}

// MarkCompleted sets the completion axis. Calling it on an already
// completed project just refreshes the timestamp.
func (p *Project) MarkCompleted(now time.Time) {
	p.Completed = true
	p.CompletedAt = &now
}

// Reopen clears the completion axis. Valid from either state.
func (p *Project) Reopen() {
	p.Completed = false
	p.CompletedAt = nil
}

// Approve moves the approval axis to approved and clears any rejection
// reason left over from a previous decision.
func (p *Project) Approve(now time.Time) {
	p.Approval = ApprovalApproved
	p.ApprovedAt = &now
	p.RejectionReason = nil
}

// Reject moves the approval axis to rejected, recording reason. An
// empty reason falls back to DefaultRejectionReason. The decision
// timestamp is shared with Approve.
func (p *Project) Reject(reason string, now time.Time) {
	if reason == "" {
		reason = DefaultRejectionReason
	}
	p.Approval = ApprovalRejected
	p.ApprovedAt = &now
	p.RejectionReason = &reason
}

// ResetApproval returns the approval axis to pending, clearing the
// decision timestamp and reason.
func (p *Project) ResetApproval() {
	p.Approval = ApprovalPending
	p.ApprovedAt = nil
	p.RejectionReason = nil
}

// IsActive reports whether the project still counts on the board:
// not completed and not rejected.
func (p *Project) IsActive() bool {
	return !p.Completed && (p.Approval == ApprovalPending || p.Approval == ApprovalApproved)
}

// ProjectMaterial is one bill-of-quantities line. A project lists each
// product at most once; duplicates are rejected, never merged.
type ProjectMaterial struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID string    `json:"project_id" gorm:"size:32;not null;uniqueIndex:idx_project_product"`
	ProductID string    `json:"product_id" gorm:"size:32;not null;uniqueIndex:idx_project_product"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (ProjectMaterial) TableName() string {
	return "project_materials"
}
