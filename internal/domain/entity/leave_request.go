package entity

import (
	"time"

	"github.com/google/uuid"
)

// LeaveStatus represents the status of a leave request
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// LeaveType is the category of absence being requested
type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypePaternity LeaveType = "paternity"
	LeaveTypeUnpaid    LeaveType = "unpaid"
	LeaveTypeOther     LeaveType = "other"
)

// IsValid reports whether t is a known leave type
func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeSick, LeaveTypeMaternity, LeaveTypePaternity, LeaveTypeUnpaid, LeaveTypeOther:
		return true
	}
	return false
}

// LeaveRequest represents a staff absence request and its approval state
type LeaveRequest struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RequesterID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"requester_id"`
	Type            LeaveType   `gorm:"type:varchar(20);not null" json:"type"`
	StartDate       time.Time   `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time   `gorm:"type:date;not null" json:"end_date"`
	Reason          string      `gorm:"type:text;not null" json:"reason"`
	Notes           string      `gorm:"type:text" json:"notes,omitempty"`
	Status          LeaveStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RejectionReason *string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	DecidedBy       *uuid.UUID  `gorm:"type:uuid" json:"decided_by,omitempty"`
	DecidedAt       *time.Time  `json:"decided_at,omitempty"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Requester *User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// IsPending checks if the request is still awaiting a decision
func (l *LeaveRequest) IsPending() bool {
	return l.Status == LeaveStatusPending
}

// Days returns the inclusive number of calendar days covered
func (l *LeaveRequest) Days() int {
	if l.EndDate.Before(l.StartDate) {
		return 0
	}
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}
