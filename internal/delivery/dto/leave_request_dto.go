package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SubmitLeaveRequest struct {
	Type      string `json:"type" validate:"required,oneof=annual sick maternity paternity unpaid other"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required,max=1000"`
	Notes     string `json:"notes" validate:"omitempty,max=2000"`
}

// RejectLeaveRequest carries the mandatory rejection reason; blank reasons
// are refused by the workflow itself.
type RejectLeaveRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// LeaveListQuery holds the query string of GET /leave-requests
type LeaveListQuery struct {
	Scope  string `validate:"omitempty,oneof=mine all"`
	Status string `validate:"omitempty,oneof=pending approved rejected"`
	Page   int    `validate:"gte=1"`
	Limit  int    `validate:"gte=1,lte=100"`
}

// Response DTOs

type LeaveRequestResponse struct {
	ID              uuid.UUID  `json:"id"`
	RequesterID     uuid.UUID  `json:"requester_id"`
	RequesterName   string     `json:"requester_name,omitempty"`
	Type            string     `json:"type"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	Days            int        `json:"days"`
	Reason          string     `json:"reason"`
	Notes           string     `json:"notes,omitempty"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	DecidedBy       *uuid.UUID `json:"decided_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type LeaveListResponse struct {
	Requests []LeaveRequestResponse `json:"requests"`
	Total    int64                  `json:"total"`
}
