package engine

import (
	"strings"
	"time"

	"hospital-admin/internal/domain/entity"
)

// LeaveDraft is what a staff member fills in when asking for leave
type LeaveDraft struct {
	Type      entity.LeaveType
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	Notes     string
}

// SubmitLeave files a new pending request owned by the actor
func (e *Engine) SubmitLeave(actor entity.Actor, draft LeaveDraft) (*entity.LeaveRequest, error) {
	if d := e.Evaluate(actor, ResourceLeaveRequest, TargetOwn, Write, nil); !d.Allowed {
		return nil, d.Reason
	}

	if !draft.Type.IsValid() {
		return nil, invalid("type", "unknown leave type")
	}
	if draft.StartDate.IsZero() {
		return nil, invalid("start_date", "is required")
	}
	if draft.EndDate.IsZero() {
		return nil, invalid("end_date", "is required")
	}
	if draft.EndDate.Before(draft.StartDate) {
		return nil, invalid("end_date", "must not be before start_date")
	}
	reason := strings.TrimSpace(draft.Reason)
	if reason == "" {
		return nil, invalid("reason", "is required")
	}

	request := &entity.LeaveRequest{
		RequesterID: actor.ID,
		Type:        draft.Type,
		StartDate:   draft.StartDate,
		EndDate:     draft.EndDate,
		Reason:      reason,
		Notes:       strings.TrimSpace(draft.Notes),
		Status:      entity.LeaveStatusPending,
	}

	e.observer.ObserveTransition(ResourceLeaveRequest, "draft", string(entity.LeaveStatusPending))
	return request, nil
}

// ApproveLeave moves a pending request to approved and clears any stale
// rejection reason. Terminal requests are refused before the role is checked.
func (e *Engine) ApproveLeave(actor entity.Actor, request *entity.LeaveRequest) (*entity.LeaveRequest, error) {
	if err := e.checkLeaveDecision(actor, request, entity.LeaveStatusApproved, ActionApprove); err != nil {
		return nil, err
	}

	out := e.decide(actor, request, entity.LeaveStatusApproved)
	out.RejectionReason = nil
	return out, nil
}

// RejectLeave moves a pending request to rejected; a non-blank reason is mandatory
func (e *Engine) RejectLeave(actor entity.Actor, request *entity.LeaveRequest, reason string) (*entity.LeaveRequest, error) {
	if err := e.checkLeaveDecision(actor, request, entity.LeaveStatusRejected, ActionReject); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, invalid("reason", "is required when rejecting")
	}

	out := e.decide(actor, request, entity.LeaveStatusRejected)
	out.RejectionReason = &reason
	return out, nil
}

// CanViewLeave allows requesters to read their own requests and, per the
// table, some roles to read everyone's.
func (e *Engine) CanViewLeave(actor entity.Actor, request *entity.LeaveRequest) error {
	if request == nil {
		return invalid("request", "is required")
	}
	target := TargetOthers
	if request.RequesterID == actor.ID {
		target = TargetOwn
	}
	return e.Evaluate(actor, ResourceLeaveRequest, target, Read, nil).Err()
}

// CanListAllLeave reports whether the actor may see requests filed by others
func (e *Engine) CanListAllLeave(actor entity.Actor) error {
	return e.Evaluate(actor, ResourceLeaveRequest, TargetOthers, Read, nil).Err()
}

func (e *Engine) checkLeaveDecision(actor entity.Actor, request *entity.LeaveRequest, to entity.LeaveStatus, action Target) error {
	if request == nil {
		return invalid("request", "is required")
	}
	// pending is the only state with outgoing edges
	if !request.IsPending() {
		return &IllegalTransitionError{From: string(request.Status), To: string(to)}
	}
	return e.Evaluate(actor, ResourceLeaveRequest, action, Write, nil).Err()
}

func (e *Engine) decide(actor entity.Actor, request *entity.LeaveRequest, to entity.LeaveStatus) *entity.LeaveRequest {
	out := *request
	out.Requester = nil
	out.Status = to
	decidedBy := actor.ID
	decidedAt := e.now()
	out.DecidedBy = &decidedBy
	out.DecidedAt = &decidedAt

	e.observer.ObserveTransition(ResourceLeaveRequest, string(request.Status), string(to))
	return &out
}
