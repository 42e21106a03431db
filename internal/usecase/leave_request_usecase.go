package usecase

import (
	"context"
	"errors"
	"time"

	"hospital-admin/internal/converter"
	"hospital-admin/internal/delivery/dto"
	"hospital-admin/internal/delivery/http/middleware"
	"hospital-admin/internal/domain/entity"
	"hospital-admin/internal/domain/repository"
	"hospital-admin/internal/engine"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrLeaveNotFound       = errors.New("leave request not found")
	ErrLeaveAlreadyDecided = errors.New("leave request has already been decided")
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrRequesterNotFound   = errors.New("requester account not found")
	ErrInvalidLeaveScope   = errors.New("scope must be mine or all")
)

type LeaveRequestUsecase interface {
	Submit(ctx context.Context, req *dto.SubmitLeaveRequest) (*dto.LeaveRequestResponse, error)
	List(ctx context.Context, query *dto.LeaveListQuery) (*dto.LeaveListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.LeaveRequestResponse, error)
	Approve(ctx context.Context, id uuid.UUID) (*dto.LeaveRequestResponse, error)
	Reject(ctx context.Context, id uuid.UUID, req *dto.RejectLeaveRequest) (*dto.LeaveRequestResponse, error)
}

type leaveRequestUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	engine    *engine.Engine
	leaveRepo repository.LeaveRequestRepository
}

func NewLeaveRequestUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	eng *engine.Engine,
	leaveRepo repository.LeaveRequestRepository,
) LeaveRequestUsecase {
	return &leaveRequestUsecase{
		db:        db,
		log:       log,
		engine:    eng,
		leaveRepo: leaveRepo,
	}
}

func (u *leaveRequestUsecase) Submit(ctx context.Context, req *dto.SubmitLeaveRequest) (*dto.LeaveRequestResponse, error) {
	actor, ok := middleware.GetActorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	request, err := u.engine.SubmitLeave(actor, engine.LeaveDraft{
		Type:      entity.LeaveType(req.Type),
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := u.leaveRepo.Create(u.db.WithContext(ctx), request); err != nil {
		if isForeignKeyError(err, "requester") {
			return nil, ErrRequesterNotFound
		}
		u.log.Warnf("Failed to create leave request: %+v", err)
		return nil, err
	}

	u.log.Infof("Leave request submitted: id=%s, requester=%s, days=%d", request.ID, actor.ID, request.Days())
	return converter.LeaveRequestToResponse(request), nil
}

// List returns the actor's own requests, or everyone's with scope=all when the
// capability table allows reading others' requests.
func (u *leaveRequestUsecase) List(ctx context.Context, query *dto.LeaveListQuery) (*dto.LeaveListResponse, error) {
	actor, ok := middleware.GetActorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	filter := &entity.LeaveFilter{
		Limit:  query.Limit,
		Offset: (query.Page - 1) * query.Limit,
	}
	if query.Status != "" {
		status := entity.LeaveStatus(query.Status)
		filter.Status = &status
	}

	switch query.Scope {
	case "", "mine":
		if err := u.engine.Evaluate(actor, engine.ResourceLeaveRequest, engine.TargetOwn, engine.Read, nil).Err(); err != nil {
			return nil, err
		}
		filter.RequesterID = &actor.ID
	case "all":
		if err := u.engine.CanListAllLeave(actor); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidLeaveScope
	}

	requests, total, err := u.leaveRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list leave requests: %+v", err)
		return nil, err
	}

	return &dto.LeaveListResponse{
		Requests: converter.LeaveRequestsToResponses(requests),
		Total:    total,
	}, nil
}

func (u *leaveRequestUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.LeaveRequestResponse, error) {
	actor, ok := middleware.GetActorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	request, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.engine.CanViewLeave(actor, request); err != nil {
		return nil, err
	}
	return converter.LeaveRequestToResponse(request), nil
}

func (u *leaveRequestUsecase) Approve(ctx context.Context, id uuid.UUID) (*dto.LeaveRequestResponse, error) {
	return u.decide(ctx, id, func(actor entity.Actor, current *entity.LeaveRequest) (*entity.LeaveRequest, error) {
		return u.engine.ApproveLeave(actor, current)
	})
}

func (u *leaveRequestUsecase) Reject(ctx context.Context, id uuid.UUID, req *dto.RejectLeaveRequest) (*dto.LeaveRequestResponse, error) {
	return u.decide(ctx, id, func(actor entity.Actor, current *entity.LeaveRequest) (*entity.LeaveRequest, error) {
		return u.engine.RejectLeave(actor, current, req.Reason)
	})
}

// decide runs one workflow transition and persists it.
//
// Flow:
// 1. Load the request
// 2. Engine checks the state first, then the role, then the payload
// 3. Store guarded on status = pending; losing a race reports ErrLeaveAlreadyDecided
func (u *leaveRequestUsecase) decide(
	ctx context.Context,
	id uuid.UUID,
	transition func(entity.Actor, *entity.LeaveRequest) (*entity.LeaveRequest, error),
) (*dto.LeaveRequestResponse, error) {
	actor, ok := middleware.GetActorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	current, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := transition(actor, current)
	if err != nil {
		return nil, err
	}

	affected, err := u.leaveRepo.UpdateDecision(u.db.WithContext(ctx), next)
	if err != nil {
		u.log.Warnf("Failed to store decision for leave request %s: %+v", id, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrLeaveAlreadyDecided
	}

	u.log.Infof("Leave request %s moved from %s to %s by %s", id, current.Status, next.Status, actor.ID)
	next.Requester = current.Requester
	return converter.LeaveRequestToResponse(next), nil
}

func (u *leaveRequestUsecase) load(ctx context.Context, id uuid.UUID) (*entity.LeaveRequest, error) {
	request, err := u.leaveRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find leave request %s: %+v", id, err)
		return nil, err
	}
	if request == nil {
		return nil, ErrLeaveNotFound
	}
	return request, nil
}
