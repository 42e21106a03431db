package usecase

import (
	"context"
	"errors"

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
	ErrPatientNotFound = errors.New("patient record not found")
	ErrVersionConflict = errors.New("patient record was modified by someone else")
	ErrInvalidOwner    = errors.New("owner must be an existing patient account")
)

type PatientRecordUsecase interface {
	Admit(ctx context.Context, req *dto.AdmitPatientRequest) (*dto.PatientRecordResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PatientRecordResponse, error)
	List(ctx context.Context, query *dto.PatientListQuery) (*dto.PatientListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientRecordResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	VisibleGroups(ctx context.Context, id uuid.UUID) (*dto.VisibleGroupsResponse, error)
}

type patientRecordUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	engine      *engine.Engine
	patientRepo repository.PatientRecordRepository
	userRepo    repository.UserRepository
}

func NewPatientRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	eng *engine.Engine,
	patientRepo repository.PatientRecordRepository,
	userRepo repository.UserRepository,
) PatientRecordUsecase {
	return &patientRecordUsecase{
		db:          db,
		log:         log,
		engine:      eng,
		patientRepo: patientRepo,
		userRepo:    userRepo,
	}
}

// Admit runs the intake transition and stores the new record.
//
// Flow:
// 1. Engine authorizes creation and every supplied group
// 2. Owner account (if any) must exist and be a patient
// 3. Insert inside a transaction
func (u *patientRecordUsecase) Admit(ctx context.Context, req *dto.AdmitPatientRequest) (*dto.PatientRecordResponse, error) {
	actor, ok := middleware.GetActorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	var ownerID *uuid.UUID
	if req.OwnerID != "" {
		id, err := uuid.Parse(req.OwnerID)
		if err != nil {
			return nil, ErrInvalidOwner
		}
		ownerID = &id
	}

	record, err := u.engine.AdmitPatient(actor, ownerID, converter.GroupsToPatch(req.Groups))
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if ownerID != nil {
		owner, err := u.userRepo.FindByID(tx, *ownerID)
		if err != nil {
			u.log.Warnf("Failed to find owner %s: %+v", ownerID, err)
			return nil, err
		}
		if owner == nil || owner.Role != entity.RolePatient {
			return nil, ErrInvalidOwner
		}
	}

	if err := u.patientRepo.Create(tx, record); err != nil {
		u.log.Warnf("Failed to create patient record: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient admitted: id=%s, by=%s (%s)", record.ID, actor.ID, actor.Role)
	return u.present(actor, record)
}

func (u *patientRecordUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.PatientRecordResponse, error) {
	actor, ok := middleware.GetActorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	record, err := u.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return u.present(actor, record)
}

// List returns redacted records. Patient actors only ever see their own.
func (u *patientRecordUsecase) List(ctx context.Context, query *dto.PatientListQuery) (*dto.PatientListResponse, error) {
	actor, ok := middleware.GetActorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	filter := &entity.PatientFilter{
		Service: query.Service,
		Limit:   query.Limit,
		Offset:  (query.Page - 1) * query.Limit,
	}
	if query.Status != "" {
		status := entity.PatientStatus(query.Status)
		filter.Status = &status
	}
	if !actor.Role.IsStaff() {
		filter.OwnerID = &actor.ID
	}

	records, total, err := u.patientRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list patient records: %+v", err)
		return nil, err
	}

	views := make([]*engine.PatientView, 0, len(records))
	for i := range records {
		view, err := u.engine.RedactPatient(actor, &records[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientViewsToResponses(views),
		Total:    total,
	}, nil
}

// Update applies a group patch against the latest snapshot.
//
// Flow:
// 1. Load the record; the client's version must match it
// 2. Engine authorizes every touched group and checks the transition
// 3. Store with a version guard; losing a race reports ErrVersionConflict
func (u *patientRecordUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientRecordResponse, error) {
	actor, ok := middleware.GetActorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	current, err := u.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if current.Version != req.Version {
		return nil, ErrVersionConflict
	}

	next, err := u.engine.ApplyPatientUpdate(actor, current, converter.GroupsToPatch(req.Groups))
	if err != nil {
		return nil, err
	}

	affected, err := u.patientRepo.Update(u.db.WithContext(ctx), next, current.Version)
	if err != nil {
		u.log.Warnf("Failed to update patient record %s: %+v", id, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrVersionConflict
	}

	if from, to := current.Status(), next.Status(); from != to {
		u.log.Infof("Patient %s moved from %s to %s by %s (%s)", id, from, to, actor.ID, actor.Role)
	}
	return u.present(actor, next)
}

func (u *patientRecordUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	actor, ok := middleware.GetActorFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	record, err := u.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := u.engine.CanDeletePatient(actor, record); err != nil {
		return err
	}

	affected, err := u.patientRepo.Delete(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to delete patient record %s: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrPatientNotFound
	}

	u.log.Infof("Patient record deleted: id=%s, by=%s", id, actor.ID)
	return nil
}

func (u *patientRecordUsecase) VisibleGroups(ctx context.Context, id uuid.UUID) (*dto.VisibleGroupsResponse, error) {
	actor, ok := middleware.GetActorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	record, err := u.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	groups := u.engine.VisibleGroups(actor, engine.ResourcePatientRecord, record.OwnerID)
	return &dto.VisibleGroupsResponse{
		PatientID: record.ID,
		Groups:    converter.TargetsToStrings(groups),
	}, nil
}

// load fetches a record for the actor. Patient actors get the same denial
// for a missing record as for someone else's, so record ids reveal nothing.
func (u *patientRecordUsecase) load(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.PatientRecord, error) {
	record, err := u.patientRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find patient record %s: %+v", id, err)
		return nil, err
	}
	if !actor.Role.IsStaff() && (record == nil || !record.OwnedBy(actor.ID)) {
		return nil, &engine.NotOwnerError{Resource: engine.ResourcePatientRecord}
	}
	if record == nil {
		return nil, ErrPatientNotFound
	}
	return record, nil
}

func (u *patientRecordUsecase) present(actor entity.Actor, record *entity.PatientRecord) (*dto.PatientRecordResponse, error) {
	view, err := u.engine.RedactPatient(actor, record)
	if err != nil {
		return nil, err
	}
	return converter.PatientViewToResponse(view), nil
}
