package repository

import (
	"errors"

	"hospital-admin/internal/domain/entity"
	domainRepo "hospital-admin/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type leaveRequestRepository struct{}

func NewLeaveRequestRepository() domainRepo.LeaveRequestRepository {
	return &leaveRequestRepository{}
}

func (r *leaveRequestRepository) Create(db *gorm.DB, request *entity.LeaveRequest) error {
	return db.Omit("Requester").Create(request).Error
}

func (r *leaveRequestRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.LeaveRequest, error) {
	var request entity.LeaveRequest
	err := db.Preload("Requester").Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *leaveRequestRepository) FindAll(db *gorm.DB, filter *entity.LeaveFilter) ([]entity.LeaveRequest, int64, error) {
	query := db.Model(&entity.LeaveRequest{})

	if filter != nil {
		if filter.RequesterID != nil {
			query = query.Where("requester_id = ?", *filter.RequesterID)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter != nil && filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var requests []entity.LeaveRequest
	err := query.Preload("Requester").
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// UpdateDecision atomically records a decision ONLY if the request is still pending.
// Returns affected rows: 1 = success, 0 = already decided (prevents double-decision race).
func (r *leaveRequestRepository) UpdateDecision(db *gorm.DB, request *entity.LeaveRequest) (int64, error) {
	result := db.Model(&entity.LeaveRequest{}).
		Where("id = ? AND status = ?", request.ID, entity.LeaveStatusPending).
		Updates(map[string]interface{}{
			"status":           request.Status,
			"rejection_reason": request.RejectionReason,
			"decided_by":       request.DecidedBy,
			"decided_at":       request.DecidedAt,
		})
	return result.RowsAffected, result.Error
}
