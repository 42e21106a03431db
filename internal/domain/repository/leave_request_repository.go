package repository

import (
	"hospital-admin/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveRequestRepository interface {
	Create(db *gorm.DB, request *entity.LeaveRequest) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.LeaveRequest, error)
	FindAll(db *gorm.DB, filter *entity.LeaveFilter) ([]entity.LeaveRequest, int64, error)
	// UpdateDecision stores a decision only while the request is still pending.
	// Returns affected rows: 0 means it was decided concurrently.
	UpdateDecision(db *gorm.DB, request *entity.LeaveRequest) (int64, error)
}
