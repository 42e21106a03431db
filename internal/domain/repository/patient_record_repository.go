package repository

import (
	"hospital-admin/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRecordRepository interface {
	Create(db *gorm.DB, record *entity.PatientRecord) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.PatientRecord, error)
	FindAll(db *gorm.DB, filter *entity.PatientFilter) ([]entity.PatientRecord, int64, error)
	// Update writes the groups only if the stored version still equals expectedVersion.
	// Returns affected rows: 0 means a concurrent write won.
	Update(db *gorm.DB, record *entity.PatientRecord, expectedVersion int) (int64, error)
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
