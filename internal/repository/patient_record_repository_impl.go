package repository

import (
	"errors"

	"hospital-admin/internal/domain/entity"
	domainRepo "hospital-admin/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRecordRepository struct{}

func NewPatientRecordRepository() domainRepo.PatientRecordRepository {
	return &patientRecordRepository{}
}

func (r *patientRecordRepository) Create(db *gorm.DB, record *entity.PatientRecord) error {
	if record.Version == 0 {
		record.Version = 1
	}
	return db.Create(record).Error
}

func (r *patientRecordRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.PatientRecord, error) {
	var record entity.PatientRecord
	err := db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindAll lists records newest first. Status is derived, so it is filtered
// on the discharge_confirmed key inside the discharge column.
func (r *patientRecordRepository) FindAll(db *gorm.DB, filter *entity.PatientFilter) ([]entity.PatientRecord, int64, error) {
	query := db.Model(&entity.PatientRecord{})

	if filter != nil {
		if filter.OwnerID != nil {
			query = query.Where("owner_id = ?", *filter.OwnerID)
		}
		if filter.Status != nil {
			query = query.Where("COALESCE((discharge->>'discharge_confirmed')::boolean, false) = ?",
				*filter.Status == entity.PatientStatusDischarged)
		}
		if filter.Service != "" {
			query = query.Where("admission->>'service' ILIKE ?", "%"+filter.Service+"%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter != nil && filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var records []entity.PatientRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *patientRecordRepository) Update(db *gorm.DB, record *entity.PatientRecord, expectedVersion int) (int64, error) {
	record.Version = expectedVersion + 1
	result := db.Model(record).
		Where("version = ?", expectedVersion).
		Select("Identity", "Clinical", "Admission", "Administrative", "Discharge", "Version", "UpdatedAt").
		Updates(record)
	if result.Error != nil || result.RowsAffected == 0 {
		record.Version = expectedVersion
	}
	return result.RowsAffected, result.Error
}

func (r *patientRecordRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.PatientRecord{})
	return result.RowsAffected, result.Error
}
