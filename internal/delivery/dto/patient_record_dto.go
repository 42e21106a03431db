package dto

import (
	"encoding/json"
	"time"

	"hospital-admin/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

// AdmitPatientRequest opens a new stay. Groups is keyed by field-group name:
// {"groups": {"identity": {"full_name": "..."}, "admission": {...}}}
type AdmitPatientRequest struct {
	OwnerID string                     `json:"owner_id" validate:"omitempty,uuid"`
	Groups  map[string]json.RawMessage `json:"groups" validate:"required,min=1"`
}

// UpdatePatientRequest patches the groups of an existing record. Version must
// match the version the client last read.
type UpdatePatientRequest struct {
	Version int                        `json:"version" validate:"required,min=1"`
	Groups  map[string]json.RawMessage `json:"groups" validate:"required,min=1"`
}

// Response DTOs

// PatientRecordResponse only carries the groups the caller may read
type PatientRecordResponse struct {
	ID             uuid.UUID                   `json:"id"`
	OwnerID        *uuid.UUID                  `json:"owner_id,omitempty"`
	Status         string                      `json:"status"`
	Version        int                         `json:"version"`
	VisibleGroups  []string                    `json:"visible_groups"`
	Identity       *entity.IdentityGroup       `json:"identity,omitempty"`
	Clinical       *entity.ClinicalGroup       `json:"clinical,omitempty"`
	Admission      *entity.AdmissionGroup      `json:"admission,omitempty"`
	Administrative *entity.AdministrativeGroup `json:"administrative,omitempty"`
	Discharge      *entity.DischargeGroup      `json:"discharge,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientRecordResponse `json:"patients"`
	Total    int64                   `json:"total"`
}

type VisibleGroupsResponse struct {
	PatientID uuid.UUID `json:"patient_id"`
	Groups    []string  `json:"groups"`
}

// PatientListQuery holds the query string of GET /patients
type PatientListQuery struct {
	Status  string `validate:"omitempty,oneof=ongoing discharged"`
	Service string `validate:"omitempty,max=100"`
	Page    int    `validate:"gte=1"`
	Limit   int    `validate:"gte=1,lte=100"`
}
