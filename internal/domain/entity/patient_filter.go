package entity

import "github.com/google/uuid"

// PatientFilter is a domain-level filter for listing patient records.
// Used by repository layer to avoid coupling with delivery DTOs.
type PatientFilter struct {
	OwnerID *uuid.UUID     // Restrict to a single patient account
	Status  *PatientStatus // Filter on derived status (discharge confirmation)
	Service string         // Filter by admission service (ILIKE)
	Limit   int
	Offset  int
}

// LeaveFilter is a domain-level filter for listing leave requests
type LeaveFilter struct {
	RequesterID *uuid.UUID
	Status      *LeaveStatus
	Limit       int
	Offset      int
}
