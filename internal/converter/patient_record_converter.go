package converter

import (
	"encoding/json"

	"hospital-admin/internal/delivery/dto"
	"hospital-admin/internal/engine"
)

// PatientViewToResponse converts a redacted view to PatientRecordResponse DTO
func PatientViewToResponse(view *engine.PatientView) *dto.PatientRecordResponse {
	if view == nil {
		return nil
	}

	return &dto.PatientRecordResponse{
		ID:             view.ID,
		OwnerID:        view.OwnerID,
		Status:         string(view.Status),
		Version:        view.Version,
		VisibleGroups:  TargetsToStrings(view.VisibleGroups),
		Identity:       view.Identity,
		Clinical:       view.Clinical,
		Admission:      view.Admission,
		Administrative: view.Administrative,
		Discharge:      view.Discharge,
		CreatedAt:      view.CreatedAt,
		UpdatedAt:      view.UpdatedAt,
	}
}

// PatientViewsToResponses converts a slice of views
func PatientViewsToResponses(views []*engine.PatientView) []dto.PatientRecordResponse {
	responses := make([]dto.PatientRecordResponse, 0, len(views))
	for _, v := range views {
		responses = append(responses, *PatientViewToResponse(v))
	}
	return responses
}

// GroupsToPatch turns the wire groups into an engine patch
func GroupsToPatch(groups map[string]json.RawMessage) engine.PatientPatch {
	patch := make(engine.PatientPatch, len(groups))
	for name, raw := range groups {
		patch[engine.Target(name)] = raw
	}
	return patch
}

func TargetsToStrings(targets []engine.Target) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, string(t))
	}
	return out
}
