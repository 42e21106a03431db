package converter

import (
	"hospital-admin/internal/delivery/dto"
	"hospital-admin/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// LeaveRequestToResponse converts a LeaveRequest entity to LeaveRequestResponse DTO
func LeaveRequestToResponse(request *entity.LeaveRequest) *dto.LeaveRequestResponse {
	if request == nil {
		return nil
	}

	response := &dto.LeaveRequestResponse{
		ID:              request.ID,
		RequesterID:     request.RequesterID,
		Type:            string(request.Type),
		StartDate:       request.StartDate.Format(dateLayout),
		EndDate:         request.EndDate.Format(dateLayout),
		Days:            request.Days(),
		Reason:          request.Reason,
		Notes:           request.Notes,
		Status:          string(request.Status),
		RejectionReason: request.RejectionReason,
		DecidedBy:       request.DecidedBy,
		DecidedAt:       request.DecidedAt,
		CreatedAt:       request.CreatedAt,
		UpdatedAt:       request.UpdatedAt,
	}

	if request.Requester != nil {
		response.RequesterName = request.Requester.FullName
	}

	return response
}

// LeaveRequestsToResponses converts a slice of LeaveRequest entities
func LeaveRequestsToResponses(requests []entity.LeaveRequest) []dto.LeaveRequestResponse {
	responses := make([]dto.LeaveRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *LeaveRequestToResponse(&requests[i]))
	}
	return responses
}
