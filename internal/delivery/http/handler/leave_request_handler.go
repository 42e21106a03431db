package handler

import (
	"encoding/json"
	"net/http"

	"hospital-admin/internal/delivery/dto"
	"hospital-admin/internal/usecase"
	"hospital-admin/pkg/response"
	"hospital-admin/pkg/validator"
)

type LeaveRequestHandler struct {
	leaveUsecase usecase.LeaveRequestUsecase
	validator    *validator.CustomValidator
}

func NewLeaveRequestHandler(leaveUsecase usecase.LeaveRequestUsecase, validator *validator.CustomValidator) *LeaveRequestHandler {
	return &LeaveRequestHandler{
		leaveUsecase: leaveUsecase,
		validator:    validator,
	}
}

// Submit files a new leave request for the caller
// @Summary Submit a leave request
// @Tags Leave
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SubmitLeaveRequest true "Leave Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /leave-requests [post]
func (h *LeaveRequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	request, err := h.leaveUsecase.Submit(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to submit leave request")
		return
	}

	response.Success(w, http.StatusCreated, "Leave request submitted successfully", request)
}

// GetAll lists the caller's requests, or everyone's with scope=all
// @Summary List leave requests
// @Tags Leave
// @Security BearerAuth
// @Produce json
// @Param scope query string false "mine or all" default(mine)
// @Param status query string false "pending, approved or rejected"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /leave-requests [get]
func (h *LeaveRequestHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pagination(r)
	query := dto.LeaveListQuery{
		Scope:  q.Get("scope"),
		Status: q.Get("status"),
		Page:   page,
		Limit:  limit,
	}

	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.leaveUsecase.List(r.Context(), &query)
	if err != nil {
		writeError(w, err, "Failed to get leave requests")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Leave requests retrieved successfully", result.Requests, response.NewMeta(page, limit, result.Total))
}

func (h *LeaveRequestHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid leave request ID")
	if !ok {
		return
	}

	request, err := h.leaveUsecase.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get leave request")
		return
	}

	response.Success(w, http.StatusOK, "Leave request retrieved successfully", request)
}

// Approve handles pending -> approved
// @Summary Approve a leave request
// @Tags Leave
// @Security BearerAuth
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /leave-requests/{id}/approve [post]
func (h *LeaveRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid leave request ID")
	if !ok {
		return
	}

	request, err := h.leaveUsecase.Approve(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to approve leave request")
		return
	}

	response.Success(w, http.StatusOK, "Leave request approved", request)
}

// Reject handles pending -> rejected
// @Summary Reject a leave request
// @Tags Leave
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param request body dto.RejectLeaveRequest true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /leave-requests/{id}/reject [post]
func (h *LeaveRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid leave request ID")
	if !ok {
		return
	}

	var req dto.RejectLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	request, err := h.leaveUsecase.Reject(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to reject leave request")
		return
	}

	response.Success(w, http.StatusOK, "Leave request rejected", request)
}
