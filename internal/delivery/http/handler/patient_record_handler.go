package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hospital-admin/internal/delivery/dto"
	"hospital-admin/internal/usecase"
	"hospital-admin/pkg/response"
	"hospital-admin/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

type PatientRecordHandler struct {
	patientUsecase usecase.PatientRecordUsecase
	validator      *validator.CustomValidator
}

func NewPatientRecordHandler(patientUsecase usecase.PatientRecordUsecase, validator *validator.CustomValidator) *PatientRecordHandler {
	return &PatientRecordHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

// Admit handles opening a new stay
// @Summary Admit a patient
// @Tags Patients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AdmitPatientRequest true "Admission"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /patients [post]
func (h *PatientRecordHandler) Admit(w http.ResponseWriter, r *http.Request) {
	var req dto.AdmitPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.patientUsecase.Admit(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to admit patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient admitted successfully", record)
}

// GetAll handles listing patient records
// @Summary List patient records
// @Description Each record only carries the groups the caller may read
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param status query string false "ongoing or discharged"
// @Param service query string false "Admission service"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /patients [get]
func (h *PatientRecordHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pagination(r)
	query := dto.PatientListQuery{
		Status:  q.Get("status"),
		Service: q.Get("service"),
		Page:    page,
		Limit:   limit,
	}

	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.patientUsecase.List(r.Context(), &query)
	if err != nil {
		writeError(w, err, "Failed to get patient records")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patient records retrieved successfully", result.Patients, response.NewMeta(page, limit, result.Total))
}

// GetByID handles reading a single redacted record
// @Summary Get a patient record
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param id path string true "Patient record ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id} [get]
func (h *PatientRecordHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid patient record ID")
	if !ok {
		return
	}

	record, err := h.patientUsecase.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get patient record")
		return
	}

	response.Success(w, http.StatusOK, "Patient record retrieved successfully", record)
}

// Update handles a group patch
// @Summary Update patient record groups
// @Description Supplying discharge.discharge_confirmed=true discharges the patient
// @Tags Patients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Patient record ID"
// @Param request body dto.UpdatePatientRequest true "Patch"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /patients/{id} [patch]
func (h *PatientRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid patient record ID")
	if !ok {
		return
	}

	var req dto.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.patientUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update patient record")
		return
	}

	response.Success(w, http.StatusOK, "Patient record updated successfully", record)
}

// Delete handles removing a record
// @Summary Delete a patient record
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param id path string true "Patient record ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id} [delete]
func (h *PatientRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid patient record ID")
	if !ok {
		return
	}

	if err := h.patientUsecase.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete patient record")
		return
	}

	response.Success(w, http.StatusOK, "Patient record deleted successfully", nil)
}

// VisibleGroups lists which groups of the record the caller may read
// @Summary Visible field-groups
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param id path string true "Patient record ID"
// @Success 200 {object} response.Response
// @Router /patients/{id}/visible-groups [get]
func (h *PatientRecordHandler) VisibleGroups(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid patient record ID")
	if !ok {
		return
	}

	groups, err := h.patientUsecase.VisibleGroups(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get visible groups")
		return
	}

	response.Success(w, http.StatusOK, "Visible groups retrieved successfully", groups)
}

func pathID(w http.ResponseWriter, r *http.Request, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, message, nil)
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads page and limit; missing or non-numeric values fall back to defaults
func pagination(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = defaultPage
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = defaultLimit
	}
	return page, limit
}
