package handler

import (
	"errors"
	"net/http"

	"hospital-admin/internal/engine"
	"hospital-admin/internal/usecase"
	"hospital-admin/pkg/response"
)

// writeError maps usecase and engine errors onto HTTP responses. Denials never
// say which role would have been allowed; fallback is used for 500s.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var (
		validationErr *engine.ValidationError
		transitionErr *engine.IllegalTransitionError
	)

	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, "")
	case errors.Is(err, engine.ErrConfiguration):
		response.InternalServerError(w, fallback)
	case errors.Is(err, engine.ErrForbidden):
		response.Forbidden(w, "You don't have permission to perform this action")
	case errors.As(err, &validationErr):
		message := validationErr.Message
		if message == "" {
			message = "is invalid"
		}
		response.UnprocessableEntity(w, "Validation failed", map[string]string{validationErr.Field: message})
	case errors.As(err, &transitionErr):
		response.Conflict(w, transitionErr.Error())

	case errors.Is(err, usecase.ErrPatientNotFound),
		errors.Is(err, usecase.ErrLeaveNotFound),
		errors.Is(err, usecase.ErrUserNotFound):
		response.NotFound(w, err.Error())

	case errors.Is(err, usecase.ErrVersionConflict),
		errors.Is(err, usecase.ErrLeaveAlreadyDecided),
		errors.Is(err, usecase.ErrEmailAlreadyExists):
		response.Conflict(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidDateFormat),
		errors.Is(err, usecase.ErrInvalidOwner),
		errors.Is(err, usecase.ErrInvalidLeaveScope),
		errors.Is(err, usecase.ErrRequesterNotFound),
		errors.Is(err, usecase.ErrUnknownRole):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidToken),
		errors.Is(err, usecase.ErrTokenRevoked):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, usecase.ErrUserInactive):
		response.Forbidden(w, err.Error())

	default:
		response.InternalServerError(w, fallback)
	}
}
