package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cinetix/cinema-booking/api"
	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/cinetix/cinema-booking/internal/validator"
	"github.com/go-chi/chi/v5/middleware"
	govalidator "github.com/go-playground/validator/v10"
)

const (
	ErrInternalServer   = "The server encountered a problem and could not process your request"
	ErrNotFound         = "The requested resource not found"
	ErrSeatConflict     = "Some of the selected seats are already held or booked"
	ErrLockUnavailable  = "The seats are being reserved by another request, please try again"
	ErrHoldExpired      = "The hold has expired or does not exist"
	ErrHoldNotOwned     = "The hold belongs to another session"
	ErrAlreadyBooked    = "The seats have already been booked"
	ErrFailedValidation = "One or more fields failed validation"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(govalidator.ValidationErrors)
	if !ok {
		app.serverErrorResponse(w, r, err)
		return
	}

	errs := make([]api.ValidationError, 0, len(validationErrors))
	for _, vErr := range validationErrors {
		errs = append(errs, api.ValidationError{
			Field: vErr.Field(),
			Issue: validator.ValidationMessage(vErr),
		})
	}

	resp := api.ValidationErrorResponse{
		Message:          ErrFailedValidation,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: errs,
	}

	writeErr := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if writeErr != nil {
		app.logError(r, writeErr)
		w.WriteHeader(500)
	}
}

// seatConflictResponse reports exactly which seats could not be claimed, so
// the client can refresh only the affected parts of the seat map.
func (app *Application) seatConflictResponse(w http.ResponseWriter, r *http.Request, conflictErr *domain.SeatConflictError) {
	resp := api.SeatConflictResponse{
		Message:         ErrSeatConflict,
		ConflictSeatIds: conflictErr.SeatIDs,
		RequestId:       middleware.GetReqID(r.Context()),
		Timestamp:       time.Now(),
	}

	err := app.writeJSON(w, http.StatusConflict, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

// lockUnavailableResponse tells the client the engine could not get the
// reservation lock in time. Retry-After hints a short backoff.
func (app *Application) lockUnavailableResponse(w http.ResponseWriter, r *http.Request) {
	retryAfter := int(app.config.Lock.RetryInterval.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

	app.errorResponse(w, r, http.StatusServiceUnavailable, ErrLockUnavailable)
}
