package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gohuddleup/internal/adapters/storage"
	"gohuddleup/internal/application/access"
	"gohuddleup/internal/application/orchestrators"
	"gohuddleup/internal/domain/achievement"
	"gohuddleup/internal/domain/attendance"
	"gohuddleup/internal/domain/event"
	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/registration"
	"gohuddleup/internal/domain/student"
	"gohuddleup/internal/domain/user"
)

// errorBody is the JSON shape of every API error.
type errorBody struct {
	Error  string                   `json:"error"`
	Step   int                      `json:"step,omitempty"`
	Fields registration.FieldErrors `json:"fields,omitempty"`
}

// badRequestErrors are domain validation failures a client can fix.
var badRequestErrors = []error{
	identity.ErrEmptyEmail, identity.ErrInvalidEmail, identity.ErrEmptyPassword, identity.ErrPasswordTooShort,
	identity.ErrTokenInvalid, identity.ErrTokenExpired, identity.ErrAlreadyConfirmed,
	user.ErrNotAdminRole, user.ErrInvalidScope, user.ErrEmptyScopeID, user.ErrScopeMismatch,
	student.ErrEmptyFirstName, student.ErrEmptyLastName, student.ErrNameTooLong, student.ErrEmptyMobile,
	student.ErrInvalidPhone, student.ErrInvalidGrade, student.ErrInvalidSize, student.ErrInvalidGender,
	student.ErrInvalidGPA, student.ErrInvalidGradYear, student.ErrNegativeHours, student.ErrNotesTooLong,
	student.ErrInvalidBirthDate,
	attendance.ErrEmptyStudentID, attendance.ErrEmptyHuddleID, attendance.ErrInvalidDate, attendance.ErrInvalidStatus,
	attendance.ErrCheckOutOrder, orchestrators.ErrWrongHuddle,
	achievement.ErrEmptyStudentID, achievement.ErrEmptyTitle, achievement.ErrInvalidType, achievement.ErrNegativePoints,
	achievement.ErrInvalidDate,
	event.ErrEmptyName, event.ErrInvalidType, event.ErrMissingStart, event.ErrEndBeforeStart, event.ErrNegativeCapacity,
	event.ErrNegativeCost, event.ErrDeadlineAfterStart, event.ErrRequestTooLong,
}

// statusFor maps an orchestrator or projection error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, orchestrators.ErrInvalidCredentials), errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, orchestrators.ErrInsufficientPrivileges),
		errors.Is(err, orchestrators.ErrAccountInactive),
		errors.Is(err, access.ErrOutOfScope):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, orchestrators.ErrProfileNotFound),
		errors.Is(err, event.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, identity.ErrEmailTaken), errors.Is(err, attendance.ErrAlreadyRecorded),
		errors.Is(err, event.ErrAlreadyRegistered), errors.Is(err, event.ErrRegistrationClosed):
		return http.StatusConflict
	case errors.Is(err, registration.ErrInvalidForm):
		return http.StatusUnprocessableEntity
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// writeError writes err as JSON. Server errors are logged and replaced with a
// generic message so internals never reach the client.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}
	if status == http.StatusInternalServerError {
		slog.Error("internal_error", "error", err.Error())
		body.Error = "internal server error"
	}
	var verr *registration.ValidationError
	if errors.As(err, &verr) {
		body.Step, body.Fields = verr.Step, verr.Fields
	}
	writeJSON(w, status, body)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode_response_failed", "error", err)
	}
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}
