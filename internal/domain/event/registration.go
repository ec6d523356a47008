package event

import (
	"errors"
	"strings"
	"time"
)

// Registration statuses
const (
	RegistrationRegistered = "registered"
	RegistrationCancelled  = "cancelled"
	RegistrationAttended   = "attended"
)

// Payment statuses
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentWaived  = "waived"
)

// Registration errors
var (
	ErrEmptyStudentID     = errors.New("registration must belong to a student")
	ErrEmptyEventID       = errors.New("registration must name an event")
	ErrInvalidStatus      = errors.New("registration status must be one of: registered, cancelled, attended")
	ErrInvalidPayment     = errors.New("payment status must be one of: pending, paid, waived")
	ErrRegistrationClosed = errors.New("registration for this event is closed")
	ErrAlreadyRegistered  = errors.New("student is already registered for this event")
	ErrEventNotFound      = errors.New("event not found")
	ErrRequestTooLong     = errors.New("special requests cannot exceed 2000 characters")
)

// MaxSpecialRequestsSize bounds the free-text special requests field.
const MaxSpecialRequestsSize = 2000

// Registration links a student to an event.
// StudentID is the student profile id.
type Registration struct {
	ID                  string    `json:"id"`
	StudentID           string    `json:"student_id"`
	EventID             string    `json:"event_id"`
	RegistrationDate    time.Time `json:"registration_date"`
	Status              string    `json:"status"`
	PaymentStatus       string    `json:"payment_status"`
	SpecialRequests     string    `json:"special_requests"`
	DietaryRestrictions string    `json:"dietary_restrictions"`
	TransportationNeeds string    `json:"transportation_needs"`
	CreatedAt           time.Time `json:"created_at"`
}

// Validate checks if the Registration has valid data.
func (r *Registration) Validate() error {
	if strings.TrimSpace(r.StudentID) == "" {
		return ErrEmptyStudentID
	}
	if strings.TrimSpace(r.EventID) == "" {
		return ErrEmptyEventID
	}
	switch r.Status {
	case RegistrationRegistered, RegistrationCancelled, RegistrationAttended:
	default:
		return ErrInvalidStatus
	}
	switch r.PaymentStatus {
	case PaymentPending, PaymentPaid, PaymentWaived:
	default:
		return ErrInvalidPayment
	}
	if len(r.SpecialRequests) > MaxSpecialRequestsSize {
		return ErrRequestTooLong
	}
	return nil
}

// InitialPayment is the payment status of a new registration: free events are waived.
func InitialPayment(e Event) string {
	if e.Cost == 0 {
		return PaymentWaived
	}
	return PaymentPending
}
