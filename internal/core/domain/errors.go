package domain

import "errors"

// Error kinds. Every error the core returns to the transport layer wraps
// exactly one of these so the HTTP layer can pick a status code with
// errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// kindError is a human-readable error tied to one of the kinds above.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Validation returns a new validation error carrying msg.
func Validation(msg string) error { return &kindError{kind: ErrValidation, msg: msg} }

func conflict(msg string) error { return &kindError{kind: ErrConflict, msg: msg} }
func forbidden(msg string) error { return &kindError{kind: ErrForbidden, msg: msg} }
func notFound(msg string) error { return &kindError{kind: ErrNotFound, msg: msg} }

// Users and sessions.
var (
	ErrUserExists         = conflict("User already exists")
	ErrUserNotFound       = notFound("User not found")
	ErrUserFieldsRequired = Validation("Name, email and password are required")
	ErrInvalidRole        = Validation("Invalid role")
	ErrProjectRequired    = Validation("Project is required for User role")
	ErrInvalidProject     = Validation("Invalid project")
	ErrInvalidLogin       = Validation("Invalid email, project, or password")
	ErrProjectMismatch    = Validation("Invalid project for this user")
	ErrRoleMismatch       = forbidden("Access denied: role mismatch")
)

// Entries.
var (
	ErrEntryNameTypeRequired = Validation("Name and type are required")
	ErrInvalidEntryType      = Validation("Type must be Customer or Broker")
	ErrImageRequired         = Validation("Image is required")
	ErrImageNotImage         = Validation("Image must be an image file")
	ErrBrokerFieldsRequired  = Validation("Broker name, firm name, and contact no. are required for Brokers")
	ErrEntryProjectRequired  = Validation("Project is required")
	ErrNoEntriesToExport     = notFound("No entries found for export")
)

// Records and payments.
var (
	ErrRecordNotFound       = notFound("Record not found.")
	ErrRecordFieldsRequired = Validation("All fields are required.")
	ErrPaymentNotFound      = notFound("Payment not found")
	ErrInvalidPaymentType   = Validation("Invalid payment type")
	ErrInvalidAmount        = Validation("Payment amount must be a positive number")
	ErrInvalidPaymentDate   = Validation("Invalid payment date")
	ErrInvalidRecordRef     = Validation("Invalid InvGenRecord reference")
)
