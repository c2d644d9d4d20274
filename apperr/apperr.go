// Package apperr defines typed, status-aware application errors. The store
// and the teller classify failures into these codes so callers can tell an
// expected negative outcome (not found, conflict) from a storage failure.
package apperr

import (
	"errors"
	"net/http"
)

// Error represents a typed, status-aware application error.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message,omitempty"`
	Status  int            `json:"-"`
	Fields  map[string]any `json:"fields,omitempty"`
	Err     error          `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return "error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match any error carrying the same code, so a wrapped
// copy still matches its sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e != nil && t != nil && e.Code == t.Code
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches err as the cause of a copy of base, optionally replacing
// the message. The underlying cause is preserved for diagnostics.
func Wrap(err error, base *Error, message string) *Error {
	if err == nil {
		return nil
	}
	if base == nil {
		base = ErrInternal
	}
	copy := *base
	if message != "" {
		copy.Message = message
	}
	copy.Err = err
	return &copy
}

// WithMessage returns a copy of base with a human-readable message.
func WithMessage(base *Error, message string) *Error {
	if base == nil {
		return nil
	}
	copy := *base
	copy.Message = message
	return &copy
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

func Status(err error) int {
	if e, ok := As(err); ok && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

func Code(err error) string {
	if e, ok := As(err); ok && e.Code != "" {
		return e.Code
	}
	return "internal_error"
}

func Message(err error) string {
	if e, ok := As(err); ok {
		if e.Message != "" {
			return e.Message
		}
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Code
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func Payload(err error) map[string]any {
	if err == nil {
		return map[string]any{}
	}
	if e, ok := As(err); ok {
		payload := map[string]any{
			"code":    Code(e),
			"message": Message(e),
		}
		if len(e.Fields) > 0 {
			payload["fields"] = e.Fields
		}
		return payload
	}
	return map[string]any{
		"code":    "internal_error",
		"message": err.Error(),
	}
}

var (
	ErrBadRequest = New("bad_request", http.StatusBadRequest, "")
	ErrValidation = New("validation_error", http.StatusBadRequest, "")
	ErrEmptyBody  = New("empty_body", http.StatusBadRequest, "request body is empty")
	ErrInternal   = New("internal_error", http.StatusInternalServerError, "")
	ErrDatabase   = New("database_error", http.StatusInternalServerError, "")

	// Expected negative outcomes of the account and client operations.
	ErrAccountNotFound     = New("account_not_found", http.StatusNotFound, "account not found")
	ErrClientNotFound      = New("client_not_found", http.StatusNotFound, "client not found")
	ErrAssociationNotFound = New("association_not_found", http.StatusNotFound, "client is not associated with this account")

	// Conflicts the caller can react to.
	ErrDuplicateAccountNumber = New("duplicate_account_number", http.StatusConflict, "account number already in use")
	ErrDuplicateAssociation   = New("duplicate_association", http.StatusConflict, "client already associated with this account")

	// ErrMalformedRecord marks a stored row whose discriminator is not one
	// of the known account types. Reads skip such rows.
	ErrMalformedRecord = New("malformed_record", http.StatusInternalServerError, "unrecognized account type")
)
