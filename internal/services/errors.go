package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/debtdesk/api/internal/logger"
	"github.com/stwalsh4118/debtdesk/api/internal/query"
)

// Kind classifies a service error for the HTTP boundary.
type Kind string

// Error kinds.
const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindPersistence Kind = "persistence"
	KindDocument    Kind = "document"
	KindForbidden   Kind = "forbidden"
)

// MsgPersistence is shown to clients when the database fails. The cause is
// logged, never returned.
const MsgPersistence = "Не вдалося виконати операцію з базою даних. Спробуйте пізніше або зверніться до адміністратора"

// Error is the single error type returned by services. Message is safe to
// show to the client; Err is the underlying cause and stays server-side.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts the service error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries a service error of kind k.
func IsKind(err error, k Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == k
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func notFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func persistenceError(err error) *Error {
	return &Error{Kind: KindPersistence, Message: MsgPersistence, Err: err}
}

func documentError(message string, err error) *Error {
	return &Error{Kind: KindDocument, Message: message, Err: err}
}

// listError classifies a failed list query: a malformed filter value is the
// client's fault, anything else is a persistence failure.
func listError(log *logger.Logger, entity string, err error) error {
	if errors.Is(err, query.ErrInvalidFilter) {
		key := strings.TrimPrefix(err.Error(), query.ErrInvalidFilter.Error()+": ")
		log.Warn("Invalid filter", map[string]interface{}{"entity": entity, "filter": key})
		return validationError("Некоректне значення фільтра " + key)
	}
	log.Error("Failed to list "+entity, err, nil)
	return persistenceError(err)
}
