package usecase

import (
	"errors"
	"fmt"
)

// Kind is the caller-visible class of a usecase failure.
type Kind string

const (
	KindNotFound                   Kind = "NOT_FOUND"
	KindForbidden                  Kind = "FORBIDDEN"
	KindInvalidStatus              Kind = "INVALID_STATUS"
	KindIllegalTransition          Kind = "ILLEGAL_TRANSITION"
	KindEmptyCart                  Kind = "EMPTY_CART"
	KindInvalidStoreReference      Kind = "INVALID_STORE_REFERENCE"
	KindOrderHasNoStore            Kind = "ORDER_HAS_NO_STORE"
	KindZeroAmount                 Kind = "ZERO_AMOUNT"
	KindAlreadyPaid                Kind = "ALREADY_PAID"
	KindInvalidSignature           Kind = "INVALID_SIGNATURE"
	KindPaymentProviderUnavailable Kind = "PAYMENT_PROVIDER_UNAVAILABLE"
	KindPaymentRejected            Kind = "PAYMENT_REJECTED"
	KindValidation                 Kind = "VALIDATION"
	KindUnauthorized               Kind = "UNAUTHORIZED"
	KindConflict                   Kind = "CONFLICT"
	KindInternal                   Kind = "INTERNAL"
)

// Error is returned by every usecase. Message is safe to show to clients;
// Cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// internal wraps a collaborator failure without exposing it.
func internal(op string, cause error) error {
	return &Error{Kind: KindInternal, Message: "internal error", Cause: fmt.Errorf("%s: %w", op, cause)}
}

func AsError(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)
	return ue, ok
}

// KindOf returns KindInternal for errors that did not come from a usecase.
func KindOf(err error) Kind {
	if ue, ok := AsError(err); ok {
		return ue.Kind
	}
	return KindInternal
}

var (
	errOrderNotFound  = NewError(KindNotFound, "order not found")
	errForbiddenStore = NewError(KindForbidden, "order belongs to another store")
)
