package server

import (
	"fmt"

	"github.com/capbac/go-capbac/core/payload"
	"github.com/capbac/go-capbac/core/result/failure"
)

// InvalidTransactionError is returned for transactions the ledger should
// reject: malformed payloads, bad signatures and policy violations.
type InvalidTransactionError struct {
	cause error
}

func (ite *InvalidTransactionError) Error() string {
	return fmt.Sprintf("invalid transaction: %s", ite.cause)
}

func (ite *InvalidTransactionError) Unwrap() error {
	return ite.cause
}

func (ite *InvalidTransactionError) Name() string {
	return "InvalidTransaction"
}

func (ite *InvalidTransactionError) Category() failure.Category {
	return failure.CategoryOf(ite.cause)
}

// InternalError is returned when the handler could not reach a decision, for
// example because stored state is corrupt or could not be written.
type InternalError struct {
	cause error
}

func (ie *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", ie.cause)
}

func (ie *InternalError) Unwrap() error {
	return ie.cause
}

func (ie *InternalError) Name() string {
	return "InternalError"
}

func (ie *InternalError) Category() failure.Category {
	return failure.Internal
}

type HandlerExecutionError interface {
	failure.Failure
	failure.WithStackTrace
	Cause() error
	Action() payload.Action
}

type handlerExecutionError struct {
	cause  error
	action payload.Action
}

func (h handlerExecutionError) Action() payload.Action {
	return h.action
}

func (h handlerExecutionError) Cause() error {
	return h.cause
}

func (h handlerExecutionError) Unwrap() error {
	return h.cause
}

func (h handlerExecutionError) Error() string {
	return fmt.Sprintf("handler {action: \"%s\"} error: %s", h.action, h.cause.Error())
}

func (h handlerExecutionError) Name() string {
	return "HandlerExecutionError"
}

func (h handlerExecutionError) Stack() string {
	return failure.FromError(h.cause).Stack()
}

func NewHandlerExecutionError(cause error, action payload.Action) HandlerExecutionError {
	return handlerExecutionError{cause, action}
}
