package state

import (
	"fmt"

	"github.com/capbac/go-capbac/core/result/failure"
)

type StateCorruptionError struct {
	failure.NamedWithStackTrace
	address string
	cause   error
}

func NewStateCorruptionError(address string, cause error) StateCorruptionError {
	return StateCorruptionError{failure.NamedWithCurrentStackTrace("StateCorruption"), address, cause}
}

func (sce StateCorruptionError) Address() string {
	return sce.address
}

func (sce StateCorruptionError) Unwrap() error {
	return sce.cause
}

func (sce StateCorruptionError) Error() string {
	return fmt.Sprintf("decoding device state at %s: %s", sce.address, sce.cause)
}

func (sce StateCorruptionError) Category() failure.Category {
	return failure.Internal
}

type StateWriteError struct {
	failure.NamedWithStackTrace
	address string
	cause   error
}

func NewStateWriteError(address string, cause error) StateWriteError {
	return StateWriteError{failure.NamedWithCurrentStackTrace("StateWrite"), address, cause}
}

func (swe StateWriteError) Address() string {
	return swe.address
}

func (swe StateWriteError) Unwrap() error {
	return swe.cause
}

func (swe StateWriteError) Error() string {
	return fmt.Sprintf("writing device state at %s: %s", swe.address, swe.cause)
}

func (swe StateWriteError) Category() failure.Category {
	return failure.Internal
}

type StateReadError struct {
	failure.NamedWithStackTrace
	address string
	cause   error
}

func NewStateReadError(address string, cause error) StateReadError {
	return StateReadError{failure.NamedWithCurrentStackTrace("StateRead"), address, cause}
}

func (sre StateReadError) Unwrap() error {
	return sre.cause
}

func (sre StateReadError) Error() string {
	return fmt.Sprintf("reading device state at %s: %s", sre.address, sre.cause)
}

func (sre StateReadError) Category() failure.Category {
	return failure.Internal
}
