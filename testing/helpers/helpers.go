package helpers

import (
	crand "crypto/rand"
	"encoding/hex"
)

// Must takes return values from a function and returns the non-error one. If
// the error value is non-nil then it panics.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Must2 is Must for functions returning two values and an error.
func Must2[T, U any](a T, b U, err error) (T, U) {
	if err != nil {
		panic(err)
	}
	return a, b
}

func RandomBytes(size int) []byte {
	bytes := make([]byte, size)
	_, _ = crand.Read(bytes)
	return bytes
}

// RandomID returns a random token identifier of the fixed 16 hex character
// width.
func RandomID() string {
	return hex.EncodeToString(RandomBytes(8))
}
