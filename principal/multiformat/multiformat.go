// Package multiformat tags key material with the multicodec code that names
// its type.
package multiformat

import (
	"fmt"

	"github.com/multiformats/go-varint"
)

// Tag prefixes body with the varint encoding of code.
func Tag(code uint64, body []byte) []byte {
	tagged := varint.ToUvarint(code)
	return append(tagged, body...)
}

// Split reads the varint tag at the start of b and returns it along with the
// remaining body.
func Split(b []byte) (uint64, []byte, error) {
	code, n, err := varint.FromUvarint(b)
	if err != nil {
		return 0, nil, fmt.Errorf("reading multiformat tag: %w", err)
	}
	return code, b[n:], nil
}

// Untag strips the tag from b after checking that it is code. When size is
// positive the body must be exactly size bytes.
func Untag(code uint64, b []byte, size int) ([]byte, error) {
	tag, body, err := Split(b)
	if err != nil {
		return nil, err
	}
	if tag != code {
		return nil, fmt.Errorf("expected multiformat with 0x%x tag instead got 0x%x", code, tag)
	}
	if size > 0 && len(body) != size {
		return nil, fmt.Errorf("expected %d byte body for 0x%x, got %d", size, code, len(body))
	}
	return body, nil
}
