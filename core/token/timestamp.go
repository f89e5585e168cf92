package token

import (
	"strconv"

	"github.com/capbac/go-capbac/core/schema"
)

// ParseTimestamp reads a fixed width decimal unix timestamp. object and field
// name the value in the returned FormatError.
func ParseTimestamp(object, field, value string) (int64, error) {
	if len(value) != TimestampLength {
		return 0, schema.NewFormatError(object, field, "invalid length", strconv.Itoa(TimestampLength), strconv.Itoa(len(value)))
	}
	for _, c := range value {
		if c < '0' || c > '9' {
			return 0, schema.NewFormatError(object, field, "timestamp not a number", "decimal digits", value)
		}
	}
	ts, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, schema.NewFormatError(object, field, "timestamp not a number", "decimal digits", value)
	}
	return ts, nil
}

// FormatTimestamp renders t in the fixed width form.
func FormatTimestamp(t int64) string {
	return strconv.FormatInt(t, 10)
}

// Window is a validity interval, NotBefore inclusive and NotAfter exclusive.
type Window struct {
	NotBefore int64
	NotAfter  int64
}

func (w Window) Expired(now int64) bool {
	return now >= w.NotAfter
}

func (w Window) TooEarly(now int64) bool {
	return now < w.NotBefore
}

// Within reports whether w lies inside outer.
func (w Window) Within(outer Window) bool {
	return w.NotBefore >= outer.NotBefore && w.NotAfter <= outer.NotAfter
}
