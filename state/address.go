package state

import (
	"strings"

	"github.com/capbac/go-capbac/core/ipld/hash/sha512"
)

// FamilyName is the transaction family whose namespace holds device state.
const FamilyName = "capbac"

// AddressLength is the length of a state address in hex characters.
const AddressLength = 70

const prefixLength = 6

var prefix = sha512.MustSum([]byte(FamilyName)).Hex()[:prefixLength]

// Prefix is the namespace prefix shared by every device state address.
func Prefix() string {
	return prefix
}

// Address derives the state address of the capability set of device.
func Address(device string) string {
	h := sha512.MustSum([]byte(device)).Hex()
	return prefix + h[len(h)-(AddressLength-prefixLength):]
}

// InNamespace reports whether address lies under one of the prefixes.
func InNamespace(address string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(address, p) {
			return true
		}
	}
	return false
}
