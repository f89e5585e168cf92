// Package validator enforces the authorization rules of capability based
// access control over the stored state of a single device.
//
// Every function here is pure: it takes the device state as read from the
// ledger, and either returns the next state or an error explaining why the
// request was refused. Nothing is written until the caller decides to.
package validator

import (
	"github.com/capbac/go-capbac/core/token"
	"github.com/capbac/go-capbac/crypto/signature"
	"github.com/capbac/go-capbac/principal/secp256k1/verifier"
)

// Signable is an object carrying a signature over its own canonical encoding.
type Signable interface {
	SigningPayload() ([]byte, error)
	// Signature is the hex encoded SI field.
	Signature() string
}

// VerifySignature checks that the signature carried by obj was produced by
// the holder of the private key matching the hex encoded public key.
func VerifySignature(obj Signable, key string) error {
	vfr, err := verifier.Parse(key)
	if err != nil {
		return NewUnverifiableSignatureError(key, err)
	}
	sig, err := signature.Parse(signature.ES256K, obj.Signature())
	if err != nil {
		return NewUnverifiableSignatureError(key, err)
	}
	msg, err := obj.SigningPayload()
	if err != nil {
		return NewUnverifiableSignatureError(key, err)
	}
	if !vfr.Verify(msg, sig) {
		return NewInvalidSignatureError(key)
	}
	return nil
}

// chain lists id followed by each of its ancestors up to the root.
func chain(state token.DeviceState, id string) ([]string, error) {
	var ids []string
	seen := map[string]struct{}{}
	for id != "" {
		if _, ok := seen[id]; ok {
			return nil, NewInternalInconsistencyError(id, "cycle in capability chain")
		}
		seen[id] = struct{}{}
		rec, ok := state[id]
		if !ok {
			return nil, NewInternalInconsistencyError(id, "broken capability chain")
		}
		ids = append(ids, id)
		id = rec.Parent()
	}
	return ids, nil
}

// active checks that the stored capability is within its validity window at
// now and returns the window.
func active(id string, rec token.Record, now int64) (token.Window, InvalidChainError) {
	w, err := rec.Window()
	if err != nil {
		return token.Window{}, NewInternalInconsistencyError(id, "unreadable validity window")
	}
	if w.Expired(now) {
		return w, NewExpiredAncestorError(id, w.NotAfter, now)
	}
	if w.TooEarly(now) {
		return w, NewNotYetActiveAncestorError(id, w.NotBefore, now)
	}
	return w, nil
}
