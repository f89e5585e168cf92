package validator

import (
	"fmt"
	"strings"

	"github.com/capbac/go-capbac/core/result/failure"
	"github.com/capbac/go-capbac/core/token"
)

// go hack for union type -- unexported method cannot be implemented outside module limiting satisfying types
type InvalidChainError interface {
	error
	isInvalidChainError()
}

type DuplicateTokenError struct {
	failure.NamedWithStackTrace
	id string
}

func NewDuplicateTokenError(id string) DuplicateTokenError {
	return DuplicateTokenError{failure.NamedWithCurrentStackTrace("DuplicateToken"), id}
}

func (dte DuplicateTokenError) ID() string {
	return dte.id
}

func (dte DuplicateTokenError) Error() string {
	return fmt.Sprintf("capability token %s already exists", dte.id)
}

func (dte DuplicateTokenError) Category() failure.Category {
	return failure.PolicyViolation
}

type UnauthorizedRootIssueError struct {
	failure.NamedWithStackTrace
	subject string
	sender  string
}

func NewUnauthorizedRootIssueError(subject, sender string) UnauthorizedRootIssueError {
	return UnauthorizedRootIssueError{failure.NamedWithCurrentStackTrace("UnauthorizedRootIssue"), subject, sender}
}

func (urie UnauthorizedRootIssueError) Error() string {
	return strings.Join([]string{
		"root capability tokens must be issued to the sender",
		li(fmt.Sprintf("subject: %s", urie.subject)),
		li(fmt.Sprintf("sender: %s", urie.sender)),
	}, "\n")
}

func (urie UnauthorizedRootIssueError) Category() failure.Category {
	return failure.Unauthorized
}

type UnknownParentError struct {
	failure.NamedWithStackTrace
	parent string
}

func NewUnknownParentError(parent string) UnknownParentError {
	return UnknownParentError{failure.NamedWithCurrentStackTrace("UnknownParent"), parent}
}

func (upe UnknownParentError) Parent() string {
	return upe.parent
}

func (upe UnknownParentError) Error() string {
	return fmt.Sprintf("parent capability %s does not exist", upe.parent)
}

func (upe UnknownParentError) Category() failure.Category {
	return failure.Unauthorized
}

type UnauthorizedDelegationError struct {
	failure.NamedWithStackTrace
	parent  string
	subject string
	sender  string
}

func NewUnauthorizedDelegationError(parent, subject, sender string) UnauthorizedDelegationError {
	return UnauthorizedDelegationError{failure.NamedWithCurrentStackTrace("UnauthorizedDelegation"), parent, subject, sender}
}

func (ude UnauthorizedDelegationError) Error() string {
	return strings.Join([]string{
		fmt.Sprintf("only the subject of capability %s may delegate from it", ude.parent),
		li(fmt.Sprintf("subject: %s", ude.subject)),
		li(fmt.Sprintf("sender: %s", ude.sender)),
	}, "\n")
}

func (ude UnauthorizedDelegationError) Category() failure.Category {
	return failure.Unauthorized
}

type ExpiredAncestorError struct {
	failure.NamedWithStackTrace
	ancestor string
	notAfter int64
	now      int64
}

func NewExpiredAncestorError(ancestor string, notAfter, now int64) ExpiredAncestorError {
	return ExpiredAncestorError{failure.NamedWithCurrentStackTrace("ExpiredAncestor"), ancestor, notAfter, now}
}

func (eae ExpiredAncestorError) Ancestor() string {
	return eae.ancestor
}

func (eae ExpiredAncestorError) Error() string {
	return fmt.Sprintf("capability %s has expired at %d (now %d)", eae.ancestor, eae.notAfter, eae.now)
}

func (eae ExpiredAncestorError) Category() failure.Category {
	return failure.PolicyViolation
}

func (eae ExpiredAncestorError) isInvalidChainError() {}

type NotYetActiveAncestorError struct {
	failure.NamedWithStackTrace
	ancestor  string
	notBefore int64
	now       int64
}

func NewNotYetActiveAncestorError(ancestor string, notBefore, now int64) NotYetActiveAncestorError {
	return NotYetActiveAncestorError{failure.NamedWithCurrentStackTrace("NotYetActiveAncestor"), ancestor, notBefore, now}
}

func (nyae NotYetActiveAncestorError) Ancestor() string {
	return nyae.ancestor
}

func (nyae NotYetActiveAncestorError) Error() string {
	return fmt.Sprintf("capability %s is not valid before %d (now %d)", nyae.ancestor, nyae.notBefore, nyae.now)
}

func (nyae NotYetActiveAncestorError) Category() failure.Category {
	return failure.PolicyViolation
}

func (nyae NotYetActiveAncestorError) isInvalidChainError() {}

type WindowEscalationError struct {
	failure.NamedWithStackTrace
	ancestor  string
	requested token.Window
	granted   token.Window
}

func NewWindowEscalationError(ancestor string, requested, granted token.Window) WindowEscalationError {
	return WindowEscalationError{failure.NamedWithCurrentStackTrace("WindowEscalation"), ancestor, requested, granted}
}

func (wee WindowEscalationError) Error() string {
	return fmt.Sprintf(
		"validity window [%d, %d) exceeds window [%d, %d) of capability %s",
		wee.requested.NotBefore, wee.requested.NotAfter, wee.granted.NotBefore, wee.granted.NotAfter, wee.ancestor,
	)
}

func (wee WindowEscalationError) Category() failure.Category {
	return failure.PolicyViolation
}

func (wee WindowEscalationError) isInvalidChainError() {}

type ExcessiveDelegationError struct {
	failure.NamedWithStackTrace
	ancestor  string
	resource  string
	action    string
	requested int64
	granted   int64
}

func NewExcessiveDelegationError(ancestor, resource, action string, requested, granted int64) ExcessiveDelegationError {
	return ExcessiveDelegationError{failure.NamedWithCurrentStackTrace("ExcessiveDelegation"), ancestor, resource, action, requested, granted}
}

func (ede ExcessiveDelegationError) Resource() string {
	return ede.resource
}

func (ede ExcessiveDelegationError) Action() string {
	return ede.action
}

func (ede ExcessiveDelegationError) Error() string {
	return fmt.Sprintf(
		"delegation depth %d for %s %s is not below depth %d granted by capability %s",
		ede.requested, ede.action, ede.resource, ede.granted, ede.ancestor,
	)
}

func (ede ExcessiveDelegationError) Category() failure.Category {
	return failure.PolicyViolation
}

func (ede ExcessiveDelegationError) isInvalidChainError() {}

type UnauthorizedResourceError struct {
	failure.NamedWithStackTrace
	ancestor string
	resource string
	action   string
}

// NewUnauthorizedResourceError reports a resource (or, when action is not
// empty, an action on a resource) that capability ancestor does not grant.
func NewUnauthorizedResourceError(ancestor, resource, action string) UnauthorizedResourceError {
	return UnauthorizedResourceError{failure.NamedWithCurrentStackTrace("UnauthorizedResource"), ancestor, resource, action}
}

func (ure UnauthorizedResourceError) Resource() string {
	return ure.resource
}

func (ure UnauthorizedResourceError) Action() string {
	return ure.action
}

func (ure UnauthorizedResourceError) Error() string {
	if ure.action == "" {
		return fmt.Sprintf("capability %s grants no access to resource %s", ure.ancestor, ure.resource)
	}
	return fmt.Sprintf("capability %s does not grant %s on resource %s", ure.ancestor, ure.action, ure.resource)
}

func (ure UnauthorizedResourceError) Category() failure.Category {
	return failure.PolicyViolation
}

func (ure UnauthorizedResourceError) isInvalidChainError() {}

type InternalInconsistencyError struct {
	failure.NamedWithStackTrace
	id     string
	reason string
}

func NewInternalInconsistencyError(id, reason string) InternalInconsistencyError {
	return InternalInconsistencyError{failure.NamedWithCurrentStackTrace("InternalInconsistency"), id, reason}
}

func (iie InternalInconsistencyError) Error() string {
	return fmt.Sprintf("%s at capability %s", iie.reason, iie.id)
}

func (iie InternalInconsistencyError) Category() failure.Category {
	return failure.Internal
}

func (iie InternalInconsistencyError) isInvalidChainError() {}

type UnknownTargetError struct {
	failure.NamedWithStackTrace
	id string
}

func NewUnknownTargetError(id string) UnknownTargetError {
	return UnknownTargetError{failure.NamedWithCurrentStackTrace("UnknownTarget"), id}
}

func (ute UnknownTargetError) Error() string {
	return fmt.Sprintf("capability token %s to revoke does not exist", ute.id)
}

func (ute UnknownTargetError) Category() failure.Category {
	return failure.PolicyViolation
}

type UnauthorizedRevokeError struct {
	failure.NamedWithStackTrace
	capability string
	sender     string
	reason     string
}

func NewUnauthorizedRevokeError(capability, sender, reason string) UnauthorizedRevokeError {
	return UnauthorizedRevokeError{failure.NamedWithCurrentStackTrace("UnauthorizedRevoke"), capability, sender, reason}
}

func (ure UnauthorizedRevokeError) Error() string {
	return strings.Join([]string{
		fmt.Sprintf("capability %q cannot be used to revoke: %s", ure.capability, ure.reason),
		li(fmt.Sprintf("sender: %s", ure.sender)),
	}, "\n")
}

func (ure UnauthorizedRevokeError) Category() failure.Category {
	return failure.Unauthorized
}

type InsufficientAuthorityError struct {
	failure.NamedWithStackTrace
	capability string
	target     string
}

func NewInsufficientAuthorityError(capability, target string) InsufficientAuthorityError {
	return InsufficientAuthorityError{failure.NamedWithCurrentStackTrace("InsufficientAuthority"), capability, target}
}

func (iae InsufficientAuthorityError) Error() string {
	return fmt.Sprintf("capability %s is not an ancestor of %s", iae.capability, iae.target)
}

func (iae InsufficientAuthorityError) Category() failure.Category {
	return failure.Unauthorized
}

type InvalidRevocationTypeError struct {
	failure.NamedWithStackTrace
	target string
	kind   string
}

func NewInvalidRevocationTypeError(target, kind string) InvalidRevocationTypeError {
	return InvalidRevocationTypeError{failure.NamedWithCurrentStackTrace("InvalidRevocationType"), target, kind}
}

func (irte InvalidRevocationTypeError) Error() string {
	return fmt.Sprintf("revocation type %s cannot be applied to root capability %s", irte.kind, irte.target)
}

func (irte InvalidRevocationTypeError) Category() failure.Category {
	return failure.PolicyViolation
}

type UnknownCapabilityError struct {
	failure.NamedWithStackTrace
	id string
}

func NewUnknownCapabilityError(id string) UnknownCapabilityError {
	return UnknownCapabilityError{failure.NamedWithCurrentStackTrace("UnknownCapability"), id}
}

func (uce UnknownCapabilityError) Error() string {
	return fmt.Sprintf("capability %s does not exist", uce.id)
}

func (uce UnknownCapabilityError) Category() failure.Category {
	return failure.Unauthorized
}

type InvalidSignatureError struct {
	failure.NamedWithStackTrace
	key string
}

func NewInvalidSignatureError(key string) InvalidSignatureError {
	return InvalidSignatureError{failure.NamedWithCurrentStackTrace("InvalidSignature"), key}
}

func (ise InvalidSignatureError) Error() string {
	return fmt.Sprintf("signature does not verify against key %s", ise.key)
}

func (ise InvalidSignatureError) Category() failure.Category {
	return failure.Unauthorized
}

type UnverifiableSignatureError struct {
	failure.NamedWithStackTrace
	key   string
	cause error
}

func NewUnverifiableSignatureError(key string, cause error) UnverifiableSignatureError {
	return UnverifiableSignatureError{failure.NamedWithCurrentStackTrace("UnverifiableSignature"), key, cause}
}

func (use UnverifiableSignatureError) Unwrap() error {
	return use.cause
}

func (use UnverifiableSignatureError) Error() string {
	return strings.Join([]string{
		fmt.Sprintf("unable to verify signature against key %s", use.key),
		li(use.cause.Error()),
	}, "\n")
}

func (use UnverifiableSignatureError) Category() failure.Category {
	return failure.Unauthorized
}

func indent(message string) string {
	indent := "  "
	return indent + strings.Join(strings.Split(message, "\n"), "\n"+indent)
}

func li(message string) string {
	return indent("- " + message)
}
