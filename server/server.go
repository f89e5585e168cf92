// Package server applies capbac transactions to ledger state.
package server

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/capbac/go-capbac/core/payload"
	"github.com/capbac/go-capbac/core/result/failure"
	"github.com/capbac/go-capbac/core/revocation"
	"github.com/capbac/go-capbac/core/token"
	"github.com/capbac/go-capbac/principal/secp256k1/verifier"
	"github.com/capbac/go-capbac/server/transaction"
	"github.com/capbac/go-capbac/state"
	"github.com/capbac/go-capbac/validator"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/metric/noop"
)

// FamilyVersions lists the transaction family versions the handler accepts.
var FamilyVersions = []string{token.Version}

// Handler is a ledger transaction handler for the capbac family.
type Handler interface {
	FamilyName() string
	FamilyVersions() []string
	// Namespaces are the state address prefixes the handler reads and writes.
	Namespaces() []string
	// Apply decides a single transaction. On success the new device state has
	// been written to host. On failure nothing has been written and the error
	// is an [*InvalidTransactionError] or an [*InternalError].
	Apply(ctx context.Context, txn transaction.Transaction, host state.Context) error
}

// ErrorHandlerFunc allows internal errors generated while applying a
// transaction to be reported.
type ErrorHandlerFunc func(err HandlerExecutionError)

func NewHandler(options ...Option) (Handler, error) {
	cfg := handlerConfig{}
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	log := cfg.logger
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}

	clock := cfg.clock
	if clock == nil {
		clock = time.Now
	}

	catch := cfg.catch
	if catch == nil {
		catch = func(err HandlerExecutionError) {}
	}

	mp := cfg.meterProvider
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	m, err := newMetrics(mp)
	if err != nil {
		return nil, err
	}

	return &handler{log: log, clock: clock, catch: catch, metrics: m, cache: cfg.cache}, nil
}

type handler struct {
	log     logrus.FieldLogger
	clock   func() time.Time
	catch   ErrorHandlerFunc
	metrics *metrics
	cache   *state.Cache
}

func (h *handler) FamilyName() string {
	return state.FamilyName
}

func (h *handler) FamilyVersions() []string {
	return FamilyVersions
}

func (h *handler) Namespaces() []string {
	return []string{state.Prefix()}
}

// decision is the outcome of running the authorization rules.
type decision struct {
	device string
	id     string
	next   token.DeviceState
}

func (h *handler) Apply(ctx context.Context, txn transaction.Transaction, host state.Context) error {
	start := time.Now()
	now := h.clock().Unix()
	sender := txn.SignerPublicKey()
	log := h.log.WithField("sender", principalName(sender))

	p, err := payload.Decode(txn.Payload())
	if err != nil {
		return h.fail(ctx, log, "unknown", start, err)
	}
	log = log.WithField("action", p.Action)

	var opts []state.Option
	if h.cache != nil {
		opts = append(opts, state.WithCache(h.cache))
	}
	store := state.NewStore(host, opts...)

	var d decision
	switch p.Action {
	case payload.Issue:
		d, err = h.issue(ctx, store, p.Object, sender, now)
	case payload.Revoke:
		d, err = h.revoke(ctx, store, p.Object, sender, now)
	default:
		err = payload.NewDecodeError(fmt.Errorf("unknown action %q", p.Action))
	}
	if d.device != "" {
		log = log.WithField("device", d.device)
	}
	if d.id != "" {
		log = log.WithField("token", d.id)
	}
	if err != nil {
		return h.fail(ctx, log, p.Action, start, err)
	}

	link, err := store.Put(ctx, d.device, d.next)
	if err != nil {
		return h.fail(ctx, log, p.Action, start, err)
	}

	h.metrics.record(ctx, string(p.Action), outcomeApplied, "", time.Since(start))
	log.WithField("state", link.String()).WithField("capabilities", len(d.next)).Info("transaction applied")
	return nil
}

func (h *handler) issue(ctx context.Context, store *state.Store, obj datamodel.Node, sender string, now int64) (decision, error) {
	if err := token.Validate(obj, now); err != nil {
		return decision{}, err
	}
	tkn, err := token.FromNode(obj)
	if err != nil {
		return decision{}, payload.NewDecodeError(err)
	}
	d := decision{device: tkn.DE, id: tkn.ID}
	if err := validator.VerifySignature(tkn, sender); err != nil {
		return d, err
	}
	current, err := store.Load(ctx, tkn.DE)
	if err != nil {
		return d, err
	}
	d.next, err = validator.Issue(current, tkn, sender, now)
	return d, err
}

func (h *handler) revoke(ctx context.Context, store *state.Store, obj datamodel.Node, sender string, now int64) (decision, error) {
	if err := revocation.Validate(obj); err != nil {
		return decision{}, err
	}
	req, err := revocation.FromNode(obj)
	if err != nil {
		return decision{}, payload.NewDecodeError(err)
	}
	d := decision{device: req.DE, id: req.ID}
	if err := validator.VerifySignature(req, sender); err != nil {
		return d, err
	}
	current, err := store.Load(ctx, req.DE)
	if err != nil {
		return d, err
	}
	d.next, err = validator.Revoke(current, req, sender, now)
	return d, err
}

func (h *handler) fail(ctx context.Context, log logrus.FieldLogger, action payload.Action, start time.Time, err error) error {
	category := failure.CategoryOf(err)
	log = log.WithError(err).WithField("reason", failure.NameOf(err))
	if category == failure.Internal {
		h.metrics.record(ctx, string(action), outcomeError, category.String(), time.Since(start))
		log.WithField("stack", failure.FromError(err).Stack()).Error("failed to apply transaction")
		h.catch(NewHandlerExecutionError(err, action))
		return &InternalError{cause: err}
	}
	h.metrics.record(ctx, string(action), outcomeRejected, category.String(), time.Since(start))
	log.WithField("category", category.String()).Info("transaction rejected")
	return &InvalidTransactionError{cause: err}
}

// principalName renders a sender key as a did:key for logs.
func principalName(key string) string {
	v, err := verifier.Parse(key)
	if err != nil {
		return key
	}
	return v.DID().String()
}
