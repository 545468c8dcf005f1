package zapwire

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/lnwire"
)

// State is a payment session's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateNegotiating
	StateAwaitingReceipt
	StateConfirmed
	StateTimedOut
	StateFailed
)

// Terminal reports whether the state releases the session.
func (s State) Terminal() bool {
	switch s {
	case StateConfirmed, StateTimedOut, StateFailed:
		return true
	default:
		return false
	}
}

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNegotiating:
		return "negotiating"
	case StateAwaitingReceipt:
		return "awaiting_receipt"
	case StateConfirmed:
		return "confirmed"
	case StateTimedOut:
		return "timed_out"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// PaymentSession tracks one payment attempt from negotiation to its
// terminal outcome. It is created by Flow.Start, mutated only by the
// negotiation and validation steps, and discarded on completion,
// timeout or reset.
type PaymentSession struct {
	// ID is the caller visible correlation key, generated once.
	ID string

	// RecipientAddress is the user@domain address being paid.
	RecipientAddress string

	// RecipientPubkey is the identity the provider signs receipts
	// with, resolved from the metadata.
	RecipientPubkey string

	// AmountSats and AmountMsats are the requested amount. AmountMsats
	// is always exactly 1000x AmountSats.
	AmountSats  int64
	AmountMsats lnwire.MilliSatoshi

	// Invoice is the negotiated payment request, set once the
	// callback answers.
	Invoice string

	// ZapRequest is the signed intent record sent to the callback.
	ZapRequest *Event

	CreatedAt time.Time
	State     State
}

// Filter restricts a relay subscription. Since is a lower bound on
// event timestamps and is advisory only: anything the relay sends
// outside it must still fail validation on its own terms.
type Filter struct {
	Kinds   []int    `json:"kinds,omitempty"`
	Authors []string `json:"authors,omitempty"`
	Since   int64    `json:"since,omitempty"`
}

// Subscriber is the relay subscription capability the engine consumes.
// The returned teardown must be idempotent.
type Subscriber interface {
	Subscribe(ctx context.Context, filter Filter,
		handler func(*Event)) (func(), error)
}

// Config holds the engine's static knobs.
type Config struct {
	// MinAmountSats is the floor on requested amounts.
	MinAmountSats int64

	// ReceiptTimeout bounds how long a session waits for its
	// receipt.
	ReceiptTimeout time.Duration

	// Relays are advertised in outbound zap requests so the provider
	// knows where to publish the receipt.
	Relays []string
}

// Flow drives payment sessions through resolve, negotiate and await.
// At most one session may be in flight at a time: starting a second one
// fails fast with ErrPaymentInProgress instead of racing two sessions.
type Flow struct {
	cfg        Config
	resolver   *Resolver
	negotiator *Negotiator
	validator  *Validator
	subscriber Subscriber

	// OnReject observes per-event validation rejections. Rejections
	// never resolve the session; it keeps listening until a valid
	// receipt or the timeout.
	OnReject func(*Event, string)

	mu     sync.Mutex
	active *PaymentSession
}

// NewFlow wires a Flow from its capabilities. The cryptographic
// signature check defaults to VerifySignature.
func NewFlow(cfg Config, client Getter, subscriber Subscriber) *Flow {
	if cfg.ReceiptTimeout == 0 {
		cfg.ReceiptTimeout = time.Minute
	}

	return &Flow{
		cfg:        cfg,
		resolver:   &Resolver{Client: client},
		negotiator: &Negotiator{Client: client},
		validator:  &Validator{Verify: VerifySignature},
		subscriber: subscriber,
	}
}

func newSessionID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

// Start resolves the address, builds the zap request and negotiates an
// invoice. On success the returned session is awaiting its receipt and
// carries the invoice for the caller to surface. Any failure leaves the
// flow free for a new attempt.
func (f *Flow) Start(ctx context.Context, address string,
	amountSats int64) (*PaymentSession, error) {

	if amountSats < f.cfg.MinAmountSats {
		return nil, fmt.Errorf("%w: minimum is %d sats",
			ErrAmountOutOfBounds, f.cfg.MinAmountSats)
	}

	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	session := &PaymentSession{
		ID:               id,
		RecipientAddress: address,
		AmountSats:       amountSats,
		AmountMsats:      lnwire.MilliSatoshi(amountSats * 1000),
		CreatedAt:        time.Now(),
		State:            StateNegotiating,
	}

	f.mu.Lock()
	if f.active != nil && !f.active.State.Terminal() {
		f.mu.Unlock()
		return nil, ErrPaymentInProgress
	}
	f.active = session
	f.mu.Unlock()

	fail := func(err error) (*PaymentSession, error) {
		session.State = StateFailed
		f.release(session)
		return nil, err
	}

	meta, err := f.resolver.Resolve(ctx, address)
	if err != nil {
		return fail(err)
	}
	if !meta.AllowsNostr || meta.NostrPubkey == "" {
		return fail(fmt.Errorf("%w: %s", ErrNoZapSupport, address))
	}
	session.RecipientPubkey = meta.NostrPubkey

	request, err := BuildZapRequest(session, meta, f.cfg.Relays)
	if err != nil {
		return fail(err)
	}
	session.ZapRequest = request

	invoice, err := f.negotiator.Negotiate(
		ctx, meta, request, session.AmountMsats,
	)
	if err != nil {
		return fail(err)
	}

	session.Invoice = invoice
	session.State = StateAwaitingReceipt

	return session, nil
}

// Await subscribes for the session's receipt and blocks until a valid
// one arrives, the timeout fires, or the context is cancelled. Exactly
// one terminal outcome is produced; a timeout surfaces as
// ErrReceiptTimeout, never as a rejection. Teardown of the subscription
// is idempotent.
func (f *Flow) Await(ctx context.Context, session *PaymentSession) (
	*Outcome, error) {

	if session.State != StateAwaitingReceipt {
		return nil, fmt.Errorf("session %s is %v, not awaiting a "+
			"receipt", session.ID, session.State)
	}

	filter := Filter{
		Kinds:   []int{KindZapReceipt},
		Authors: []string{session.RecipientPubkey},
		Since:   session.CreatedAt.Unix(),
	}

	events := make(chan *Event, 16)
	unsub, err := f.subscriber.Subscribe(ctx, filter, func(ev *Event) {
		select {
		case events <- ev:
		default:
		}
	})
	if err != nil {
		session.State = StateFailed
		f.release(session)
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	var once sync.Once
	teardown := func() {
		once.Do(unsub)
	}
	defer teardown()

	timer := time.NewTimer(f.cfg.ReceiptTimeout)
	defer timer.Stop()

	for {
		select {
		case ev := <-events:
			outcome := f.validator.Validate(ev, session)
			if !outcome.Valid {
				if f.OnReject != nil {
					f.OnReject(ev, outcome.Reason)
				}
				continue
			}

			session.State = StateConfirmed
			teardown()
			f.release(session)
			return &outcome, nil

		case <-timer.C:
			session.State = StateTimedOut
			teardown()
			f.release(session)
			return nil, ErrReceiptTimeout

		case <-ctx.Done():
			session.State = StateFailed
			teardown()
			f.release(session)
			return nil, ctx.Err()
		}
	}
}

// Reset abandons the in-flight session, if any, freeing the flow for a
// new attempt. Safe to call at any time.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.active != nil && !f.active.State.Terminal() {
		f.active.State = StateFailed
	}
	f.active = nil
}

func (f *Flow) release(session *PaymentSession) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.active == session {
		f.active = nil
	}
}
