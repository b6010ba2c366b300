package permission

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDenied is returned when the user rejects a pending write.
	ErrDenied = errors.New("write denied by user")
	// ErrUnknownRequest is returned when resolving an id that is not
	// pending (already resolved, or never existed).
	ErrUnknownRequest = errors.New("unknown write request")
	// ErrGatewayClosed is returned for writes submitted after Close.
	ErrGatewayClosed = errors.New("permission gateway closed")
)

// Request is one agent-proposed write awaiting a user decision.
type Request struct {
	ID            string
	Bytes         []byte
	Description   string
	Trust         Trust
	PasswordGated bool
	CreatedAt     time.Time

	decided chan bool
}

// Gateway evaluates agent write requests against the pane's Policy and
// queues those that need a human decision. The surface callback is
// invoked (on the submitting goroutine) whenever a new request needs to
// be shown to the user.
type Gateway struct {
	policy  *Policy
	surface func(*Request)

	mu      sync.Mutex
	pending map[string]*Request
	closed  bool
}

func NewGateway(policy *Policy, surface func(*Request)) *Gateway {
	return &Gateway{
		policy:  policy,
		surface: surface,
		pending: make(map[string]*Request),
	}
}

// Submit runs the gateway decision order for one proposed write:
//
//  1. password entry detected: always queue, no trust level bypasses it
//  2. always-allow: execute immediately
//  3. ask-first with a prior approval: execute immediately
//  4. otherwise queue and block until the user decides
//
// A nil error means the caller should perform the write; queued reports
// whether a user decision was involved. Denial is reported as
// ErrDenied; ctx cancellation abandons the request.
func (g *Gateway) Submit(ctx context.Context, raw []byte, description string, passwordMode bool) (queued bool, err error) {
	trust := g.policy.Trust()

	if !passwordMode {
		switch {
		case trust == TrustAlwaysAllow:
			return false, nil
		case trust == TrustAskFirst && g.policy.FirstGranted():
			return false, nil
		}
	}

	req := &Request{
		ID:            uuid.NewString(),
		Bytes:         raw,
		Description:   description,
		Trust:         trust,
		PasswordGated: passwordMode,
		CreatedAt:     time.Now(),
		decided:       make(chan bool, 1),
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return true, ErrGatewayClosed
	}
	g.pending[req.ID] = req
	g.mu.Unlock()

	if g.surface != nil {
		g.surface(req)
	}

	select {
	case approved := <-req.decided:
		if !approved {
			return true, ErrDenied
		}
		// A password-gated approval is not a grant of autonomy: only a
		// plain ask-first approval unlocks auto-approval for the rest
		// of the session.
		if trust == TrustAskFirst && !passwordMode {
			g.policy.grantFirst()
		}
		return true, nil
	case <-ctx.Done():
		g.discard(req.ID)
		return true, ctx.Err()
	}
}

// Resolve applies a user decision to a pending request.
func (g *Gateway) Resolve(id string, approve bool) error {
	g.mu.Lock()
	req, ok := g.pending[id]
	if ok {
		delete(g.pending, id)
	}
	g.mu.Unlock()
	if !ok {
		return ErrUnknownRequest
	}
	req.decided <- approve
	return nil
}

// Pending returns a snapshot of requests still awaiting a decision.
func (g *Gateway) Pending() []*Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Request, 0, len(g.pending))
	for _, req := range g.pending {
		out = append(out, req)
	}
	return out
}

// Close denies every outstanding request and rejects future submissions.
// Called when the owning pane shuts down.
func (g *Gateway) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	pending := g.pending
	g.pending = make(map[string]*Request)
	g.mu.Unlock()

	for _, req := range pending {
		req.decided <- false
	}
}

func (g *Gateway) discard(id string) {
	g.mu.Lock()
	delete(g.pending, id)
	g.mu.Unlock()
}
