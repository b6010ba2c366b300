// Package pane arbitrates one embedded terminal between a human and an
// AI agent. It owns the PTY session, the virtual screen it renders
// into, the writer gate in front of the PTY, and the permission gateway
// that vets agent writes.
package pane

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/Dicklesworthstone/agentpane/internal/audit"
	"github.com/Dicklesworthstone/agentpane/internal/gate"
	"github.com/Dicklesworthstone/agentpane/internal/permission"
	"github.com/Dicklesworthstone/agentpane/internal/session"
	"github.com/Dicklesworthstone/agentpane/internal/vterm"
)

var (
	// ErrSessionNotRunning is reported to the agent when it proposes a
	// write and no live PTY exists.
	ErrSessionNotRunning = errors.New("no running session")
	// ErrAgentWritesDisabled rejects agent writes outside
	// agent-terminal mode.
	ErrAgentWritesDisabled = errors.New("agent writes require agent-terminal mode")
	// ErrTerminalBusy rejects an agent request for agent-terminal mode
	// while the human is driving the PTY directly.
	ErrTerminalBusy = errors.New("terminal mode active, agent may not take over")
	// ErrModeReverted is reported when a write was approved but the
	// user forced the pane back to agent mode before it executed.
	ErrModeReverted = errors.New("mode reverted before write executed")
	// ErrUnknownKey is returned for a key chord with no encoding.
	ErrUnknownKey = errors.New("unknown key")
)

// Route says where a dispatched keystroke went.
type Route int

const (
	// RouteLocal means the key belongs to the local input buffer.
	RouteLocal Route = iota
	// RoutePTY means the key was encoded and written to the PTY.
	RoutePTY
)

// EventKind tags asynchronous pane notifications.
type EventKind int

const (
	EventModeChanged EventKind = iota
	EventSessionDied
	EventWriteRequested
)

// Event is delivered on the pane's event channel.
type Event struct {
	Kind     EventKind
	Mode     Mode
	ExitCode int
	Request  *permission.Request
}

// Options configures a new pane.
type Options struct {
	Command string
	Args    []string
	Rows    int
	Cols    int
	Trust   permission.Trust
	// Scrollback caps the scrolled-off-line buffer; zero means the
	// screen's default.
	Scrollback int
	Audit      *audit.Store // optional
	Logger     *log.Logger  // optional
}

// Pane is the single entry point collaborators use: the TUI dispatches
// keystrokes and decisions through it, and the agent runtime proposes
// writes and reads screen snapshots through it.
type Pane struct {
	opts    Options
	screen  vterm.Screen
	gate    *gate.Gate
	policy  *permission.Policy
	gateway *permission.Gateway
	store   *audit.Store
	logger  *log.Logger

	mu    sync.Mutex
	mode  Mode
	sess  *session.Session
	relay *session.Relay

	events chan Event
	closed bool
}

func New(opts Options) *Pane {
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	screen := vterm.New(opts.Rows, opts.Cols)
	if opts.Scrollback > 0 {
		screen = vterm.NewWithScrollback(opts.Rows, opts.Cols, opts.Scrollback)
	}

	p := &Pane{
		opts:   opts,
		screen: screen,
		gate:   gate.New(),
		policy: permission.NewPolicy(opts.Trust),
		store:  opts.Audit,
		logger: logger,
		mode:   ModeAgent,
		events: make(chan Event, 16),
	}
	p.gateway = permission.NewGateway(p.policy, p.surfaceRequest)
	return p
}

// Events is the pane's asynchronous notification channel: mode changes,
// session exits, and surfaced write requests.
func (p *Pane) Events() <-chan Event {
	return p.events
}

func (p *Pane) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

func (p *Pane) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sess != nil && p.sess.Alive()
}

// Screen exposes the shared terminal state's read interface for
// rendering and agent snapshots.
func (p *Pane) Screen() vterm.Screen {
	return p.screen
}

// Snapshot returns a consistent copy of the screen for the agent.
func (p *Pane) Snapshot() vterm.Snapshot {
	return p.screen.Snapshot()
}

// SetTrust applies a trust-level change from config or user action.
func (p *Pane) SetTrust(t permission.Trust) {
	p.policy.SetTrust(t)
}

func (p *Pane) Trust() permission.Trust {
	return p.policy.Trust()
}

// ToggleMode cycles agent and terminal mode. Entering terminal mode
// spawns the session lazily if none is running.
func (p *Pane) ToggleMode() error {
	p.mu.Lock()
	next := toggled(p.mode)
	if next == ModeTerminal {
		if err := p.ensureSessionLocked(); err != nil {
			p.mu.Unlock()
			return err
		}
	}
	p.mode = next
	p.mu.Unlock()

	p.emit(Event{Kind: EventModeChanged, Mode: next})
	return nil
}

// ForceAgent returns the pane to agent mode from any state. Queued
// agent writes approved after this point will not execute.
func (p *Pane) ForceAgent() {
	p.mu.Lock()
	changed := p.mode != ModeAgent
	p.mode = ModeAgent
	p.mu.Unlock()

	if changed {
		p.emit(Event{Kind: EventModeChanged, Mode: ModeAgent})
	}
}

// RequestAgentTerminal grants the agent supervised access to the PTY.
// Only permitted from agent mode so a human typing in a live shell is
// never pre-empted. Spawns the session if none exists.
func (p *Pane) RequestAgentTerminal() error {
	p.mu.Lock()
	switch p.mode {
	case ModeTerminal:
		p.mu.Unlock()
		return ErrTerminalBusy
	case ModeAgentTerminal:
		p.mu.Unlock()
		return nil
	}
	if err := p.ensureSessionLocked(); err != nil {
		p.mu.Unlock()
		return err
	}
	p.mode = ModeAgentTerminal
	p.mu.Unlock()

	p.emit(Event{Kind: EventModeChanged, Mode: ModeAgentTerminal})
	return nil
}

// RouteKey dispatches one keystroke according to the current mode. In
// terminal mode the key is encoded and written to the PTY; in the other
// modes it belongs to the caller's local input handling.
func (p *Pane) RouteKey(name string) (Route, error) {
	p.mu.Lock()
	mode := p.mode
	p.mu.Unlock()

	if mode != ModeTerminal {
		return RouteLocal, nil
	}

	raw := vterm.EncodeKey(name)
	if raw == nil {
		return RoutePTY, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	if _, err := p.gate.Write(raw); err != nil {
		return RoutePTY, fmt.Errorf("write key: %w", err)
	}
	return RoutePTY, nil
}

// Resize applies new dimensions to the screen and, when a session is
// live, to the OS PTY. A PTY propagation failure is logged and left for
// the next resize; the screen always resizes.
func (p *Pane) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	p.screen.Resize(rows, cols)

	p.mu.Lock()
	sess := p.sess
	p.mu.Unlock()
	if sess == nil {
		return
	}
	if err := sess.Resize(uint16(rows), uint16(cols)); err != nil && !errors.Is(err, session.ErrNotRunning) {
		p.logger.Printf("resize to %dx%d failed: %v", rows, cols, err)
	}
}

// ProposeWrite submits an agent write. It blocks until the gateway
// allows it (possibly waiting on a user decision), then performs the
// write unless the user forced agent mode in the meantime.
func (p *Pane) ProposeWrite(ctx context.Context, raw []byte, description string) error {
	p.mu.Lock()
	if p.mode != ModeAgentTerminal {
		p.mu.Unlock()
		return ErrAgentWritesDisabled
	}
	sess := p.sess
	p.mu.Unlock()

	if sess == nil || !sess.Alive() {
		return ErrSessionNotRunning
	}

	passwordMode := sess.PasswordMode()
	queued, err := p.gateway.Submit(ctx, raw, description, passwordMode)
	if err != nil {
		return err
	}
	if !queued && p.store != nil {
		err := p.store.RecordRequest(uuid.NewString(), description, len(raw), p.policy.Trust().String(), false, audit.OutcomeAuto)
		if err != nil {
			p.logger.Printf("audit auto write: %v", err)
		}
	}

	// The user may have forced agent mode while the request was
	// pending; an approval arriving after that must not execute.
	p.mu.Lock()
	mode := p.mode
	p.mu.Unlock()
	if mode != ModeAgentTerminal {
		return ErrModeReverted
	}

	if _, err := p.gate.Write(raw); err != nil {
		return fmt.Errorf("write to session: %w", err)
	}
	p.logger.Printf("agent wrote %d bytes: %s", len(raw), description)
	return nil
}

// ResolveWrite applies the user's decision to a surfaced request and
// records the outcome.
func (p *Pane) ResolveWrite(id string, approve bool) error {
	if err := p.gateway.Resolve(id, approve); err != nil {
		return err
	}
	if p.store != nil {
		outcome := audit.OutcomeDenied
		if approve {
			outcome = audit.OutcomeApproved
		}
		if err := p.store.RecordOutcome(id, outcome); err != nil {
			p.logger.Printf("audit outcome for %s: %v", id, err)
		}
	}
	return nil
}

// PendingWrites lists requests still awaiting a decision.
func (p *Pane) PendingWrites() []*permission.Request {
	return p.gateway.Pending()
}

// Close tears the pane down: denies pending writes, terminates the
// session, waits for the relay, and closes the event channel.
func (p *Pane) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	sess := p.sess
	relay := p.relay
	p.sess = nil
	p.relay = nil
	p.mu.Unlock()

	p.gateway.Close()
	if sess != nil {
		sess.Close()
	}
	if relay != nil {
		relay.Join()
	}
	p.gate.Unbind()

	p.mu.Lock()
	close(p.events)
	p.mu.Unlock()
}

// ensureSessionLocked spawns the PTY session if none is live, binds the
// writer gate to it, and starts the output relay. Caller holds p.mu.
func (p *Pane) ensureSessionLocked() error {
	if p.sess != nil && p.sess.Alive() {
		return nil
	}

	sess, err := session.Spawn(session.Options{
		Command: p.opts.Command,
		Args:    p.opts.Args,
		Rows:    uint16(p.opts.Rows),
		Cols:    uint16(p.opts.Cols),
	})
	if err != nil {
		return fmt.Errorf("spawn session: %w", err)
	}

	p.sess = sess
	p.gate.Bind(sess.Input())
	p.relay = session.StartRelay(sess, p.screen, func() {
		p.onSessionExit(sess)
	})
	p.logger.Printf("spawned session pid %d", sess.Pid())
	return nil
}

// onSessionExit runs once per session, from the relay goroutine, when
// the PTY output stream closes.
func (p *Pane) onSessionExit(sess *session.Session) {
	code := sess.Wait()

	p.mu.Lock()
	if p.sess != sess {
		// A newer session already replaced this one.
		p.mu.Unlock()
		return
	}
	p.sess = nil
	p.relay = nil
	p.gate.Unbind()
	wasClosed := p.closed
	p.mode = ModeAgent
	p.mu.Unlock()

	if wasClosed {
		return
	}
	p.logger.Printf("session exited with code %d", code)
	p.emit(Event{Kind: EventSessionDied, Mode: ModeAgent, ExitCode: code})
}

// surfaceRequest forwards a queued write request to the event channel
// and records it in the audit trail.
func (p *Pane) surfaceRequest(req *permission.Request) {
	if p.store != nil {
		err := p.store.RecordRequest(req.ID, req.Description, len(req.Bytes), req.Trust.String(), req.PasswordGated, audit.OutcomePending)
		if err != nil {
			p.logger.Printf("audit request %s: %v", req.ID, err)
		}
	}
	p.emit(Event{Kind: EventWriteRequested, Request: req})
}

// emit never blocks; a full channel drops the event. The TUI drains the
// channel promptly and PendingWrites covers any dropped surfacing. The
// lock orders emit against Close so the channel is never written after
// it closes.
func (p *Pane) emit(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.events <- ev:
	default:
	}
}
