// Package permission mediates agent-originated writes to a terminal
// session. Every proposed write is evaluated against the active trust
// level, with a hard override that forces explicit approval whenever the
// session is collecting a password.
package permission

import (
	"fmt"
	"sync"
)

// Trust controls how much autonomy the agent has before a write requires
// human approval.
type Trust int

const (
	// TrustAskFirst requires approval for the first write of a session;
	// subsequent writes execute immediately once one was granted.
	TrustAskFirst Trust = iota
	// TrustAlwaysAsk requires approval for every write.
	TrustAlwaysAsk
	// TrustAlwaysAllow executes writes immediately, except during
	// password entry.
	TrustAlwaysAllow
)

func (t Trust) String() string {
	switch t {
	case TrustAskFirst:
		return "ask-first"
	case TrustAlwaysAsk:
		return "always-ask"
	case TrustAlwaysAllow:
		return "always-allow"
	default:
		return "unknown"
	}
}

// ParseTrust converts a config string into a Trust level.
func ParseTrust(s string) (Trust, error) {
	switch s {
	case "ask-first":
		return TrustAskFirst, nil
	case "always-ask":
		return TrustAlwaysAsk, nil
	case "always-allow":
		return TrustAlwaysAllow, nil
	default:
		return 0, fmt.Errorf("unknown trust level %q", s)
	}
}

// Policy is the per-pane permission state: the active trust level and,
// for ask-first, whether the first approval has already been granted.
// Only explicit user action mutates it.
type Policy struct {
	mu           sync.Mutex
	trust        Trust
	firstGranted bool
}

func NewPolicy(trust Trust) *Policy {
	return &Policy{trust: trust}
}

func (p *Policy) Trust() Trust {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trust
}

// SetTrust switches the trust level and clears any recorded first
// approval, so a move back to ask-first starts conservative again.
func (p *Policy) SetTrust(trust Trust) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.trust != trust {
		p.trust = trust
		p.firstGranted = false
	}
}

func (p *Policy) FirstGranted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.firstGranted
}

func (p *Policy) grantFirst() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.firstGranted = true
}
