package pane

// Mode decides where keystrokes and agent writes go.
type Mode int

const (
	// ModeAgent routes keystrokes to the local input buffer; the agent
	// does not touch the terminal.
	ModeAgent Mode = iota
	// ModeTerminal routes keystrokes straight into the PTY.
	ModeTerminal
	// ModeAgentTerminal keeps keystrokes local but lets the agent
	// submit writes through the permission gateway.
	ModeAgentTerminal
)

func (m Mode) String() string {
	switch m {
	case ModeAgent:
		return "agent"
	case ModeTerminal:
		return "terminal"
	case ModeAgentTerminal:
		return "agent-terminal"
	default:
		return "unknown"
	}
}

// toggled is the pure transition function for the user's mode-toggle
// key. It cycles agent and terminal; from agent-terminal the toggle
// hands control back to the agent.
func toggled(m Mode) Mode {
	switch m {
	case ModeAgent:
		return ModeTerminal
	case ModeTerminal:
		return ModeAgent
	case ModeAgentTerminal:
		return ModeAgent
	default:
		return ModeAgent
	}
}
