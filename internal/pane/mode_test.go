package pane

import "testing"

func TestToggled(t *testing.T) {
	tests := []struct {
		from, want Mode
	}{
		{ModeAgent, ModeTerminal},
		{ModeTerminal, ModeAgent},
		{ModeAgentTerminal, ModeAgent},
	}
	for _, tt := range tests {
		if got := toggled(tt.from); got != tt.want {
			t.Errorf("toggled(%v) = %v, want %v", tt.from, got, tt.want)
		}
	}
}

// The transition function is pure: N toggles from agent mode always land
// on the state reached by applying it N times, and an even count returns
// to agent mode.
func TestTogglePurity(t *testing.T) {
	m := ModeAgent
	for i := 1; i <= 10; i++ {
		m = toggled(m)
		want := ModeTerminal
		if i%2 == 0 {
			want = ModeAgent
		}
		if m != want {
			t.Fatalf("after %d toggles: got %v, want %v", i, m, want)
		}
	}
}

func TestModeString(t *testing.T) {
	if ModeAgent.String() != "agent" || ModeTerminal.String() != "terminal" || ModeAgentTerminal.String() != "agent-terminal" {
		t.Error("unexpected mode names")
	}
}
