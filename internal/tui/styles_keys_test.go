package tui

import "testing"

func TestDefaultKeyMapHasHelp(t *testing.T) {
	k := defaultKeyMap()
	for _, group := range k.FullHelp() {
		for _, binding := range group {
			if binding.Help().Key == "" || binding.Help().Desc == "" {
				t.Errorf("binding %v missing help text", binding.Keys())
			}
		}
	}
	if len(k.ShortHelp()) == 0 {
		t.Error("short help should not be empty")
	}
}

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()
	if !s.Header.GetBold() {
		t.Error("header should be bold")
	}
	if !s.ModeAgent.GetBold() || !s.ModeTerminal.GetBold() || !s.ModeShared.GetBold() {
		t.Error("mode badges should be bold")
	}
	if !s.Cursor.GetReverse() {
		t.Error("cursor style should be reverse video")
	}
}
