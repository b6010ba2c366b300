package vterm

import "strings"

// namedKeys maps key-event names to the byte sequences a terminal sends.
// Names follow the bubbletea convention ("enter", "ctrl+c", "up", ...).
var namedKeys = map[string][]byte{
	"enter":     {'\r'},
	"backspace": {127},
	"tab":       {'\t'},
	"shift+tab": {27, '[', 'Z'},
	"esc":       {27},
	"space":     {' '},

	"ctrl+a": {1},
	"ctrl+b": {2},
	"ctrl+c": {3},
	"ctrl+d": {4},
	"ctrl+e": {5},
	"ctrl+f": {6},
	"ctrl+g": {7},
	"ctrl+h": {8},
	"ctrl+j": {10},
	"ctrl+k": {11},
	"ctrl+l": {12},
	"ctrl+n": {14},
	"ctrl+o": {15},
	"ctrl+p": {16},
	"ctrl+q": {17},
	"ctrl+r": {18},
	"ctrl+s": {19},
	"ctrl+u": {21},
	"ctrl+v": {22},
	"ctrl+w": {23},
	"ctrl+x": {24},
	"ctrl+y": {25},
	"ctrl+z": {26},

	"up":     {27, '[', 'A'},
	"down":   {27, '[', 'B'},
	"right":  {27, '[', 'C'},
	"left":   {27, '[', 'D'},
	"home":   {27, '[', 'H'},
	"end":    {27, '[', 'F'},
	"pgup":   {27, '[', '5', '~'},
	"pgdown": {27, '[', '6', '~'},
	"delete": {27, '[', '3', '~'},
	"insert": {27, '[', '2', '~'},
}

// EncodeKey translates a key-event name into the bytes to write to the
// child's input. Unrecognized multi-character names encode to nil so the
// caller can ignore chords it does not forward. Single runes pass through
// as-is; "alt+x" sends ESC followed by the character.
func EncodeKey(name string) []byte {
	if b, ok := namedKeys[name]; ok {
		out := make([]byte, len(b))
		copy(out, b)
		return out
	}
	if strings.HasPrefix(name, "alt+") {
		rest := name[len("alt+"):]
		if len(rest) == 1 {
			return []byte{27, rest[0]}
		}
		return nil
	}
	if r := []rune(name); len(r) == 1 {
		return []byte(name)
	}
	return nil
}
