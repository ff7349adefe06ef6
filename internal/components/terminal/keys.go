package terminal

import tea "github.com/charmbracelet/bubbletea"

var escapeKeys = map[tea.KeyType]string{
	tea.KeyUp:       "\x1b[A",
	tea.KeyDown:     "\x1b[B",
	tea.KeyRight:    "\x1b[C",
	tea.KeyLeft:     "\x1b[D",
	tea.KeyHome:     "\x1b[H",
	tea.KeyEnd:      "\x1b[F",
	tea.KeyPgUp:     "\x1b[5~",
	tea.KeyPgDown:   "\x1b[6~",
	tea.KeyDelete:   "\x1b[3~",
	tea.KeyInsert:   "\x1b[2~",
	tea.KeyShiftTab: "\x1b[Z",
}

// keyBytes encodes a key press the way a terminal would send it.
func keyBytes(msg tea.KeyMsg) []byte {
	if seq, ok := escapeKeys[msg.Type]; ok {
		return []byte(seq)
	}

	var out []byte
	switch {
	case msg.Type == tea.KeyRunes:
		s := string(msg.Runes)
		if looksLikeMouseSequence(s) || looksLikeEscapeFragment(s) {
			return nil
		}
		out = []byte(s)
	case msg.Type == tea.KeySpace:
		out = []byte{' '}
	case msg.Type == tea.KeyBackspace:
		out = []byte{127}
	case msg.Type == tea.KeyEscape:
		out = []byte{27}
	case msg.Type >= tea.KeyCtrlAt && msg.Type <= tea.KeyCtrlUnderscore:
		// Control keys, Enter and Tab map to their C0 byte.
		out = []byte{byte(msg.Type)}
	default:
		return nil
	}

	if msg.Alt && msg.Type != tea.KeyEscape {
		out = append([]byte{27}, out...)
	}
	return out
}

// looksLikeEscapeFragment reports whether s is the tail of a split CSI
// sequence that arrived as runes.
func looksLikeEscapeFragment(s string) bool {
	if s == "[" || s == "<" || s == "[<" {
		return true
	}
	if len(s) > 1 && s[0] == '[' {
		for i := 1; i < len(s); i++ {
			c := s[i]
			if c != ';' && c != '<' && (c < '0' || c > '9') {
				return false
			}
		}
		return true
	}
	return false
}

// looksLikeMouseSequence reports whether s is a partial SGR mouse report
// such as "65;83;57M".
func looksLikeMouseSequence(s string) bool {
	if len(s) < 3 {
		return false
	}
	if last := s[len(s)-1]; last != 'M' && last != 'm' {
		return false
	}
	for i := 0; i < len(s)-1; i++ {
		c := s[i]
		if c != ';' && c != '<' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
